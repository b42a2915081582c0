package cli

import (
	"github.com/alexanderramin/credo/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App holds the services and process settings used by CLI commands.
type App struct {
	Models        service.ModelService
	Users         service.UserService
	Decisions     service.DecisionService
	Uncertainties service.UncertaintyService
	Requirements  service.RequirementService
	Import        service.ImportService

	// UserName is the acting user; it is created on first use.
	UserName string
	// LogLevel is raised to debug by --verbose.
	LogLevel *zap.AtomicLevel
	// Metrics, when set, is dumped to stderr after each command if
	// DumpMetrics or --metrics is on.
	Metrics     prometheus.Gatherer
	DumpMetrics bool
}

// NewRootCmd creates the top-level "credo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "credo",
		Short:         "Outline-numbered decision, uncertainty and requirement trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose && app.LogLevel != nil {
				app.LogLevel.SetLevel(zapcore.DebugLevel)
			}
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !app.DumpMetrics || app.Metrics == nil {
				return nil
			}
			return writeMetrics(cmd.ErrOrStderr(), app.Metrics)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&app.UserName, "user", "u", app.UserName, "Acting user name")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log engine activity at debug level")
	flags.BoolVar(&app.DumpMetrics, "metrics", app.DumpMetrics, "Print reorder counters to stderr after the command")

	root.AddCommand(
		newModelCmd(app),
		newUserCmd(app),
		newKindCmd(decisionKind(app)),
		newKindCmd(uncertaintyKind(app)),
		newKindCmd(requirementKind(app)),
		newImportCmd(app),
	)

	return root
}
