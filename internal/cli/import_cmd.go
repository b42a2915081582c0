package cli

import (
	"fmt"

	"github.com/alexanderramin/credo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a model and its trees from a YAML or JSON outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := actingUser(ctx, app)
			if err != nil {
				return err
			}
			result, err := app.Import.ImportOutline(ctx, args[0], user)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Imported model %s (%s)", result.Model.Name, result.Model.DisplayID())))
			fmt.Fprint(out, formatter.RenderTable([]string{"KIND", "NODES"}, [][]string{
				{"decision", fmt.Sprint(result.DecisionCount)},
				{"uncertainty", fmt.Sprint(result.UncertaintyCount)},
				{"requirement", fmt.Sprint(result.RequirementCount)},
			}))
			return nil
		},
	}
}
