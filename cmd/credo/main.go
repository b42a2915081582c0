package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/credo/internal/cli"
	"github.com/alexanderramin/credo/internal/cli/formatter"
	"github.com/alexanderramin/credo/internal/config"
	"github.com/alexanderramin/credo/internal/db"
	"github.com/alexanderramin/credo/internal/repository"
	"github.com/alexanderramin/credo/internal/service"
	"github.com/alexanderramin/credo/internal/tree"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("no database path; set CREDO_DB")
	}

	logger, level, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	formatter.SetColor(colorEnabled())

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	decisionRepo := repository.NewSQLiteDecisionRepo(database)
	uncertaintyRepo := repository.NewSQLiteUncertaintyRepo(database)
	requirementRepo := repository.NewSQLiteRequirementRepo(database)

	reg := prometheus.NewRegistry()
	metrics := tree.NewMetrics(reg)
	engineOpts := []tree.Option{tree.WithLogger(logger), tree.WithMetrics(metrics)}

	decisions := tree.NewEngine(decisionRepo, engineOpts...)
	uncertainties := tree.NewEngine(uncertaintyRepo, engineOpts...)
	requirements := tree.NewEngine(requirementRepo, engineOpts...)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr, slog.LevelInfo)
	}

	app := &cli.App{
		Models:        service.NewModelService(repository.NewSQLiteModelRepo(database), observer),
		Users:         service.NewUserService(repository.NewSQLiteUserRepo(database)),
		Decisions:     service.NewTreeService(decisionRepo, decisions, observer),
		Uncertainties: service.NewTreeService(uncertaintyRepo, uncertainties, observer),
		Requirements:  service.NewTreeService(requirementRepo, requirements, observer),
		Import:        service.NewImportService(db.NewSQLiteUnitOfWork(database), decisions, uncertainties, requirements, observer),
		UserName:      cfg.User,
		LogLevel:      &level,
		Metrics:       reg,
		DumpMetrics:   cfg.Metrics,
	}

	return cli.NewRootCmd(app).Execute()
}

// newLogger builds a production zap logger on stderr whose level can be
// raised later by --verbose.
func newLogger(cfg config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	name, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	lvl, err := zapcore.ParseLevel(string(name))
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logger, zc.Level, nil
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
