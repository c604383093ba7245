package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/catalog"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/config"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/drafts"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/observability"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/service"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

// memoryDSN keeps drafts in memory for the life of the process.
const memoryDSN = ":memory:"

// app holds flag values and the state built from them before a command runs.
type app struct {
	configPath  string
	catalogPath string
	dbPath      string
	verbose     int

	settings  config.Settings
	logger    *slog.Logger
	telemetry *telemetry

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "ccnl",
		Short: "Render CCNL documents and compare contract costs",
		Long: `ccnl fills {{key}} placeholders in document templates from a YAML catalog,
saves incomplete documents as drafts to finish later and compares the
employer cost of contract profiles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.telemetry.shutdown(commandContext(cmd))
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ccnl/config.yaml)")
	pf.StringVar(&a.catalogPath, "catalog", "", "catalog YAML file or directory")
	pf.StringVar(&a.dbPath, "db", "", "drafts database file")
	pf.CountVarP(&a.verbose, "verbose", "v", "increase verbosity (-v INFO, -vv DEBUG)")

	root.AddCommand(
		newPlaceholdersCmd(a),
		newRenderCmd(a),
		newDraftsCmd(a),
		newCompareCmd(a),
		newSimulateCmd(a),
		newLintCmd(a),
	)
	return root
}

// setup resolves settings from the config file and flags.
func (a *app) setup() error {
	s, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.catalogPath != "" {
		s.CatalogPath = a.catalogPath
	}
	if a.dbPath != "" {
		s.DatabasePath = a.dbPath
	}
	switch {
	case a.verbose >= 2:
		s.LogLevel = slog.LevelDebug
	case a.verbose == 1:
		s.LogLevel = slog.LevelInfo
	}

	a.settings = s
	a.logger = s.NewLogger(a.errOut)
	a.telemetry = startTelemetry(s, a.logger, a.errOut)
	a.logger.Debug("settings loaded",
		slog.String("catalog", s.CatalogPath),
		slog.String("database", s.DatabasePath),
	)
	return nil
}

func (a *app) renderer() *template.Renderer {
	return template.NewRenderer(a.settings.RendererOptions()...)
}

// service loads the catalog and, if withStore is set, opens the drafts
// database. The returned function closes the store.
func (a *app) service(withStore bool) (*service.Service, func(), error) {
	cat, err := catalog.LoadPath(a.settings.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	opts := []service.Option{
		service.WithLogger(a.logger),
		service.WithRenderer(a.renderer()),
		service.WithTracing(a.settings.Tracing),
	}
	if mp := a.telemetry.meters(); mp != nil {
		opts = append(opts, service.WithMetricsRecorder(observability.NewMetricsRecorderFor(mp)))
	}
	closeStore := func() {}
	if withStore {
		store, err := a.openStore()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, service.WithStore(store))
		closeStore = func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("closing drafts database", slog.String("error", err.Error()))
			}
		}
	}
	return service.New(cat, opts...), closeStore, nil
}

func (a *app) openStore() (*drafts.SQLiteStore, error) {
	path := a.settings.DatabasePath
	if path != memoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := drafts.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("open drafts database: %w", err)
	}
	return store, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
