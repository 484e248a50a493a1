package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rhystmorgan/contactsterm/internal/audit"
	"rhystmorgan/contactsterm/internal/config"
	"rhystmorgan/contactsterm/internal/importer"
	"rhystmorgan/contactsterm/internal/storage"
	"rhystmorgan/contactsterm/internal/views"
)

type rootFlags struct {
	dbPath    string
	importURL string
	logLevel  string
}

// app carries what every subcommand shares once flags are parsed.
type app struct {
	flags   rootFlags
	cfg     *config.AppConfig
	logFile io.Closer
	store   *storage.Store
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Terminal contacts manager backed by SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.flags.dbPath, "db", "", "path to the SQLite database")
	root.PersistentFlags().StringVar(&a.flags.importURL, "import-url", "", "JSON endpoint used by import")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level [debug|info|warn|error]")

	root.AddCommand(newListCmd(a), newImportCmd(a), newServeCmd(a))

	return root
}

// setup loads configuration, applies flag overrides, starts logging and
// prepares the store.
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if a.flags.dbPath != "" {
		cfg.DBPath = a.flags.dbPath
	}
	if a.flags.importURL != "" {
		cfg.ImportURL = a.flags.importURL
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFile, err := config.SetupLogging(cfg)
	if err != nil {
		return err
	}

	opts := []storage.Option{
		storage.WithFetcher(importer.NewClient(cfg.ImportTimeout)),
	}
	if cfg.Audit {
		auditor, err := audit.NewContactAuditor(cfg.AuditDir())
		if err != nil {
			_ = logFile.Close()
			return fmt.Errorf("failed to start audit log: %w", err)
		}
		opts = append(opts, storage.WithAuditor(auditor))
	}

	a.cfg = cfg
	a.logFile = logFile
	a.store = storage.NewStore(cfg.DBPath, opts...)

	slog.Debug("configuration loaded", "db", a.store.Path(), "import_url", cfg.ImportURL, "audit", cfg.Audit)

	return nil
}

// teardown closes whatever setup opened. It is safe to call more than once.
func (a *app) teardown() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
	return err
}

func (a *app) runTUI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	model := views.NewAppModel(ctx, a.store, a.cfg.ImportURL)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
