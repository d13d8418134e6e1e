package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/config"
	"github.com/litescript/ls-skymap/internal/logging"
	"github.com/litescript/ls-skymap/internal/lookup"
	"github.com/litescript/ls-skymap/internal/nav"
	"github.com/litescript/ls-skymap/internal/search"
	"github.com/litescript/ls-skymap/internal/ui"
	"github.com/litescript/ls-skymap/internal/version"
)

// Persistent flags
var (
	configPath string
	logLevel   string
	logFile    string
	logFormat  string
	apiURL     string
	statePath  string
	display    string
)

// app holds the collaborators shared by every command.
type app struct {
	cfg     config.Config
	log     *logging.Logger
	store   *catalog.Store
	objects lookup.ObjectService
	docs    lookup.DocumentService
	persist lookup.FocusPersistence
	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

// machine builds a navigation state machine over the app's collaborators.
func (a *app) machine() nav.Machine {
	opts := []nav.Option{nav.WithLogger(a.log)}
	if a.persist != nil {
		opts = append(opts, nav.WithPersistence(a.persist))
	}
	return nav.New(a.cfg.Chart.Nav(), search.New(a.store), a.objects, a.docs, opts...)
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd().ExecuteContext(ctx)
}

// rootCmd builds the command tree. Building it resets the persistent flags
// to their defaults.
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "skymap",
		Short:         "Interactive whole-sky chart of Chinese star names",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.close()
			return runTUI(a)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath(), "config file (YAML)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to file")
	pf.StringVar(&logFormat, "log-format", "", "log format (text, json)")
	pf.StringVar(&apiURL, "api", "", "lookup service base URL (default: built-in catalog)")
	pf.StringVar(&statePath, "state", "", "file that persists the focused object")
	pf.StringVar(&display, "display", "", "object id to focus at startup, e.g. star-0001")

	root.AddCommand(renderCmd(), searchCmd(), serveCmd(), versionCmd())
	return root
}

// setup loads configuration and wires the logger, the catalog and the lookup
// services.
func setup(ctx context.Context, tui bool) (*app, error) {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if apiURL != "" {
		cfg.Data.APIURL = apiURL
	}
	if statePath != "" {
		cfg.StateFile = statePath
	}

	a := &app{cfg: cfg}
	log, closeLog, err := newLogger(cfg.Log, tui)
	if err != nil {
		return nil, err
	}
	a.log = log
	if closeLog != nil {
		a.closers = append(a.closers, closeLog)
	}

	var provider lookup.CatalogProvider = lookup.StaticCatalog{}
	if cfg.Data.CatalogPath != "" {
		provider = lookup.FileCatalog{Path: cfg.Data.CatalogPath}
	}
	if cfg.Data.APIURL != "" {
		client := lookup.NewClient(cfg.Data.APIURL, lookup.WithTimeout(cfg.Data.Timeout))
		cache := lookup.NewCache(client, client, cfg.Data.CacheTTL)
		a.objects, a.docs = cache, cache
		if cfg.Data.CatalogPath == "" {
			provider = client
		}
		a.log.Info("using lookup service %s", client.BaseURL())
	}

	store, err := provider.Catalog(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store
	if a.objects == nil {
		local := lookup.NewLocal(a.store, lookup.WithDocumentsDir(cfg.Data.DocumentsDir))
		a.objects, a.docs = local, local
	}

	switch {
	case display != "":
		a.persist = lookup.NewMemoryState(display)
	case cfg.StateFile != "":
		a.persist = lookup.FileState{Path: cfg.StateFile}
	}

	stars, consts := search.New(a.store).Len()
	a.log.Debug("catalog: %d stars, %d constellations", stars, consts)
	return a, nil
}

// newLogger builds the logger described by cfg. The TUI logs to a file or
// nowhere; headless commands log to stderr.
func newLogger(cfg config.LogConfig, tui bool) (*logging.Logger, func() error, error) {
	level := logging.ParseLevel(cfg.Level)
	var (
		w       io.Writer = os.Stderr
		closeFn func() error
	)
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	case tui:
		return logging.Discard(), nil, nil
	}

	if cfg.Format == "json" {
		return logging.NewJSON(level, w), closeFn, nil
	}
	l := logging.New(level)
	l.SetOutput(w)
	return l, closeFn, nil
}

func runTUI(a *app) error {
	model := ui.New(a.store, a.machine(), a.log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skymap %s\n", version.Version)
		},
	}
}
