package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bm-launcher/internal/config"
	"github.com/nikbrunner/bm-launcher/internal/model"
	"github.com/nikbrunner/bm-launcher/internal/opener"
	"github.com/nikbrunner/bm-launcher/internal/search"
	"github.com/nikbrunner/bm-launcher/internal/session"
	"github.com/nikbrunner/bm-launcher/internal/source"
)

type globalFlags struct {
	source   string
	path     string
	config   string
	logLevel string
}

// app carries the state shared by all subcommands.
type app struct {
	flags globalFlags

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	log     *slog.Logger
	logFile *os.File
}

// setup resolves configuration (file, then environment, then flags) and
// installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.flags.config
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("config path: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.Kind = a.flags.source
	}
	if flags.Changed("path") {
		cfg.Source.Path = a.flags.path
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	return a.setupLogger()
}

// setupLogger writes text logs to stderr, or appends them to log.file.
// Stdout is reserved for protocol and command output.
func (a *app) setupLogger() error {
	level, err := a.cfg.LogLevel()
	if err != nil {
		return err
	}

	w := a.stderr
	if a.cfg.Log.File != "" {
		f, err := os.OpenFile(a.cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		w = f
	}

	a.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// loadTree opens the configured bookmark store.
func (a *app) loadTree() (*model.Tree, error) {
	kind, err := a.cfg.SourceKind()
	if err != nil {
		return nil, err
	}

	loader, err := source.Open(kind, a.cfg.Source.Path)
	if err != nil {
		return nil, fmt.Errorf("loading bookmarks: %w", err)
	}

	tree, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading bookmarks: %w", err)
	}
	return tree, nil
}

// loadRecords opens the configured store and flattens it.
func (a *app) loadRecords() ([]model.Record, error) {
	tree, err := a.loadTree()
	if err != nil {
		return nil, err
	}
	records := tree.Records()
	a.log.Debug("bookmarks loaded", "source", a.cfg.Source.Kind, "roots", len(tree.Roots), "records", len(records))
	return records, nil
}

// newSession builds a session over records. keyword overrides the
// configured trigger word, and o the configured opener.
func (a *app) newSession(records []model.Record, keyword string, o opener.Opener) *session.Session {
	return session.New(records, session.Options{
		Keyword:    keyword,
		MaxResults: a.cfg.MaxResults,
		Ranker:     search.NewRanker(a.cfg.CacheSize),
		Opener:     o,
		Logger:     a.log,
	})
}

func (a *app) openerCommand() []string {
	return opener.ParseCommand(a.cfg.Opener.Command)
}
