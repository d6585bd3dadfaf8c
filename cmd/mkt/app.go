package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jacksmith/mkt/internal/api"
	"github.com/jacksmith/mkt/internal/backend"
	"github.com/jacksmith/mkt/internal/cli"
	"github.com/jacksmith/mkt/internal/logging"
	"github.com/jacksmith/mkt/internal/media"
	"github.com/jacksmith/mkt/internal/session"
	"github.com/jacksmith/mkt/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// envHome overrides the default state directory.
const envHome = "MKT_HOME"

// Prompts and diagnostics. Tests replace these.
var (
	stdin  io.Reader = os.Stdin
	stderr io.Writer = os.Stderr

	interactive = (*cli.Prompter).Interactive
)

// app wires the shared state every command works against.
type app struct {
	dir     string
	cfg     *storage.Config
	log     *logrus.Logger
	store   storage.Store
	backend *backend.Provider
	session *session.Provider
	client  *api.Client
	images  *media.Resolver
	prompt  *cli.Prompter
}

// stateDir returns --dir, then $MKT_HOME, then <user config dir>/mkt.
func stateDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if v := os.Getenv(envHome); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory (use --dir): %w", err)
	}
	return filepath.Join(base, "mkt"), nil
}

// openApp loads config, opens the store and restores the backend URL and
// session. Callers must Close the result.
func openApp() (*app, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	cfg, err := storage.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(stderr, cfg.LogLevel, flagVerbose)
	if err != nil {
		return nil, err
	}
	store, err := storage.OpenStore(dir, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		dir:    dir,
		cfg:    cfg,
		log:    log,
		store:  store,
		prompt: cli.NewPrompter(stdin, stderr),
	}

	a.backend = backend.New(store, cfg.FallbackBackendURL(DefaultBackendURL), log)
	if err := a.backend.Load(); err != nil {
		store.Close()
		return nil, err
	}
	a.images = media.NewResolver(a.backend.Get)

	a.client = api.New(api.Options{
		BaseURL:    a.backend.Get,
		Token:      func() string { return a.session.Token() },
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
		RateLimit:  cfg.RateLimit,
		Logger:     log,
		UserAgent:  "mkt/" + Version,
	})

	a.session = session.New(store, a.client, log)
	if err := a.session.Load(); err != nil {
		store.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"dir":     dir,
		"store":   cfg.Store,
		"backend": a.backend.Get(),
		"source":  a.backend.Source(),
	}).Debug("state loaded")
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// ensureBackend asks for a backend URL the first time mkt talks to the
// network. Nothing is asked when a URL is already saved, prompting is
// disabled or stdin is not a terminal. An empty answer or end of input
// dismisses the prompt: nothing is saved and the fallback stays in effect.
func (a *app) ensureBackend() error {
	if a.backend.Persisted() || flagNoPrompt || !a.cfg.PromptForBackend || !interactive(a.prompt) {
		return nil
	}
	fmt.Fprintf(stderr, "No backend URL saved; press Enter to use %s\n", a.backend.Fallback())
	url, err := a.prompt.Line("Backend URL", "")
	if errors.Is(err, io.EOF) || (err == nil && url == "") {
		return nil
	}
	if err != nil {
		return err
	}
	return a.backend.Set(url)
}

// requireSession is ensureBackend plus a signed-in check.
func (a *app) requireSession() error {
	if err := a.ensureBackend(); err != nil {
		return err
	}
	if !a.session.IsAuthenticated() {
		return &cli.NotSignedInError{}
	}
	return nil
}

// storePath returns the file backing the store, for watching.
func (a *app) storePath() (string, error) {
	p, ok := a.store.(interface{ Path() string })
	if !ok {
		return "", fmt.Errorf("store %q has no file to watch", a.cfg.Store)
	}
	return p.Path(), nil
}

// commandContext returns the command's context, or Background when a test
// calls a run function directly.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
