// Package app provides the application context for forage-wt.
// It allows dependency injection for testing.
package app

import (
	"io"
	"os"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/audit"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/credentials"
	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/identity"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/runtime"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/tui"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/workspace"
)

// App holds the application dependencies
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	FS   system.FileSystem
	Exec system.CommandExecutor

	// Runtime is the container runtime. Nil means detect from config on first use.
	Runtime runtime.Runtime

	// VCS creates and removes worktrees. Nil means git.
	VCS workspace.Backend

	// Prompter asks the operator. Nil means chosen by terminal detection.
	Prompter lifecycle.Prompter

	// Credentials sources host credentials. Nil means the configured host sources.
	Credentials credentials.Source

	// Config overrides the loaded configuration.
	Config *config.Config

	// StateDir holds the event journals.
	StateDir string

	// WorkDir is where repository discovery starts.
	WorkDir string
}

// Option is a function that configures the App
type Option func(*App)

// WithIO sets the standard streams
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.Stdin, a.Stdout, a.Stderr = stdin, stdout, stderr
	}
}

// WithFS sets a custom file system
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Exec = exec
	}
}

// WithRuntime sets a custom runtime
func WithRuntime(r runtime.Runtime) Option {
	return func(a *App) {
		a.Runtime = r
	}
}

// WithVCS sets a custom worktree backend
func WithVCS(vcs workspace.Backend) Option {
	return func(a *App) {
		a.VCS = vcs
	}
}

// WithPrompter sets a custom prompter
func WithPrompter(p lifecycle.Prompter) Option {
	return func(a *App) {
		a.Prompter = p
	}
}

// WithCredentials sets a custom credential source
func WithCredentials(src credentials.Source) Option {
	return func(a *App) {
		a.Credentials = src
	}
}

// WithConfig sets a fixed configuration instead of loading files
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithStateDir sets the journal directory
func WithStateDir(dir string) Option {
	return func(a *App) {
		a.StateDir = dir
	}
}

// WithWorkDir sets where repository discovery starts
func WithWorkDir(dir string) Option {
	return func(a *App) {
		a.WorkDir = dir
	}
}

// New creates a new App with the given options. Anything not provided
// falls back to the real OS implementation.
func New(opts ...Option) *App {
	a := &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.FS == nil {
		a.FS = system.DefaultFS()
	}
	if a.Exec == nil {
		a.Exec = system.NewExecutor(a.Stdin, a.Stdout, a.Stderr)
	}
	if a.StateDir == "" {
		a.StateDir = config.StateDir()
	}
	return a
}

// Repo discovers the repository containing WorkDir.
func (a *App) Repo() (identity.Repo, error) {
	dir := a.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return identity.Repo{}, ferrors.Wrap(ferrors.KindEnvironment, "cannot determine working directory", err)
		}
		dir = wd
	}
	return identity.Discover(a.FS, dir)
}

// LoadConfig returns the configuration for repo, reading config files
// unless one was injected.
func (a *App) LoadConfig(repo identity.Repo) (*config.Config, error) {
	if a.Config != nil {
		return a.Config, nil
	}
	cfg, err := config.LoadForRepo(repo.Root)
	if err != nil {
		return nil, ferrors.ConfigError("failed to load configuration", err)
	}
	a.Config = cfg
	logging.Debug("loaded config", "sources", cfg.Sources)
	return cfg, nil
}

// Journal returns the event journal of repo.
func (a *App) Journal(repo identity.Repo) *audit.Logger {
	return audit.NewLogger(a.StateDir, repo.Name, repo.Root)
}

// Manager wires a lifecycle manager for the current repository.
func (a *App) Manager(assumeYes bool) (*lifecycle.Manager, error) {
	repo, err := a.Repo()
	if err != nil {
		return nil, err
	}
	cfg, err := a.LoadConfig(repo)
	if err != nil {
		return nil, err
	}
	logging.SetColor(cfg.UI.Color)

	rt := a.Runtime
	if rt == nil {
		rt = runtime.Lazy(func() (runtime.Runtime, error) {
			return runtime.New(a.Exec, cfg.Container.Runtime)
		})
	}
	vcs := a.VCS
	if vcs == nil {
		vcs = workspace.Git(a.Exec, a.FS)
	}
	prompter := a.Prompter
	if prompter == nil {
		prompter = tui.NewPrompter(a.Stdin, a.Stdout)
	}
	creds := a.Credentials
	if creds == nil {
		creds = credentials.FromConfig(cfg.Credentials, a.FS, a.Exec)
	}

	return lifecycle.New(lifecycle.Deps{
		Repo:        repo,
		Config:      cfg,
		FS:          a.FS,
		VCS:         vcs,
		Runtime:     rt,
		Credentials: creds,
		Prompter:    prompter,
		Journal:     a.Journal(repo),
		AssumeYes:   assumeYes,
	}), nil
}
