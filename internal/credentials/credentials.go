// Package credentials gathers host credentials handed to a new environment.
//
// Each Contributor adds to a Bundle: build args baked into the image,
// build secrets exposed to the Dockerfile through --secret, and variables
// passed to the running container. Credential values never appear on a
// command line. Build args, secrets and run variables travel by name with
// their values in the runtime process environment.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/runtime"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

// Build argument and secret names understood by the generated Dockerfile.
const (
	GitConfigArg  = "GIT_CONFIG"
	TokenSecretID = "gh_token"
)

// Bundle is the collected credential material.
type Bundle struct {
	// EnvBuildArgs are build args whose values come from BuildEnv.
	EnvBuildArgs []string
	Secrets      []runtime.BuildSecret

	// BuildEnv holds the values referenced by EnvBuildArgs and Secrets.
	BuildEnv map[string]string

	// RunEnv is passed to the container at creation.
	RunEnv map[string]string
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{
		BuildEnv: make(map[string]string),
		RunEnv:   make(map[string]string),
	}
}

// Source produces the credential bundle for a provisioning.
type Source interface {
	Collect(ctx context.Context) (*Bundle, error)
}

// Contributor adds one kind of credential to a bundle. A contributor
// whose host source is unavailable leaves the bundle untouched.
type Contributor interface {
	Contribute(ctx context.Context, b *Bundle) error
}

// Collector runs contributors in order.
type Collector struct {
	Contributors []Contributor
}

// Collect runs every contributor against a fresh bundle.
func (c *Collector) Collect(ctx context.Context) (*Bundle, error) {
	b := NewBundle()
	for _, contrib := range c.Contributors {
		if err := contrib.Contribute(ctx, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// FromConfig returns the host collector described by cfg.
func FromConfig(cfg config.CredentialsConfig, fs system.FileSystem, exec system.CommandExecutor) *Collector {
	return &Collector{Contributors: []Contributor{
		&GitConfigContributor{Path: config.ExpandHome(cfg.GitConfigFile), FS: fs},
		&TokenContributor{Env: cfg.TokenEnv, Command: cfg.TokenCommand, Exec: exec, Getenv: os.Getenv},
		&JSONContributor{Path: config.ExpandHome(cfg.JSONFile), Env: cfg.JSONEnv, FS: fs},
	}}
}

// GitConfigContributor bakes the host git config into the image.
type GitConfigContributor struct {
	Path string
	FS   system.FileSystem
}

func (g *GitConfigContributor) Contribute(ctx context.Context, b *Bundle) error {
	if g.Path == "" {
		return nil
	}
	data, err := g.FS.ReadFile(g.Path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("no git config", "path", g.Path)
		return nil
	}
	if err != nil {
		return err
	}
	b.EnvBuildArgs = append(b.EnvBuildArgs, GitConfigArg)
	b.BuildEnv[GitConfigArg] = string(data)
	return nil
}

// TokenContributor exposes an auth token as a build secret and as a
// container variable. The token comes from Env, or from Command when Env
// is unset on the host.
type TokenContributor struct {
	Env     string
	Command string
	Exec    system.CommandExecutor
	Getenv  func(string) string
}

func (t *TokenContributor) Contribute(ctx context.Context, b *Bundle) error {
	if t.Env == "" {
		return nil
	}
	token := ""
	if t.Getenv != nil {
		token = strings.TrimSpace(t.Getenv(t.Env))
	}
	if token == "" && t.Command != "" {
		token = t.run(ctx)
	}
	if token == "" {
		logging.Debug("no auth token", "env", t.Env)
		return nil
	}

	b.Secrets = append(b.Secrets, runtime.BuildSecret{ID: TokenSecretID, Env: t.Env})
	b.BuildEnv[t.Env] = token
	b.RunEnv[t.Env] = token
	return nil
}

// run executes the token command; failures mean "no token".
func (t *TokenContributor) run(ctx context.Context) string {
	argv, err := shellquote.Split(t.Command)
	if err != nil || len(argv) == 0 {
		logging.Warn("invalid token command", "command", t.Command, "error", err)
		return ""
	}
	out, err := t.Exec.Output(ctx, argv[0], argv[1:]...)
	if err != nil {
		logging.Debug("token command failed", "command", t.Command, "error", err)
		return ""
	}
	return strings.TrimSpace(string(out))
}

// JSONContributor passes a JSON config file to the container as a variable.
type JSONContributor struct {
	Path string
	Env  string
	FS   system.FileSystem
}

func (j *JSONContributor) Contribute(ctx context.Context, b *Bundle) error {
	if j.Path == "" || j.Env == "" {
		return nil
	}
	data, err := j.FS.ReadFile(j.Path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("no json config", "path", j.Path)
		return nil
	}
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		logging.UserWarning("Ignoring %s: not valid JSON", j.Path)
		return nil
	}
	b.RunEnv[j.Env] = string(data)
	return nil
}

var (
	_ Source      = (*Collector)(nil)
	_ Contributor = (*GitConfigContributor)(nil)
	_ Contributor = (*TokenContributor)(nil)
	_ Contributor = (*JSONContributor)(nil)
)
