package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/credentials"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/identity"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/runtime"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/workspace"
)

// RepoName is the directory name of the fixture repository.
const RepoName = "app"

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Repo     identity.Repo
	StateDir string
	Config   *config.Config
	Runtime  *runtime.MockRuntime
	VCS      *workspace.MockBackend
}

// NewTestEnv creates a repository with a Dockerfile under a temporary
// directory, backed by a mock runtime and a mock worktree backend.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Repo:     identity.NewRepo(filepath.Join(tmpDir, RepoName)),
		StateDir: filepath.Join(tmpDir, "state"),
		Config:   config.Default(),
		Runtime:  runtime.NewMockRuntime(),
		VCS:      workspace.NewMockBackend(system.DefaultFS()),
	}
	env.Config.UI.Color = false

	env.mkdir(env.Repo.GitDir())
	env.WriteFile(env.Config.Container.Dockerfile, Dockerfile())
	return env
}

func (e *TestEnv) mkdir(dir string) {
	e.T.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.T.Fatalf("Failed to create directory %s: %v", dir, err)
	}
}

// WriteFile writes a file relative to the repository root.
func (e *TestEnv) WriteFile(rel string, data []byte) string {
	e.T.Helper()
	path := filepath.Join(e.Repo.Root, rel)
	e.mkdir(filepath.Dir(path))
	if err := os.WriteFile(path, data, 0644); err != nil {
		e.T.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// RemoveDockerfile deletes the environment Dockerfile.
func (e *TestEnv) RemoveDockerfile() {
	e.T.Helper()
	if err := os.Remove(e.Config.DockerfilePath(e.Repo.Root)); err != nil {
		e.T.Fatalf("Failed to remove Dockerfile: %v", err)
	}
}

// WorktreesDir is the sibling directory holding the port slots.
func (e *TestEnv) WorktreesDir() string {
	return e.Repo.WorktreesDir()
}

// WorktreePath is the branch slot of branch on port.
func (e *TestEnv) WorktreePath(port int, branch string) string {
	return filepath.Join(e.WorktreesDir(), strconv.Itoa(port), branch)
}

// Seed creates a branch slot as if the environment had been created
// earlier, and returns its path.
func (e *TestEnv) Seed(port int, branch string) string {
	e.T.Helper()
	path := e.WorktreePath(port, branch)
	e.mkdir(path)
	e.VCS.Branches[branch] = true
	return path
}

// AddContainer registers the container of branch with the mock runtime.
func (e *TestEnv) AddContainer(branch string, status runtime.ContainerStatus) string {
	name := e.Repo.ContainerName(branch)
	e.Runtime.AddContainer(name, status)
	return name
}

// Options wires the environment into an app. Prompts are left to the
// default prompter reading the app's stdin.
func (e *TestEnv) Options() []app.Option {
	return []app.Option{
		app.WithWorkDir(e.Repo.Root),
		app.WithConfig(e.Config),
		app.WithStateDir(e.StateDir),
		app.WithRuntime(e.Runtime),
		app.WithVCS(e.VCS),
		app.WithCredentials(&credentials.Collector{}),
		app.WithExecutor(system.NewMockExecutor()),
	}
}
