package integration

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/credentials"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/runtime"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/slug"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/testutil"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/workspace"
)

const (
	enableEnv  = "FORAGE_WT_INTEGRATION_TESTS"
	runtimeEnv = "FORAGE_WT_RUNTIME"
)

// scriptedPrompter confirms everything and answers the starting port.
type scriptedPrompter struct {
	port      string
	confirms  int
	portAsked int
}

func (p *scriptedPrompter) Confirm(ctx context.Context, title string, fields []lifecycle.Field) (bool, error) {
	p.confirms++
	return true, nil
}

func (p *scriptedPrompter) StartingPort(ctx context.Context) (string, error) {
	p.portAsked++
	return p.port, nil
}

// RequireGit skips the test when git is not installed.
func RequireGit(t *testing.T, exec system.CommandExecutor) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// InitGitRepo turns root into a git repository with one commit, so
// branches can be created from HEAD.
func InitGitRepo(t *testing.T, exec system.CommandExecutor, root string) {
	t.Helper()
	ctx := context.Background()
	steps := [][]string{
		{"init", "-q"},
		{"-c", "user.name=forage-wt", "-c", "user.email=forage-wt@example.com", "commit", "-q", "--allow-empty", "-m", "init"},
	}
	for _, args := range steps {
		if out, err := exec.Output(ctx, "git", append([]string{"-C", root}, args...)...); err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
	}
}

// TestHarness provides utilities for integration testing with real containers.
type TestHarness struct {
	t    *testing.T
	env  *testutil.TestEnv
	exec system.CommandExecutor
	rt   runtime.Runtime

	// Track created containers for cleanup
	containers []string
}

// NewHarness creates a new test harness.
// It will skip the test if FORAGE_WT_INTEGRATION_TESTS is not set.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	if os.Getenv(enableEnv) == "" {
		t.Skipf("integration tests disabled (set %s=1 to enable)", enableEnv)
	}

	exec := system.NewExecutor(os.Stdin, io.Discard, io.Discard)
	RequireGit(t, exec)

	preference := os.Getenv(runtimeEnv)
	if preference == "" {
		preference = config.RuntimeAuto
	}
	rt, err := runtime.New(exec, preference)
	if err != nil {
		t.Skipf("no container runtime available: %v", err)
	}

	env := testutil.NewTestEnv(t)
	InitGitRepo(t, exec, env.Repo.Root)

	// No terminal under go test; the shell only has to start.
	env.Config.Container.Shell = "true"

	h := &TestHarness{t: t, env: env, exec: exec, rt: rt}
	t.Cleanup(h.Cleanup)
	return h
}

// Env returns the repository fixture.
func (h *TestHarness) Env() *testutil.TestEnv {
	return h.env
}

// Runtime returns the container runtime.
func (h *TestHarness) Runtime() runtime.Runtime {
	return h.rt
}

// Branch returns a branch id unlikely to clash with containers of earlier
// runs and tracks its container for cleanup.
func (h *TestHarness) Branch(prefix string) string {
	branch := slug.Normalize(fmt.Sprintf("it-%s-%s", prefix, strconv.FormatInt(time.Now().UnixNano()%1_000_000, 36)))
	h.containers = append(h.containers, h.env.Repo.ContainerName(branch))
	return branch
}

// Manager returns a lifecycle manager over the harness repository that
// confirms every prompt and starts numbering at port.
func (h *TestHarness) Manager(port int) *lifecycle.Manager {
	return lifecycle.New(lifecycle.Deps{
		Repo:        h.env.Repo,
		Config:      h.env.Config,
		FS:          system.DefaultFS(),
		VCS:         workspace.Git(h.exec, system.DefaultFS()),
		Runtime:     h.rt,
		Credentials: &credentials.Collector{},
		Prompter:    &scriptedPrompter{port: strconv.Itoa(port)},
	})
}

// Status reports the state of the container of branch.
func (h *TestHarness) Status(branch string) runtime.ContainerStatus {
	h.t.Helper()
	s, err := h.rt.Status(context.Background(), h.env.Repo.ContainerName(branch))
	if err != nil {
		h.t.Fatalf("Status(%s) error: %v", branch, err)
	}
	return s
}

// Cleanup removes all tracked containers and the shared image.
func (h *TestHarness) Cleanup() {
	ctx := context.Background()

	for _, name := range h.containers {
		if s, err := h.rt.Status(ctx, name); err == nil && s == runtime.StatusRunning {
			if err := h.rt.Stop(ctx, name); err != nil {
				h.t.Logf("Warning: failed to stop %s: %v", name, err)
			}
		}
		if err := h.rt.Remove(ctx, name); err != nil {
			h.t.Logf("Warning: failed to remove %s: %v", name, err)
		}
	}

	if _, err := h.exec.Output(ctx, h.rt.Name(), "rmi", "-f", h.env.Repo.ImageName()); err != nil {
		h.t.Logf("Warning: failed to remove image %s: %v", h.env.Repo.ImageName(), err)
	}
}
