package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/identity"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/runtime"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/tui"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/workspace"
)

func TestNew_Defaults(t *testing.T) {
	a := New()

	if a.FS == nil {
		t.Error("FS should default to the OS file system")
	}
	if a.Exec == nil {
		t.Error("Exec should default to the OS executor")
	}
	if a.StateDir == "" {
		t.Error("StateDir should default to the XDG state dir")
	}
	if a.Runtime != nil {
		t.Error("Runtime should stay nil until a manager is built")
	}
}

func TestNew_WithOptions(t *testing.T) {
	fs := system.NewMockFS()
	exec := system.NewMockExecutor()
	rt := runtime.NewMockRuntime()
	cfg := config.Default()

	a := New(
		WithFS(fs),
		WithExecutor(exec),
		WithRuntime(rt),
		WithConfig(cfg),
		WithStateDir("/state"),
		WithWorkDir("/src/app"),
	)

	if a.FS != fs {
		t.Error("WithFS did not set file system")
	}
	if a.Exec != exec {
		t.Error("WithExecutor did not set executor")
	}
	if a.Runtime != rt {
		t.Error("WithRuntime did not set runtime")
	}
	if a.Config != cfg {
		t.Error("WithConfig did not set config")
	}
	if a.StateDir != "/state" || a.WorkDir != "/src/app" {
		t.Error("directories not set")
	}
}

func TestRepo_NotInRepository(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddDir("/tmp/nowhere")

	a := New(WithFS(fs), WithWorkDir("/tmp/nowhere"))
	_, err := a.Repo()
	if !ferrors.IsKind(err, ferrors.KindEnvironment) {
		t.Errorf("Repo() error = %v, want environment error", err)
	}
}

func TestManager_Wiring(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddDir("/src/app/.git")
	fs.AddDir("/src/app/pkg")

	var out bytes.Buffer
	a := New(
		WithIO(strings.NewReader(""), &out, &out),
		WithFS(fs),
		WithExecutor(system.NewMockExecutor()),
		WithConfig(config.Default()),
		WithStateDir("/state"),
		WithWorkDir("/src/app/pkg"),
	)

	mgr, err := a.Manager(true)
	if err != nil {
		t.Fatalf("Manager() error: %v", err)
	}
	if mgr.Repo.Root != "/src/app" {
		t.Errorf("Repo.Root = %q", mgr.Repo.Root)
	}
	if _, ok := mgr.VCS.(*workspace.GitBackend); !ok {
		t.Errorf("VCS = %T, want *workspace.GitBackend", mgr.VCS)
	}
	if _, ok := mgr.Prompter.(*tui.LinePrompter); !ok {
		t.Errorf("Prompter = %T, want *tui.LinePrompter", mgr.Prompter)
	}
	if !mgr.AssumeYes {
		t.Error("AssumeYes not propagated")
	}
	got := a.Journal(mgr.Repo).Path()
	if filepath.Dir(got) != "/state" || !strings.HasPrefix(filepath.Base(got), "app-") || !strings.HasSuffix(got, ".events.jsonl") {
		t.Errorf("journal path = %q", got)
	}
	other := a.Journal(identity.NewRepo("/elsewhere/app")).Path()
	if other == got {
		t.Errorf("repositories named app at different roots share journal %q", got)
	}
}

func TestManager_LazyRuntimeNotNeededForEmptyList(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddDir("/src/app/.git")
	exec := system.NewMockExecutor() // nothing on PATH

	a := New(WithFS(fs), WithExecutor(exec), WithConfig(config.Default()), WithWorkDir("/src/app"))
	mgr, err := a.Manager(false)
	if err != nil {
		t.Fatalf("Manager() error: %v", err)
	}

	rows, err := mgr.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("List() = %v, want empty", rows)
	}
}
