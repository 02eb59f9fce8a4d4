package workspace

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

// requireGit skips the test if git is not available
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

func setupGitRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)
	tmpDir := filepath.Join(t.TempDir(), "app")

	cmd := exec.Command("git", "init", tmpDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to init git repo: %s: %v", output, err)
	}

	exec.Command("git", "-C", tmpDir, "config", "user.email", "test@test.com").Run()
	exec.Command("git", "-C", tmpDir, "config", "user.name", "Test User").Run()

	testFile := filepath.Join(tmpDir, "README.md")
	if err := os.WriteFile(testFile, []byte("# Test\n"), 0644); err != nil {
		t.Fatal(err)
	}
	exec.Command("git", "-C", tmpDir, "add", ".").Run()
	cmd = exec.Command("git", "-C", tmpDir, "commit", "-m", "Initial commit")
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create initial commit: %s: %v", output, err)
	}

	return tmpDir
}

func TestBackend_Interface(t *testing.T) {
	var _ Backend = &GitBackend{}
	var _ Backend = &MockBackend{}
}

func TestParseGitVersion(t *testing.T) {
	tests := []struct {
		out       string
		major     int
		minor     int
		ok        bool
		supported bool
	}{
		{"git version 2.48.0\n", 2, 48, true, true},
		{"git version 2.49.1", 2, 49, true, true},
		{"git version 2.39.3 (Apple Git-146)", 2, 39, true, false},
		{"git version 3.0.0", 3, 0, true, true},
		{"hub version 1", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			major, minor, ok := parseGitVersion(tt.out)
			if ok != tt.ok || major != tt.major || minor != tt.minor {
				t.Errorf("parseGitVersion(%q) = %d, %d, %v; want %d, %d, %v",
					tt.out, major, minor, ok, tt.major, tt.minor, tt.ok)
			}

			mockExec := system.NewMockExecutor()
			mockExec.AddResponse("git version", []byte(tt.out), nil)
			b := Git(mockExec, system.NewMockFS())
			if got := b.SupportsRelativePaths(context.Background()); got != tt.supported {
				t.Errorf("SupportsRelativePaths() = %v, want %v", got, tt.supported)
			}
		})
	}
}

func TestGitBackend_AddWorktreeArgs(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"modern git", "git version 2.48.1", "git -C /src/app worktree add --relative-paths /src/app.worktrees/9000/x x"},
		{"old git", "git version 2.43.0", "git -C /src/app worktree add /src/app.worktrees/9000/x x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockExec := system.NewMockExecutor()
			mockExec.AddResponse("git version", []byte(tt.version), nil)
			b := Git(mockExec, system.NewMockFS())

			if err := b.AddWorktree(context.Background(), "/src/app", "/src/app.worktrees/9000/x", "x"); err != nil {
				t.Fatalf("AddWorktree: %v", err)
			}
			last, _ := mockExec.LastCommand()
			if got := last.Line(); got != tt.want {
				t.Errorf("command = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGitBackend_CreateBranch_Exists(t *testing.T) {
	mockExec := system.NewMockExecutor()
	b := Git(mockExec, system.NewMockFS())

	err := b.CreateBranch(context.Background(), "/src/app", "main")
	if !errors.Is(err, ErrBranchExists) {
		t.Errorf("CreateBranch error = %v, want ErrBranchExists", err)
	}
}

func TestGitBackend_RemoveWorktree_PrunesMissing(t *testing.T) {
	mockExec := system.NewMockExecutor()
	mockExec.AddResponse("git -C /src/app worktree remove", nil, errors.New("not a working tree"))
	b := Git(mockExec, system.NewMockFS())

	if err := b.RemoveWorktree(context.Background(), "/src/app", "/gone", true); err != nil {
		t.Fatalf("RemoveWorktree: %v", err)
	}
	lines := mockExec.Lines()
	if lines[len(lines)-1] != "git -C /src/app worktree prune" {
		t.Errorf("expected prune, got %v", lines)
	}
}

func TestGitBackend_RemoveWorktree_FailsWhenPresent(t *testing.T) {
	mockExec := system.NewMockExecutor()
	mockExec.AddResponse("git -C /src/app worktree remove", nil, errors.New("locked"))
	fs := system.NewMockFS()
	fs.AddDir("/src/app.worktrees/9000/x")
	b := Git(mockExec, fs)

	err := b.RemoveWorktree(context.Background(), "/src/app", "/src/app.worktrees/9000/x", true)
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Errorf("RemoveWorktree error = %v, want locked", err)
	}
}

func TestGitBackend_RealRepo(t *testing.T) {
	repo := setupGitRepo(t)
	ctx := context.Background()
	b := Git(system.NewExecutor(nil, os.Stdout, os.Stderr), system.DefaultFS())

	if err := b.CreateBranch(ctx, repo, "feature-auth"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := b.CreateBranch(ctx, repo, "feature-auth"); !errors.Is(err, ErrBranchExists) {
		t.Fatalf("second CreateBranch = %v, want ErrBranchExists", err)
	}

	wt := filepath.Join(filepath.Dir(repo), "app.worktrees", "9000", "feature-auth")
	if err := os.MkdirAll(filepath.Dir(wt), 0755); err != nil {
		t.Fatal(err)
	}
	if err := b.AddWorktree(ctx, repo, wt, "feature-auth"); err != nil {
		t.Fatalf("AddWorktree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(wt, "README.md")); err != nil {
		t.Errorf("worktree not checked out: %v", err)
	}

	// Dirty the worktree; force removal must still succeed.
	if err := os.WriteFile(filepath.Join(wt, "scratch.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := b.RemoveWorktree(ctx, repo, wt, true); err != nil {
		t.Fatalf("RemoveWorktree: %v", err)
	}
	if _, err := os.Stat(wt); !os.IsNotExist(err) {
		t.Errorf("worktree directory still present: %v", err)
	}
}

func TestMockBackend(t *testing.T) {
	fs := system.NewMockFS()
	m := NewMockBackend(fs)
	ctx := context.Background()

	if err := m.AddWorktree(ctx, "/r", "/r.worktrees/9000/x", "x"); err == nil {
		t.Error("AddWorktree without branch should fail")
	}
	if err := m.CreateBranch(ctx, "/r", "x"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddWorktree(ctx, "/r", "/r.worktrees/9000/x", "x"); err != nil {
		t.Fatal(err)
	}
	if !fs.IsDir("/r.worktrees/9000/x") {
		t.Error("worktree dir not created")
	}
	if err := m.RemoveWorktree(ctx, "/r", "/r.worktrees/9000/x", true); err != nil {
		t.Fatal(err)
	}
	if fs.Exists("/r.worktrees/9000/x") {
		t.Error("worktree dir not removed")
	}
	if !fs.Exists("/r.worktrees/9000") {
		t.Error("port dir should be left for the caller")
	}
}
