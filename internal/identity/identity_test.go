package identity

import (
	"testing"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

func TestFor(t *testing.T) {
	repo := NewRepo("/src/app")
	id := For(repo, "fix-bug-123", 9000)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"worktrees dir", repo.WorktreesDir(), "/src/app.worktrees"},
		{"port dir", id.PortDir, "/src/app.worktrees/9000"},
		{"worktree path", id.WorktreePath, "/src/app.worktrees/9000/fix-bug-123"},
		{"container", id.ContainerName, "app-fix-bug-123"},
		{"image", id.ImageName, "app-dev"},
		{"git dir", repo.GitDir(), "/src/app/.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNewRepo_Cleans(t *testing.T) {
	repo := NewRepo("/src/app/")
	if repo.Name != "app" || repo.Root != "/src/app" {
		t.Errorf("NewRepo() = %+v", repo)
	}
}

func TestDiscover(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddDir("/src/app/.git")
	fsys.AddDir("/src/app/pkg/deep")

	tests := []struct {
		start string
		want  string
	}{
		{"/src/app", "/src/app"},
		{"/src/app/pkg/deep", "/src/app"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			repo, err := Discover(fsys, tt.start)
			if err != nil {
				t.Fatalf("Discover(%q) failed: %v", tt.start, err)
			}
			if repo.Root != tt.want {
				t.Errorf("Discover(%q) = %q, want %q", tt.start, repo.Root, tt.want)
			}
		})
	}
}

func TestDiscover_NotInRepository(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddDir("/tmp/elsewhere")

	_, err := Discover(fsys, "/tmp/elsewhere")
	if err == nil {
		t.Fatal("Discover should fail outside a repository")
	}
	if !ferrors.IsKind(err, ferrors.KindEnvironment) {
		t.Errorf("error kind = %v, want environment", ferrors.KindOf(err))
	}
}

func TestDiscover_LinkedWorktree(t *testing.T) {
	tests := []struct {
		name   string
		gitdir string
	}{
		{"absolute", "gitdir: /src/app/.git/worktrees/feature\n"},
		{"relative", "gitdir: ../../../app/.git/worktrees/feature\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := system.NewMockFS()
			fsys.AddDir("/src/app/.git/worktrees/feature")
			fsys.AddFile("/src/app.worktrees/9000/feature/.git", []byte(tt.gitdir), 0644)

			repo, err := Discover(fsys, "/src/app.worktrees/9000/feature")
			if err != nil {
				t.Fatalf("Discover failed: %v", err)
			}
			if repo.Root != "/src/app" {
				t.Errorf("Root = %q, want /src/app", repo.Root)
			}
		})
	}
}

func TestDiscover_GitFileWithoutWorktrees(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddFile("/src/sub/.git", []byte("gitdir: /src/app/.git/modules/sub\n"), 0644)

	repo, err := Discover(fsys, "/src/sub")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if repo.Root != "/src/sub" {
		t.Errorf("Root = %q, want /src/sub", repo.Root)
	}
}
