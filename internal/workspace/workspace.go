package workspace

import (
	"context"
	"errors"
)

// ErrBranchExists is returned by CreateBranch when the branch is already
// present. Callers treat it as informational.
var ErrBranchExists = errors.New("branch already exists")

// Backend creates and removes worktrees for a repository.
type Backend interface {
	// Name returns the backend name (e.g., "git-worktree")
	Name() string

	// CreateBranch creates branch at the current HEAD of repo.
	CreateBranch(ctx context.Context, repo, branch string) error

	// AddWorktree checks out branch at path.
	AddWorktree(ctx context.Context, repo, path, branch string) error

	// RemoveWorktree unregisters and deletes the worktree at path.
	// With force, uncommitted changes are discarded.
	RemoveWorktree(ctx context.Context, repo, path string, force bool) error

	// SupportsRelativePaths reports whether worktrees can be linked with
	// relative paths, which keeps them valid when mounted elsewhere.
	SupportsRelativePaths(ctx context.Context) bool
}
