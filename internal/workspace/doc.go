// Package workspace provides the version-control side of an environment:
// branches and the git worktrees checked out on them.
//
// # Backend Interface
//
//	type Backend interface {
//	    Name() string
//	    CreateBranch(ctx, repo, branch string) error          // ErrBranchExists if present
//	    AddWorktree(ctx, repo, path, branch string) error
//	    RemoveWorktree(ctx, repo, path string, force bool) error
//	    SupportsRelativePaths(ctx) bool
//	}
//
// # Git Backend
//
// GitBackend shells out to git through a system.CommandExecutor:
//
//	backend := workspace.Git(system.DefaultExecutor(), system.DefaultFS())
//	backend.CreateBranch(ctx, "/src/app", "fix-bug-123")
//	backend.AddWorktree(ctx, "/src/app", "/src/app.worktrees/9000/fix-bug-123", "fix-bug-123")
//	// Runs: git -C /src/app worktree add --relative-paths /src/app.worktrees/9000/fix-bug-123 fix-bug-123
//
// --relative-paths is passed when git is 2.48 or newer, so the worktree's
// .git file stays valid when the repository is mounted at another path
// inside a container.
//
// # Removal
//
// RemoveWorktree with force discards uncommitted changes. A worktree whose
// directory was already deleted is pruned instead. Branches are kept.
package workspace
