package workspace

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

// First git release with "worktree add --relative-paths".
const (
	relativePathsMajor = 2
	relativePathsMinor = 48
)

var gitVersionRe = regexp.MustCompile(`git version (\d+)\.(\d+)`)

// GitBackend implements Backend for git repositories using worktrees
type GitBackend struct {
	exec system.CommandExecutor
	fs   system.FileSystem

	relativeOnce sync.Once
	relative     bool
}

// Git returns a new Git worktree backend
func Git(exec system.CommandExecutor, fs system.FileSystem) *GitBackend {
	return &GitBackend{exec: exec, fs: fs}
}

func (b *GitBackend) Name() string {
	return "git-worktree"
}

func (b *GitBackend) git(ctx context.Context, repo string, args ...string) ([]byte, error) {
	return b.exec.Output(ctx, "git", append([]string{"-C", repo}, args...)...)
}

func (b *GitBackend) CreateBranch(ctx context.Context, repo, branch string) error {
	if b.branchExists(ctx, repo, branch) {
		return ErrBranchExists
	}
	if _, err := b.git(ctx, repo, "branch", branch); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}

func (b *GitBackend) AddWorktree(ctx context.Context, repo, path, branch string) error {
	args := []string{"worktree", "add"}
	if b.SupportsRelativePaths(ctx) {
		args = append(args, "--relative-paths")
	}
	args = append(args, path, branch)

	if _, err := b.git(ctx, repo, args...); err != nil {
		return fmt.Errorf("failed to create git worktree: %w", err)
	}
	return nil
}

func (b *GitBackend) RemoveWorktree(ctx context.Context, repo, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	_, err := b.git(ctx, repo, args...)
	if err == nil {
		return nil
	}

	// Deleted by hand: git still has the registration, prune drops it.
	if !b.fs.Exists(path) {
		logging.Debug("worktree already gone, pruning", "path", path)
		if _, pruneErr := b.git(ctx, repo, "worktree", "prune"); pruneErr != nil {
			return fmt.Errorf("failed to prune worktrees: %w", pruneErr)
		}
		return nil
	}

	return fmt.Errorf("failed to remove worktree: %w", err)
}

func (b *GitBackend) SupportsRelativePaths(ctx context.Context) bool {
	b.relativeOnce.Do(func() {
		out, err := b.exec.Output(ctx, "git", "version")
		if err != nil {
			logging.Debug("git version unavailable", "error", err)
			return
		}
		major, minor, ok := parseGitVersion(string(out))
		if !ok {
			logging.Debug("unrecognized git version", "output", strings.TrimSpace(string(out)))
			return
		}
		b.relative = major > relativePathsMajor ||
			(major == relativePathsMajor && minor >= relativePathsMinor)
		logging.Debug("git version", "major", major, "minor", minor, "relativePaths", b.relative)
	})
	return b.relative
}

func (b *GitBackend) branchExists(ctx context.Context, repo, branch string) bool {
	_, err := b.git(ctx, repo, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// parseGitVersion extracts major.minor from `git version` output such as
// "git version 2.39.3 (Apple Git-146)".
func parseGitVersion(out string) (major, minor int, ok bool) {
	m := gitVersionRe.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, false
	}
	major, _ = strconv.Atoi(m[1])
	minor, _ = strconv.Atoi(m[2])
	return major, minor, true
}
