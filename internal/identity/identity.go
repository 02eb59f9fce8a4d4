// Package identity derives every name an environment is known by.
//
// A repository at /src/app owns the worktrees directory /src/app.worktrees.
// The branch "fix-bug-123" on port 9000 lives at
// /src/app.worktrees/9000/fix-bug-123, runs in the container
// "app-fix-bug-123" and uses the image "app-dev".
package identity

import (
	"path/filepath"
	"strconv"
	"strings"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

const (
	worktreesSuffix = ".worktrees"
	imageSuffix     = "-dev"
)

// Repo identifies a repository by its root.
type Repo struct {
	Root string
	Name string
}

// NewRepo builds a Repo from an absolute root path.
func NewRepo(root string) Repo {
	root = filepath.Clean(root)
	return Repo{Root: root, Name: filepath.Base(root)}
}

// WorktreesDir is the sibling directory holding every port slot of the repo.
func (r Repo) WorktreesDir() string {
	return filepath.Join(filepath.Dir(r.Root), r.Name+worktreesSuffix)
}

// GitDir is the repository's .git directory.
func (r Repo) GitDir() string {
	return filepath.Join(r.Root, ".git")
}

// ImageName is shared by all environments of the repo.
func (r Repo) ImageName() string {
	return r.Name + imageSuffix
}

// ContainerName returns the container for a branch id.
func (r Repo) ContainerName(branch string) string {
	return r.Name + "-" + branch
}

// Identity is everything derived from (repo, branch, port).
type Identity struct {
	Repo          Repo
	Branch        string
	Port          int
	PortDir       string
	WorktreePath  string
	ContainerName string
	ImageName     string
}

// For computes the identity of a branch slot. It performs no I/O.
func For(repo Repo, branch string, port int) Identity {
	portDir := filepath.Join(repo.WorktreesDir(), strconv.Itoa(port))
	return Identity{
		Repo:          repo,
		Branch:        branch,
		Port:          port,
		PortDir:       portDir,
		WorktreePath:  filepath.Join(portDir, branch),
		ContainerName: repo.ContainerName(branch),
		ImageName:     repo.ImageName(),
	}
}

// Discover walks upward from start to the first directory holding a .git
// marker. When the marker is a file, start is inside a linked worktree and
// the main repository it belongs to is returned instead.
func Discover(fsys system.FileSystem, start string) (Repo, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Repo{}, ferrors.Wrap(ferrors.KindEnvironment, "cannot resolve working directory", err)
	}

	for {
		marker := filepath.Join(dir, ".git")
		info, err := fsys.Stat(marker)
		if err == nil {
			if info.IsDir() {
				return NewRepo(dir), nil
			}
			if root, ok := mainRootFromGitFile(fsys, marker); ok {
				logging.Debug("resolved linked worktree", "worktree", dir, "repo", root)
				return NewRepo(root), nil
			}
			return NewRepo(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Repo{}, ferrors.NotInRepository(start)
		}
		dir = parent
	}
}

// mainRootFromGitFile reads a "gitdir: <path>" file and maps
// <root>/.git/worktrees/<name> back to <root>.
func mainRootFromGitFile(fsys system.FileSystem, marker string) (string, bool) {
	data, err := fsys.ReadFile(marker)
	if err != nil {
		return "", false
	}

	line := strings.TrimSpace(string(data))
	gitdir, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", false
	}
	gitdir = strings.TrimSpace(gitdir)
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(filepath.Dir(marker), gitdir)
	}
	gitdir = filepath.Clean(gitdir)

	sep := string(filepath.Separator)
	idx := strings.LastIndex(gitdir, sep+".git"+sep+"worktrees"+sep)
	if idx < 0 {
		return "", false
	}
	return gitdir[:idx], true
}
