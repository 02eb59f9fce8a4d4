// Package index keeps the registry of environments of one repository.
//
// The registry is the worktrees directory itself:
//
//	{parent}/{repo}.worktrees/
//	    9000/
//	        fix-bug-123/   <- git worktree on branch fix-bug-123
//	    9001/
//	        alpha/
//
// Numeric subdirectories are port slots, their children are branch slots.
// There is no separate metadata file; the tree is the state.
//
// Nothing coordinates concurrent invocations. Two processes creating
// environments at the same moment can both read the same highest port and
// race to claim max+1. A file lock on the worktrees directory can be added
// behind Index without changing callers.
package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strconv"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/identity"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/port"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/workspace"
)

// Slot is a branch slot and the port slot containing it.
type Slot struct {
	Port   int
	Branch string
	Path   string
}

// PortDir is the port slot directory holding the branch slot.
func (s Slot) PortDir() string {
	return filepath.Dir(s.Path)
}

// Index is the port -> branch -> path registry of a repository.
type Index interface {
	// Find returns the slot of branch, if any.
	Find(branch string) (Slot, bool, error)

	// Slots enumerates every slot lazily, in port then branch order.
	Slots() iter.Seq2[Slot, error]

	// List returns every slot.
	List() ([]Slot, error)

	// AllocatePort returns max+1 over existing port slots, or asks for a
	// starting port when there are none.
	AllocatePort(ask func() (string, error)) (int, error)

	// Reserve creates the port slot directory and returns its path.
	Reserve(p int) (string, error)

	// Remove deletes the worktree of slot and reclaims its port slot
	// when nothing else lives there.
	Remove(ctx context.Context, slot Slot) error
}

// DirIndex implements Index on the worktrees directory of a repository.
type DirIndex struct {
	repo identity.Repo
	fs   system.FileSystem
	vcs  workspace.Backend
}

// New returns the index of repo.
func New(repo identity.Repo, fs system.FileSystem, vcs workspace.Backend) *DirIndex {
	return &DirIndex{repo: repo, fs: fs, vcs: vcs}
}

// Dir is the worktrees directory.
func (x *DirIndex) Dir() string {
	return x.repo.WorktreesDir()
}

// readDir lists dir, treating a missing directory as empty.
func (x *DirIndex) readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := x.fs.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.WorkspaceError("scan", err)
	}
	return entries, nil
}

// portNames returns the names of the entries of the worktrees directory
// that are directories. Names that are not port slots are left for
// port.Next to skip.
func (x *DirIndex) portNames() ([]string, error) {
	entries, err := x.readDir(x.Dir())
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (x *DirIndex) Slots() iter.Seq2[Slot, error] {
	return func(yield func(Slot, error) bool) {
		names, err := x.portNames()
		if err != nil {
			yield(Slot{}, err)
			return
		}

		for _, name := range names {
			p, ok := port.FromName(name)
			if !ok {
				logging.Debug("ignoring entry that is not a port slot", "dir", x.Dir(), "name", name)
				continue
			}

			portDir := filepath.Join(x.Dir(), name)
			branches, err := x.readDir(portDir)
			if err != nil {
				if !yield(Slot{}, err) {
					return
				}
				continue
			}

			for _, b := range branches {
				if !b.IsDir() {
					continue
				}
				slot := Slot{Port: p, Branch: b.Name(), Path: filepath.Join(portDir, b.Name())}
				if !yield(slot, nil) {
					return
				}
			}
		}
	}
}

func (x *DirIndex) List() ([]Slot, error) {
	var slots []Slot
	for slot, err := range x.Slots() {
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (x *DirIndex) Find(branch string) (Slot, bool, error) {
	for slot, err := range x.Slots() {
		if err != nil {
			return Slot{}, false, err
		}
		if slot.Branch == branch {
			return slot, true, nil
		}
	}
	return Slot{}, false, nil
}

func (x *DirIndex) AllocatePort(ask func() (string, error)) (int, error) {
	names, err := x.portNames()
	if err != nil {
		return 0, err
	}

	next, ok, err := port.Next(names)
	if err != nil {
		return 0, err
	}
	if ok {
		logging.Debug("allocated port", "port", next, "strategy", "max+1")
		return next, nil
	}

	input, err := ask()
	if err != nil {
		return 0, err
	}
	start, err := port.ParseStart(input)
	if err != nil {
		return 0, err
	}
	logging.Debug("allocated port", "port", start, "strategy", "operator")
	return start, nil
}

func (x *DirIndex) Reserve(p int) (string, error) {
	dir := filepath.Join(x.Dir(), strconv.Itoa(p))
	if err := x.fs.MkdirAll(dir, 0755); err != nil {
		return "", ferrors.WorkspaceError("create port directory", err)
	}
	return dir, nil
}

func (x *DirIndex) Remove(ctx context.Context, slot Slot) error {
	if err := x.vcs.RemoveWorktree(ctx, x.repo.Root, slot.Path, true); err != nil {
		return ferrors.WorkspaceError("remove", err)
	}

	// git leaves the directory behind when it was never registered.
	if x.fs.Exists(slot.Path) {
		if err := x.fs.RemoveAll(slot.Path); err != nil {
			return ferrors.WorkspaceError("remove", err)
		}
	}

	return x.reclaim(slot.PortDir())
}

// reclaim deletes the port slot directory if it is empty.
func (x *DirIndex) reclaim(portDir string) error {
	entries, err := x.readDir(portDir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		logging.Debug("port directory still in use", "dir", portDir, "entries", len(entries))
		return nil
	}
	if err := x.fs.Remove(portDir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.WorkspaceError(fmt.Sprintf("reclaim %s", filepath.Base(portDir)), err)
	}
	logging.Debug("reclaimed port directory", "dir", portDir)
	return nil
}
