package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

// MockBackend implements Backend for testing. Worktrees are plain
// directories on the given FileSystem.
type MockBackend struct {
	mu sync.Mutex
	fs system.FileSystem

	// Branches holds existing branch names.
	Branches map[string]bool

	// Worktrees maps worktree path to branch.
	Worktrees map[string]string

	// Relative is returned by SupportsRelativePaths.
	Relative bool

	// Errors to return for specific methods.
	Errors map[string]error

	// CallLog records method calls.
	CallLog []string
}

// NewMockBackend creates a MockBackend backed by fs.
func NewMockBackend(fs system.FileSystem) *MockBackend {
	return &MockBackend{
		fs:        fs,
		Branches:  make(map[string]bool),
		Worktrees: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

func (m *MockBackend) Name() string {
	return "mock"
}

func (m *MockBackend) log(format string, args ...any) {
	m.CallLog = append(m.CallLog, fmt.Sprintf(format, args...))
}

func (m *MockBackend) CreateBranch(ctx context.Context, repo, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("CreateBranch %s", branch)

	if err := m.Errors["CreateBranch"]; err != nil {
		return err
	}
	if m.Branches[branch] {
		return ErrBranchExists
	}
	m.Branches[branch] = true
	return nil
}

func (m *MockBackend) AddWorktree(ctx context.Context, repo, path, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("AddWorktree %s %s", path, branch)

	if err := m.Errors["AddWorktree"]; err != nil {
		return err
	}
	if !m.Branches[branch] {
		return fmt.Errorf("invalid reference: %s", branch)
	}
	if err := m.fs.MkdirAll(path, 0755); err != nil {
		return err
	}
	gitFile := filepath.Join(path, ".git")
	if err := m.fs.WriteFile(gitFile, []byte("gitdir: "+filepath.Join(repo, ".git", "worktrees", branch)+"\n"), 0644); err != nil {
		return err
	}
	m.Worktrees[path] = branch
	return nil
}

func (m *MockBackend) RemoveWorktree(ctx context.Context, repo, path string, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("RemoveWorktree %s force=%t", path, force)

	if err := m.Errors["RemoveWorktree"]; err != nil {
		return err
	}
	delete(m.Worktrees, path)
	return m.fs.RemoveAll(path)
}

func (m *MockBackend) SupportsRelativePaths(ctx context.Context) bool {
	return m.Relative
}

// Calls returns a copy of the call log.
func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.CallLog...)
}
