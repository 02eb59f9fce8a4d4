// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io"
	"io/fs"
	"os"
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Remove removes the named file or empty directory.
	Remove(path string) error

	// RemoveAll removes path and any children it contains.
	RemoveAll(path string) error

	// Stat returns file info for the named file.
	Stat(path string) (fs.FileInfo, error)

	// MkdirAll creates a directory named path, along with any necessary parents.
	MkdirAll(path string, perm fs.FileMode) error

	// Exists returns true if the path exists.
	Exists(path string) bool

	// IsDir returns true if the path is a directory.
	IsDir(path string) bool

	// ReadDir reads the named directory, returning its entries sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)

	// CopyFile copies a file from src to dst, keeping the source mode.
	CopyFile(src, dst string) error
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Output runs a command and returns its stdout. A non-zero exit is
	// reported as a *CommandError carrying stderr.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Stream runs a command with its output connected to the executor's
	// writers. env is appended to the current environment.
	Stream(ctx context.Context, env []string, name string, args ...string) error

	// Interactive runs a command with stdin/stdout/stderr connected to the terminal.
	Interactive(ctx context.Context, name string, args ...string) error

	// LookPath searches PATH for an executable.
	LookPath(name string) (string, error)
}

// DefaultFS returns the FileSystem backed by the os package.
func DefaultFS() FileSystem {
	return osFileSystem{}
}

// DefaultExecutor returns an executor attached to the process's standard streams.
func DefaultExecutor() CommandExecutor {
	return NewExecutor(os.Stdin, os.Stdout, os.Stderr)
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

var _ FileSystem = osFileSystem{}

func (osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (osFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (osFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (osFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (osFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (osFileSystem) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
