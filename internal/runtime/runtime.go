package runtime

import (
	"context"
	"fmt"
)

// ContainerStatus represents the state of a container as reported by the runtime
type ContainerStatus string

const (
	StatusRunning  ContainerStatus = "running"
	StatusStopped  ContainerStatus = "stopped"
	StatusNotFound ContainerStatus = "not-found"
	StatusUnknown  ContainerStatus = "unknown"
)

// BuildSecret exposes the value of an environment variable of the build
// process to the Dockerfile as a secret mount, keeping it out of image layers.
type BuildSecret struct {
	ID  string // --secret id=...
	Env string // variable name holding the value
}

// BuildOptions holds options for building an image
type BuildOptions struct {
	Tag        string
	Dockerfile string
	Context    string
	BuildArgs  map[string]string
	Secrets    []BuildSecret

	// EnvBuildArgs are passed by name; the build reads their values from Env.
	EnvBuildArgs []string

	// Env is added to the build process environment, typically the values
	// referenced by EnvBuildArgs and Secrets.
	Env map[string]string
}

// Mount is a bind mount from the host into the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// PortMapping forwards a host port to a container port.
type PortMapping struct {
	Host      int
	Container int
}

func (p PortMapping) String() string {
	return fmt.Sprintf("%d->%d", p.Host, p.Container)
}

// RunOptions holds options for starting a detached container
type RunOptions struct {
	Image   string
	Name    string
	Workdir string
	Ports   []PortMapping
	Mounts  []Mount
	Labels  map[string]string

	// Env is passed by name (-e KEY) with the value in the runtime
	// process environment, so values never appear on the command line.
	Env map[string]string

	Command []string
}

// ExecOptions holds options for executing a command in a container
type ExecOptions struct {
	User       string
	WorkingDir string
}

// Runtime is the interface that container backends must implement.
type Runtime interface {
	// Name returns the runtime identifier (e.g., "docker", "podman")
	Name() string

	// Status reports the container state. A missing container is
	// StatusNotFound with a nil error.
	Status(ctx context.Context, name string) (ContainerStatus, error)

	// Build builds an image, streaming progress to the operator.
	Build(ctx context.Context, opts BuildOptions) error

	// Run creates and starts a detached container.
	Run(ctx context.Context, opts RunOptions) error

	// Start starts an existing container
	Start(ctx context.Context, name string) error

	// Stop stops a running container
	Stop(ctx context.Context, name string) error

	// Remove deletes a stopped container. A missing container is not an error.
	Remove(ctx context.Context, name string) error

	// ExecInteractive runs command in the container with the terminal attached.
	ExecInteractive(ctx context.Context, name string, command []string, opts ExecOptions) error
}
