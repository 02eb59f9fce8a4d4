package runtime

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

// DockerRuntime implements the Runtime interface using the Docker or Podman CLI.
type DockerRuntime struct {
	// Command is the container command to use (docker or podman)
	Command string

	exec system.CommandExecutor
}

// NewDockerRuntime creates a runtime driving command through exec.
func NewDockerRuntime(exec system.CommandExecutor, command string) *DockerRuntime {
	return &DockerRuntime{Command: command, exec: exec}
}

// Name returns the runtime identifier
func (r *DockerRuntime) Name() string {
	return r.Command
}

func (r *DockerRuntime) output(ctx context.Context, args ...string) (string, error) {
	out, err := r.exec.Output(ctx, r.Command, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// isNoSuchContainer matches the docker and podman messages for a missing container.
func isNoSuchContainer(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such container") ||
		strings.Contains(msg, "no such object") ||
		strings.Contains(msg, "no container with name or id")
}

// parseStatus maps State.Status to a ContainerStatus. Paused and
// restarting containers still hold their process and need a stop before
// removal, so they count as running. Every other existing container is
// stopped.
func parseStatus(raw string) ContainerStatus {
	switch strings.TrimSpace(raw) {
	case "running", "paused", "restarting":
		return StatusRunning
	case "exited", "stopped", "created", "configured", "dead", "removing":
		return StatusStopped
	default:
		return StatusUnknown
	}
}

// Status returns the state of a container
func (r *DockerRuntime) Status(ctx context.Context, name string) (ContainerStatus, error) {
	out, err := r.output(ctx, "inspect", "--type", "container", "--format", "{{.State.Status}}", name)
	if err != nil {
		if isNoSuchContainer(err) {
			return StatusNotFound, nil
		}
		return StatusUnknown, fmt.Errorf("%s inspect failed: %w", r.Command, err)
	}

	status := parseStatus(out)
	logging.Debug("container status", "container", name, "raw", strings.TrimSpace(out), "status", status)
	return status, nil
}

// buildCmdArgs returns the CLI arguments for a build invocation.
func buildCmdArgs(opts BuildOptions) []string {
	args := []string{"build", "-t", opts.Tag}
	if opts.Dockerfile != "" {
		args = append(args, "-f", opts.Dockerfile)
	}
	for _, k := range sortedKeys(opts.BuildArgs) {
		args = append(args, "--build-arg", k+"="+opts.BuildArgs[k])
	}
	for _, k := range opts.EnvBuildArgs {
		args = append(args, "--build-arg", k)
	}
	for _, s := range opts.Secrets {
		args = append(args, "--secret", "id="+s.ID+",env="+s.Env)
	}
	args = append(args, opts.Context)
	return args
}

// runCmdArgs returns the CLI arguments for a detached run invocation.
func runCmdArgs(opts RunOptions) []string {
	args := []string{"run", "-d"}
	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	for _, k := range sortedKeys(opts.Labels) {
		args = append(args, "--label", k+"="+opts.Labels[k])
	}
	for _, p := range opts.Ports {
		args = append(args, "-p", fmt.Sprintf("%d:%d", p.Host, p.Container))
	}
	for _, m := range opts.Mounts {
		spec := m.Source + ":" + m.Target
		if m.ReadOnly {
			spec += ":ro"
		}
		args = append(args, "-v", spec)
	}
	for _, k := range sortedKeys(opts.Env) {
		args = append(args, "-e", k)
	}
	if opts.Workdir != "" {
		args = append(args, "-w", opts.Workdir)
	}
	args = append(args, opts.Image)
	args = append(args, opts.Command...)
	return args
}

// execCmdArgs returns the CLI arguments for an interactive exec invocation.
func execCmdArgs(name string, command []string, opts ExecOptions) []string {
	args := []string{"exec", "-it"}
	if opts.User != "" {
		args = append(args, "-u", opts.User)
	}
	if opts.WorkingDir != "" {
		args = append(args, "-w", opts.WorkingDir)
	}
	args = append(args, name)
	return append(args, command...)
}

// Build builds an image
func (r *DockerRuntime) Build(ctx context.Context, opts BuildOptions) error {
	logging.Debug("building image", "tag", opts.Tag, "runtime", r.Command)
	if err := r.exec.Stream(ctx, envList(opts.Env), r.Command, buildCmdArgs(opts)...); err != nil {
		return fmt.Errorf("%s build failed: %w", r.Command, err)
	}
	return nil
}

// Run creates and starts a detached container
func (r *DockerRuntime) Run(ctx context.Context, opts RunOptions) error {
	logging.Debug("running container", "container", opts.Name, "image", opts.Image, "runtime", r.Command)
	if err := r.exec.Stream(ctx, envList(opts.Env), r.Command, runCmdArgs(opts)...); err != nil {
		return fmt.Errorf("%s run failed: %w", r.Command, err)
	}
	return nil
}

// Start starts an existing container
func (r *DockerRuntime) Start(ctx context.Context, name string) error {
	logging.Debug("starting container", "container", name)
	if _, err := r.output(ctx, "start", name); err != nil {
		return fmt.Errorf("%s start failed: %w", r.Command, err)
	}
	return nil
}

// Stop stops a running container
func (r *DockerRuntime) Stop(ctx context.Context, name string) error {
	logging.Debug("stopping container", "container", name)
	if _, err := r.output(ctx, "stop", name); err != nil {
		return fmt.Errorf("%s stop failed: %w", r.Command, err)
	}
	return nil
}

// Remove deletes a container
func (r *DockerRuntime) Remove(ctx context.Context, name string) error {
	logging.Debug("removing container", "container", name)
	if _, err := r.output(ctx, "rm", name); err != nil {
		if isNoSuchContainer(err) {
			return nil
		}
		return fmt.Errorf("%s rm failed: %w", r.Command, err)
	}
	return nil
}

// ExecInteractive runs command in the container with the terminal attached
func (r *DockerRuntime) ExecInteractive(ctx context.Context, name string, command []string, opts ExecOptions) error {
	return r.exec.Interactive(ctx, r.Command, execCmdArgs(name, command, opts)...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func envList(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	env := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		env = append(env, k+"="+m[k])
	}
	return env
}
