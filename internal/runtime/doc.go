// Package runtime provides the container runtime used by forage-wt.
//
// Supported runtimes:
//   - podman (preferred when both are installed)
//   - docker
//
// Both are driven through their CLI by DockerRuntime. Selection is
// automatic unless container.runtime names one explicitly:
//
//	rt, err := runtime.New(system.DefaultExecutor(), cfg.Container.Runtime)
//
// # Runtime Interface
//
//   - Build: build the environment image, streaming progress
//   - Run: create and start a detached container
//   - Start, Stop, Remove: container lifecycle
//   - Status: running, stopped or not-found, queried fresh every call
//   - ExecInteractive: attach a shell as the unprivileged user
//
// Secret values (tokens, credentials) never appear on the command line:
// build secrets and run-time env vars are passed by name and their values
// travel in the runtime process environment.
//
// # Mock Runtime
//
// For testing, use NewMockRuntime() to create a mock implementation that
// tracks container state and records every call.
package runtime
