package runtime

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

func TestDockerRuntime_Interface(t *testing.T) {
	var _ Runtime = &DockerRuntime{}
}

func TestDockerRuntime_Name(t *testing.T) {
	rt := NewDockerRuntime(system.NewMockExecutor(), "docker")
	if rt.Name() != "docker" {
		t.Errorf("Name() = %q, want %q", rt.Name(), "docker")
	}

	rt.Command = "podman"
	if rt.Name() != "podman" {
		t.Errorf("Name() = %q, want %q", rt.Name(), "podman")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want ContainerStatus
	}{
		{"running\n", StatusRunning},
		{"exited", StatusStopped},
		{"created", StatusStopped},
		{"stopped", StatusStopped},
		{"configured", StatusStopped},
		{"dead", StatusStopped},
		{"removing", StatusStopped},
		{"paused", StatusRunning},
		{"restarting", StatusRunning},
		{"bogus", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := parseStatus(tt.raw); got != tt.want {
				t.Errorf("parseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDockerRuntime_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("running", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddResponse("docker inspect", []byte("running\n"), nil)
		rt := NewDockerRuntime(exec, "docker")

		status, err := rt.Status(ctx, "app-x")
		if err != nil || status != StatusRunning {
			t.Errorf("Status() = %q, %v", status, err)
		}
		last, _ := exec.LastCommand()
		want := "docker inspect --type container --format {{.State.Status}} app-x"
		if last.Line() != want {
			t.Errorf("command = %q, want %q", last.Line(), want)
		}
	})

	t.Run("not found", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddResponse("docker inspect", nil, &system.CommandError{
			Command: "docker inspect", ExitCode: 1,
			Stderr: "Error: No such container: app-x", Err: errors.New("exit status 1"),
		})
		rt := NewDockerRuntime(exec, "docker")

		status, err := rt.Status(ctx, "app-x")
		if err != nil || status != StatusNotFound {
			t.Errorf("Status() = %q, %v; want not-found", status, err)
		}
	})

	t.Run("podman not found", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddResponse("podman inspect", nil, errors.New("Error: no such object: \"app-x\""))
		rt := NewDockerRuntime(exec, "podman")

		status, err := rt.Status(ctx, "app-x")
		if err != nil || status != StatusNotFound {
			t.Errorf("Status() = %q, %v; want not-found", status, err)
		}
	})

	t.Run("daemon down", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddResponse("docker inspect", nil, errors.New("Cannot connect to the Docker daemon"))
		rt := NewDockerRuntime(exec, "docker")

		if _, err := rt.Status(ctx, "app-x"); err == nil {
			t.Error("Status() should fail when the daemon is unreachable")
		}
	})
}

func TestBuildCmdArgs(t *testing.T) {
	args := buildCmdArgs(BuildOptions{
		Tag:        "app-dev",
		Dockerfile: "/src/app/.forage-wt/Dockerfile",
		Context:    "/src/app/.forage-wt",
		BuildArgs:  map[string]string{"USERNAME": "dev"},
		Secrets:    []BuildSecret{{ID: "gh_token", Env: "GH_TOKEN"}},

		EnvBuildArgs: []string{"GIT_CONFIG"},
		Env:          map[string]string{"GIT_CONFIG": "[user]", "GH_TOKEN": "tok"},
	})

	want := []string{
		"build", "-t", "app-dev",
		"-f", "/src/app/.forage-wt/Dockerfile",
		"--build-arg", "USERNAME=dev",
		"--build-arg", "GIT_CONFIG",
		"--secret", "id=gh_token,env=GH_TOKEN",
		"/src/app/.forage-wt",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("buildCmdArgs() =\n%v\nwant\n%v", args, want)
	}
}

func TestDockerRuntime_BuildKeepsCredentialsOffArgv(t *testing.T) {
	exec := system.NewMockExecutor()
	rt := NewDockerRuntime(exec, "docker")

	err := rt.Build(context.Background(), BuildOptions{
		Tag:          "app-dev",
		Context:      "/src/app/.forage-wt",
		EnvBuildArgs: []string{"GIT_CONFIG"},
		Secrets:      []BuildSecret{{ID: "gh_token", Env: "GH_TOKEN"}},
		Env:          map[string]string{"GIT_CONFIG": "[user]\n\temail = dev@example.com", "GH_TOKEN": "s3cr3t"},
	})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	last, _ := exec.LastCommand()
	line := last.Line()
	for _, secret := range []string{"dev@example.com", "s3cr3t"} {
		if strings.Contains(line, secret) {
			t.Errorf("command line %q contains credential value %q", line, secret)
		}
	}
	if !reflect.DeepEqual(last.Env, []string{"GH_TOKEN=s3cr3t", "GIT_CONFIG=[user]\n\temail = dev@example.com"}) {
		t.Errorf("Env = %q", last.Env)
	}
}

func TestRunCmdArgs(t *testing.T) {
	args := runCmdArgs(RunOptions{
		Image:   "app-dev",
		Name:    "app-x",
		Workdir: "/workspaces/app.worktrees/9000/x",
		Ports:   []PortMapping{{Host: 9000, Container: 8000}},
		Mounts: []Mount{
			{Source: "/src/app/.git", Target: "/workspaces/app/.git"},
			{Source: "/home/u/.ssh", Target: "/home/dev/.ssh", ReadOnly: true},
		},
		Labels:  map[string]string{"forage-wt.branch": "x"},
		Env:     map[string]string{"GH_TOKEN": "secret"},
		Command: []string{"sleep", "infinity"},
	})

	want := []string{
		"run", "-d", "--name", "app-x",
		"--label", "forage-wt.branch=x",
		"-p", "9000:8000",
		"-v", "/src/app/.git:/workspaces/app/.git",
		"-v", "/home/u/.ssh:/home/dev/.ssh:ro",
		"-e", "GH_TOKEN",
		"-w", "/workspaces/app.worktrees/9000/x",
		"app-dev", "sleep", "infinity",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("runCmdArgs() =\n%v\nwant\n%v", args, want)
	}
	for _, a := range args {
		if a == "secret" || a == "GH_TOKEN=secret" {
			t.Error("secret value leaked onto the command line")
		}
	}
}

func TestExecCmdArgs(t *testing.T) {
	args := execCmdArgs("app-x", []string{"bash", "-l"}, ExecOptions{User: "dev", WorkingDir: "/w"})
	want := []string{"exec", "-it", "-u", "dev", "-w", "/w", "app-x", "bash", "-l"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("execCmdArgs() = %v, want %v", args, want)
	}
}

func TestDockerRuntime_RunPassesEnv(t *testing.T) {
	exec := system.NewMockExecutor()
	rt := NewDockerRuntime(exec, "docker")

	err := rt.Run(context.Background(), RunOptions{Image: "i", Name: "n", Env: map[string]string{"B": "2", "A": "1"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	last, _ := exec.LastCommand()
	if last.Mode != "stream" {
		t.Errorf("Mode = %q, want stream", last.Mode)
	}
	if !reflect.DeepEqual(last.Env, []string{"A=1", "B=2"}) {
		t.Errorf("Env = %v", last.Env)
	}
}

func TestDockerRuntime_Remove_Missing(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("docker rm", nil, errors.New("Error response from daemon: No such container: app-x"))
	rt := NewDockerRuntime(exec, "docker")

	if err := rt.Remove(context.Background(), "app-x"); err != nil {
		t.Errorf("Remove() of missing container = %v, want nil", err)
	}
}

func TestDockerRuntime_StopFails(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("docker stop", nil, errors.New("boom"))
	rt := NewDockerRuntime(exec, "docker")

	if err := rt.Stop(context.Background(), "app-x"); err == nil {
		t.Error("Stop() should propagate failures")
	}
}
