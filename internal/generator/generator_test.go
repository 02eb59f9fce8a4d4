package generator

import (
	"strings"
	"testing"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
)

func TestRenderDockerfile(t *testing.T) {
	out, err := RenderDockerfile(FromConfig("ubuntu:24.04", config.Default()))
	if err != nil {
		t.Fatalf("RenderDockerfile() error: %v", err)
	}

	checks := []string{
		"FROM ubuntu:24.04\n",
		"ARG USERNAME=dev\n",
		`ARG GIT_CONFIG=""`,
		`"${GIT_CONFIG}"`,
		"id=gh_token",
		"mkdir -p /workspaces",
		"WORKDIR /workspaces\n",
		"EXPOSE 8000\n",
		`CMD ["sleep", "infinity"]`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderDockerfile_CustomConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Container.User = "agent"
	cfg.Container.Port = 3000
	cfg.Container.Command = `sh -c "tail -f /dev/null"`

	out, err := RenderDockerfile(FromConfig("  node:22 ", cfg))
	if err != nil {
		t.Fatalf("RenderDockerfile() error: %v", err)
	}
	if !strings.Contains(out, "FROM node:22\n") {
		t.Error("base image should be trimmed")
	}
	if !strings.Contains(out, "ARG USERNAME=agent") {
		t.Error("missing custom user")
	}
	if !strings.Contains(out, "EXPOSE 3000") {
		t.Error("missing custom port")
	}
	if !strings.Contains(out, `CMD ["sh", "-c", "tail -f /dev/null"]`) {
		t.Errorf("unexpected CMD in\n%s", out)
	}
}

func TestDockerfileData_Validate(t *testing.T) {
	valid := FromConfig("alpine", config.Default())

	tests := []struct {
		name    string
		mutate  func(*DockerfileData)
		wantErr string
	}{
		{"valid", func(d *DockerfileData) {}, ""},
		{"empty image", func(d *DockerfileData) { d.BaseImage = "" }, "base image is required"},
		{"image with space", func(d *DockerfileData) { d.BaseImage = "alpine latest" }, "invalid base image"},
		{"no user", func(d *DockerfileData) { d.User = "" }, "user is required"},
		{"bad port", func(d *DockerfileData) { d.Port = 0 }, "out of range"},
		{"relative root", func(d *DockerfileData) { d.WorkspaceRoot = "ws" }, "must be absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExecForm(t *testing.T) {
	got := execForm([]string{"bash", "-c", `echo "hi"`})
	want := `["bash", "-c", "echo \"hi\""]`
	if got != want {
		t.Errorf("execForm() = %s, want %s", got, want)
	}
}
