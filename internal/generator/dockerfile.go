package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/credentials"
)

// DockerfileData holds all data needed to render the Dockerfile.
type DockerfileData struct {
	BaseImage     string
	User          string
	Port          int
	WorkspaceRoot string
	Command       []string
	GitConfigArg  string
	TokenSecretID string
}

// FromConfig returns the template data for baseImage under cfg.
func FromConfig(baseImage string, cfg *config.Config) DockerfileData {
	command, err := cfg.CommandArgs()
	if err != nil || len(command) == 0 {
		command = []string{"sleep", "infinity"}
	}
	return DockerfileData{
		BaseImage:     strings.TrimSpace(baseImage),
		User:          cfg.Container.User,
		Port:          cfg.Container.Port,
		WorkspaceRoot: cfg.Container.WorkspaceRoot,
		Command:       command,
		GitConfigArg:  credentials.GitConfigArg,
		TokenSecretID: credentials.TokenSecretID,
	}
}

// Validate checks that the data renders to a usable Dockerfile.
func (d DockerfileData) Validate() error {
	if d.BaseImage == "" {
		return fmt.Errorf("base image is required")
	}
	if strings.ContainsAny(d.BaseImage, " \t\r\n") {
		return fmt.Errorf("invalid base image: %q", d.BaseImage)
	}
	if d.User == "" {
		return fmt.Errorf("user is required")
	}
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("port %d out of range", d.Port)
	}
	if !strings.HasPrefix(d.WorkspaceRoot, "/") {
		return fmt.Errorf("workspace root must be absolute: %q", d.WorkspaceRoot)
	}
	return nil
}

// RenderDockerfile renders the Dockerfile for d.
func RenderDockerfile(d DockerfileData) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("invalid dockerfile data: %w", err)
	}

	var buf bytes.Buffer
	if err := dockerfileTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to execute dockerfile template: %w", err)
	}
	return buf.String(), nil
}

// execForm renders argv as a JSON-array exec form instruction argument.
func execForm(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

const dockerfileTemplateText = `# syntax=docker/dockerfile:1
# Generated by forage-wt init. Edit freely; it is rebuilt on every provisioning.
FROM {{.BaseImage}}

ARG USERNAME={{.User}}
ARG {{.GitConfigArg}}=""

RUN if ! id -u "${USERNAME}" >/dev/null 2>&1; then \
      useradd --create-home --shell /bin/bash "${USERNAME}"; \
    fi \
 && mkdir -p {{.WorkspaceRoot}} \
 && chown "${USERNAME}" {{.WorkspaceRoot}}

USER ${USERNAME}

RUN if [ -n "${{"{"}}{{.GitConfigArg}}{{"}"}}" ]; then \
      printf '%s\n' "${{"{"}}{{.GitConfigArg}}{{"}"}}" > "${HOME}/.gitconfig"; \
    fi

# The auth token is only visible to RUN steps that mount it, e.g.:
# RUN --mount=type=secret,id={{.TokenSecretID}},uid=1000 \
#     GH_TOKEN="$(cat /run/secrets/{{.TokenSecretID}})" gh extension install owner/ext

WORKDIR {{.WorkspaceRoot}}
EXPOSE {{.Port}}
CMD {{execForm .Command}}
`

var dockerfileTemplate = template.Must(template.New("dockerfile").
	Funcs(template.FuncMap{"execForm": execForm}).
	Parse(dockerfileTemplateText))
