package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
)

const (
	// AppName is used for the XDG config and state subdirectories.
	AppName = "forage-wt"

	// RepoFileName is the per-repository override file, relative to the repo root.
	RepoFileName = ".forage-wt.toml"

	// MaxSettingsDepth bounds settings.max_depth.
	MaxSettingsDepth = 16
)

// Runtime choices accepted by container.runtime.
const (
	RuntimeAuto   = "auto"
	RuntimeDocker = "docker"
	RuntimePodman = "podman"
)

// Config is the full forage-wt configuration.
type Config struct {
	Container   ContainerConfig   `toml:"container"`
	Settings    SettingsConfig    `toml:"settings"`
	Credentials CredentialsConfig `toml:"credentials"`
	UI          UIConfig          `toml:"ui"`

	// Sources lists the files that contributed, in load order.
	Sources []string `toml:"-"`
}

// ContainerConfig describes how environments are built and run.
type ContainerConfig struct {
	Port          int    `toml:"port"`
	User          string `toml:"user"`
	Shell         string `toml:"shell"`
	WorkspaceRoot string `toml:"workspace_root"`
	Dockerfile    string `toml:"dockerfile"`
	Runtime       string `toml:"runtime"`
	Command       string `toml:"command"`
}

// SettingsConfig selects local-settings files copied into new worktrees.
type SettingsConfig struct {
	Patterns []string `toml:"patterns"`
	MaxDepth int      `toml:"max_depth"`
}

// CredentialsConfig names the host sources handed to the container.
type CredentialsConfig struct {
	GitConfigFile string `toml:"gitconfig_file"`
	TokenEnv      string `toml:"token_env"`
	TokenCommand  string `toml:"token_command"`
	JSONFile      string `toml:"json_file"`
	JSONEnv       string `toml:"json_env"`
}

// UIConfig controls operator-facing output.
type UIConfig struct {
	Color bool `toml:"color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Container: ContainerConfig{
			Port:          8000,
			User:          "dev",
			Shell:         "bash -l",
			WorkspaceRoot: "/workspaces",
			Dockerfile:    ".forage-wt/Dockerfile",
			Runtime:       RuntimeAuto,
			Command:       "sleep infinity",
		},
		Settings: SettingsConfig{
			Patterns: []string{"settings.local.json", ".env.local"},
			MaxDepth: 3,
		},
		Credentials: CredentialsConfig{
			GitConfigFile: "~/.gitconfig",
			TokenEnv:      "GH_TOKEN",
			TokenCommand:  "gh auth token",
			JSONFile:      "~/.claude.json",
			JSONEnv:       "CLAUDE_CONFIG_JSON",
		},
		UI: UIConfig{
			Color: true,
		},
	}
}

// GlobalPath returns the per-user config file location.
func GlobalPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// StateDir returns the per-user state directory used for the event journal.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// Load starts from Default and applies each existing file in order.
// Keys present in a later file override earlier values; absent files are skipped.
func Load(paths ...string) (*Config, error) {
	cfg := Default()

	for _, path := range paths {
		if path == "" {
			continue
		}
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			logging.Warn("unknown config keys", "file", path, "keys", strings.Join(keys, ","))
		}
		cfg.Sources = append(cfg.Sources, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadForRepo loads the global file and then the repository override.
func LoadForRepo(repoRoot string) (*Config, error) {
	var repoFile string
	if repoRoot != "" {
		repoFile = filepath.Join(repoRoot, RepoFileName)
	}
	return Load(GlobalPath(), repoFile)
}

// Validate checks that the Config is usable.
func (c *Config) Validate() error {
	if c.Container.Port < 1 || c.Container.Port > 65535 {
		return fmt.Errorf("container.port %d out of range", c.Container.Port)
	}
	if c.Container.User == "" {
		return fmt.Errorf("container.user is required")
	}
	if c.Container.Dockerfile == "" {
		return fmt.Errorf("container.dockerfile is required")
	}
	if _, err := c.ShellArgs(); err != nil {
		return err
	}
	switch c.Container.Runtime {
	case RuntimeAuto, RuntimeDocker, RuntimePodman:
	default:
		return fmt.Errorf("container.runtime must be one of auto, docker, podman (got %q)", c.Container.Runtime)
	}
	if c.Settings.MaxDepth < 0 || c.Settings.MaxDepth > MaxSettingsDepth {
		return fmt.Errorf("settings.max_depth must be between 0 and %d", MaxSettingsDepth)
	}
	return nil
}

// ShellArgs splits container.shell into argv.
func (c *Config) ShellArgs() ([]string, error) {
	args, err := shellquote.Split(c.Container.Shell)
	if err != nil {
		return nil, fmt.Errorf("container.shell: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("container.shell is required")
	}
	return args, nil
}

// CommandArgs splits container.command into argv. Empty means the image default.
func (c *Config) CommandArgs() ([]string, error) {
	args, err := shellquote.Split(c.Container.Command)
	if err != nil {
		return nil, fmt.Errorf("container.command: %w", err)
	}
	return args, nil
}

// DockerfilePath resolves container.dockerfile against the repository root.
func (c *Config) DockerfilePath(repoRoot string) string {
	path := ExpandHome(c.Container.Dockerfile)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(repoRoot, path)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
