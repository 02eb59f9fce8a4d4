// Package config provides configuration types and loading for forage-wt.
//
// # Configuration Files
//
// Configuration is TOML, applied in layers:
//
//   - built-in defaults (Default)
//   - $XDG_CONFIG_HOME/forage-wt/config.toml
//   - {repo-root}/.forage-wt.toml
//
// A key set in a later layer overrides the earlier value; everything else
// is inherited. Missing files are skipped.
//
// # Sections
//
//	[container]    port, user, shell, workspace_root, dockerfile, runtime, command
//	[settings]     patterns, max_depth
//	[credentials]  gitconfig_file, token_env, token_command, json_file, json_env
//	[ui]           color
//
// # Validation
//
// Load validates the merged result. Unknown keys are logged, not rejected.
package config
