// Package logging provides logging utilities for forage-wt.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for the operator
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by --verbose and --json:
//
//	logging.Debug("exec", "cmd", "git -C /repo worktree add ...")
//	logging.Warn("settings copy skipped", "file", rel, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Branch %s already exists", branch)
//	logging.UserSuccess("Worktree ready at %s", path)
//	logging.UserWarning("Container %s was not found", name)
//	logging.UserError("%v", err)
//
// Output destinations default to stdout (info, success) and stderr
// (warning, error) and can be redirected with SetOutput.
//
// # Status Indicators
//
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
