// Package errors provides typed errors with exit codes for forage-wt.
//
// # Error Types
//
// EnvError wraps an error with a kind and an exit code:
//
//	type EnvError struct {
//	    Kind    Kind   // Classification
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Kinds
//
//	KindEnvironment    // not in a repository, missing Dockerfile, no runtime
//	KindValidation     // bad branch name, bad port, unknown shell
//	KindNotFound       // kill/path on a nonexistent worktree
//	KindPortAllocation // port space exhausted
//	KindContainer      // runtime step failed
//	KindWorkspace      // git or filesystem step failed
//	KindConfig         // unreadable or invalid configuration
//
// All kinds exit with code 1. A declined confirmation is not an error
// at this level; the command layer maps it to exit 0.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
