// Package app provides the application context for forage-wt.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithFS(mockFS),
//	    app.WithRuntime(mockRuntime),
//	    app.WithVCS(mockBackend),
//	    app.WithWorkDir("/src/app"),
//	)
//
//	mgr, err := a.Manager(false)
//
// Anything left unset falls back to the real implementation: the OS file
// system and executor, git worktrees, a runtime detected from config on
// first use, and a prompter chosen by terminal detection.
package app
