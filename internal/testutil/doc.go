// Package testutil provides repository fixtures for tests.
//
// A TestEnv lays out a real directory tree the way forage-wt expects it:
//
//	{tmp}/app/.git/
//	{tmp}/app/.forage-wt/Dockerfile
//	{tmp}/app.worktrees/
//	{tmp}/state/
//
// and pairs it with a mock runtime and a mock worktree backend, so lifecycle
// operations run end to end without git or a container engine:
//
//	func TestOpen(t *testing.T) {
//	    env := testutil.NewTestEnv(t)
//	    env.Seed(9000, "alpha")
//	    a := app.New(env.Options()...)
//	    ...
//	}
//
// The fixtures/ directory is embedded and holds a minimal Dockerfile and a
// repository override file.
package testutil
