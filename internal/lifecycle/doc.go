// Package lifecycle orchestrates environments: listing them, opening one
// (create-or-attach) and killing one.
//
// Open on an unknown branch walks the create path:
//
//	check Dockerfile -> allocate port -> confirm -> create branch ->
//	reserve port slot -> add worktree -> copy settings -> build -> run -> attach
//
// Open on a known branch brings its container to running and attaches.
// Kill tears down the container before the worktree.
//
// No step is rolled back. A failure part way leaves every earlier step in
// place, and opening the same branch again resumes from there.
package lifecycle
