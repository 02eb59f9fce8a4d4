// Package port provides port slot allocation for worktree environments.
//
// Every environment of a repository is reachable on a distinct host port,
// recorded as a numeric directory under the worktrees directory. This
// package only computes numbers; the directory index owns the filesystem.
//
// # Allocation Strategy
//
// Ports are allocated as max+1 over the existing port slots:
//
//	next, ok, err := port.Next([]string{"9000", "9003", "9001"}) // 9004, true, nil
//
// Gaps left by removed environments are never backfilled. When the
// highest slot is removed its number becomes available again.
//
// # Starting Port
//
// With no existing slots the operator chooses the first port:
//
//	p, err := port.ParseStart("9000")
//
// Accepted values lie in [Min, Max] = [1024, 65535]. There is no default.
package port
