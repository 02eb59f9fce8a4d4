// Package container classifies the observed state of an environment's
// container and decides what has to happen before an operator can attach.
//
//	Absent  -> Provision (build image, run container)
//	Stopped -> Start
//	Running -> Attach
//
// State is never cached: Observe asks the runtime every time.
package container

import (
	"context"
	"fmt"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/runtime"
)

// State is the lifecycle state of a container.
type State int

const (
	Absent State = iota
	Stopped
	Running
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action is what brings a container to Running.
type Action int

const (
	Provision Action = iota
	Start
	Attach
)

func (a Action) String() string {
	switch a {
	case Provision:
		return "provision"
	case Start:
		return "start"
	case Attach:
		return "attach"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Classify maps a runtime status onto a State. Any status other than
// running, stopped or not-found is an error.
func Classify(status runtime.ContainerStatus) (State, error) {
	switch status {
	case runtime.StatusNotFound:
		return Absent, nil
	case runtime.StatusStopped:
		return Stopped, nil
	case runtime.StatusRunning:
		return Running, nil
	default:
		return Absent, fmt.Errorf("unexpected container status %q", status)
	}
}

// Observe queries the runtime for the current state of name.
func Observe(ctx context.Context, rt runtime.Runtime, name string) (State, error) {
	status, err := rt.Status(ctx, name)
	if err != nil {
		return Absent, ferrors.ContainerFailed("inspect", err)
	}
	state, err := Classify(status)
	if err != nil {
		return Absent, ferrors.ContainerFailed("inspect", fmt.Errorf("%s: %w", name, err))
	}
	return state, nil
}

// Plan returns the action needed to reach Running from s.
func Plan(s State) Action {
	switch s {
	case Running:
		return Attach
	case Stopped:
		return Start
	default:
		return Provision
	}
}
