package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

// Detect picks the container CLI. With config.RuntimeAuto podman is
// preferred over docker; otherwise the named CLI must be on PATH.
func Detect(exec system.CommandExecutor, preference string) (string, error) {
	candidates := []string{config.RuntimePodman, config.RuntimeDocker}
	switch preference {
	case "", config.RuntimeAuto:
	case config.RuntimeDocker, config.RuntimePodman:
		candidates = []string{preference}
	default:
		return "", ferrors.ConfigError(fmt.Sprintf("unknown runtime type: %s", preference), nil)
	}

	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			logging.Debug("detected container runtime", "runtime", name, "path", path)
			return name, nil
		}
	}

	return "", ferrors.NoRuntime()
}

// New creates the runtime selected by preference.
func New(exec system.CommandExecutor, preference string) (Runtime, error) {
	command, err := Detect(exec, preference)
	if err != nil {
		return nil, err
	}
	return NewDockerRuntime(exec, command), nil
}

// lazyRuntime defers detection until the first call that needs a runtime.
type lazyRuntime struct {
	once    sync.Once
	resolve func() (Runtime, error)
	rt      Runtime
	err     error
}

// Lazy returns a Runtime that calls resolve on first use and forwards to
// its result. A resolve error is returned by every method.
func Lazy(resolve func() (Runtime, error)) Runtime {
	return &lazyRuntime{resolve: resolve}
}

func (l *lazyRuntime) get() (Runtime, error) {
	l.once.Do(func() {
		l.rt, l.err = l.resolve()
	})
	return l.rt, l.err
}

func (l *lazyRuntime) Name() string {
	rt, err := l.get()
	if err != nil {
		return "none"
	}
	return rt.Name()
}

func (l *lazyRuntime) Status(ctx context.Context, name string) (ContainerStatus, error) {
	rt, err := l.get()
	if err != nil {
		return StatusUnknown, err
	}
	return rt.Status(ctx, name)
}

func (l *lazyRuntime) Build(ctx context.Context, opts BuildOptions) error {
	rt, err := l.get()
	if err != nil {
		return err
	}
	return rt.Build(ctx, opts)
}

func (l *lazyRuntime) Run(ctx context.Context, opts RunOptions) error {
	rt, err := l.get()
	if err != nil {
		return err
	}
	return rt.Run(ctx, opts)
}

func (l *lazyRuntime) Start(ctx context.Context, name string) error {
	rt, err := l.get()
	if err != nil {
		return err
	}
	return rt.Start(ctx, name)
}

func (l *lazyRuntime) Stop(ctx context.Context, name string) error {
	rt, err := l.get()
	if err != nil {
		return err
	}
	return rt.Stop(ctx, name)
}

func (l *lazyRuntime) Remove(ctx context.Context, name string) error {
	rt, err := l.get()
	if err != nil {
		return err
	}
	return rt.Remove(ctx, name)
}

func (l *lazyRuntime) ExecInteractive(ctx context.Context, name string, command []string, opts ExecOptions) error {
	rt, err := l.get()
	if err != nil {
		return err
	}
	return rt.ExecInteractive(ctx, name, command, opts)
}
