package lifecycle

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strconv"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/audit"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/container"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/credentials"
	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/identity"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/index"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/runtime"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/settings"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/slug"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/workspace"
)

// ErrDeclined is returned when the operator declines a confirmation.
// Nothing has been changed when it is returned.
var ErrDeclined = errors.New("aborted")

// Build argument naming the attach user in the generated Dockerfile.
const userArg = "USERNAME"

// Labels set on every container.
const (
	LabelRepo   = "forage-wt.repo"
	LabelBranch = "forage-wt.branch"
	LabelPort   = "forage-wt.port"
)

// Field is one line of a confirmation summary.
type Field struct {
	Label string
	Value string
}

// Prompter asks the operator questions.
type Prompter interface {
	// Confirm shows title and fields and reports whether to proceed.
	Confirm(ctx context.Context, title string, fields []Field) (bool, error)

	// StartingPort asks for the first port of a repository.
	StartingPort(ctx context.Context) (string, error)
}

// Deps are the collaborators of a Manager.
type Deps struct {
	Repo        identity.Repo
	Config      *config.Config
	FS          system.FileSystem
	Index       index.Index
	VCS         workspace.Backend
	Runtime     runtime.Runtime
	Credentials credentials.Source
	Prompter    Prompter
	Journal     audit.Recorder

	// AssumeYes skips confirmations.
	AssumeYes bool
}

// Manager runs lifecycle operations for one repository.
type Manager struct {
	Deps
}

// New returns a Manager. A nil Journal discards events, a nil Index is
// built over the worktrees directory of Repo.
func New(d Deps) *Manager {
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Journal == nil {
		d.Journal = audit.Nop{}
	}
	if d.Index == nil {
		d.Index = index.New(d.Repo, d.FS, d.VCS)
	}
	return &Manager{Deps: d}
}

// Row is one environment as shown by List.
type Row struct {
	Port      int    `json:"port" yaml:"port"`
	Branch    string `json:"branch" yaml:"branch"`
	State     string `json:"state" yaml:"state"`
	Path      string `json:"path" yaml:"path"`
	Container string `json:"container" yaml:"container"`
}

// BranchID normalizes label into a branch id.
func BranchID(label string) (string, error) {
	id := slug.Normalize(label)
	if id == "" {
		return "", ferrors.InvalidBranchName(label)
	}
	return id, nil
}

// List returns every environment with its observed container state. It
// has no side effects.
func (m *Manager) List(ctx context.Context) ([]Row, error) {
	slots, err := m.Index.List()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(slots))
	for _, slot := range slots {
		name := m.Repo.ContainerName(slot.Branch)
		state := "unknown"
		if s, err := container.Observe(ctx, m.Runtime, name); err == nil {
			state = s.String()
		} else {
			logging.Debug("container state unavailable", "container", name, "error", err)
		}
		rows = append(rows, Row{
			Port:      slot.Port,
			Branch:    slot.Branch,
			State:     state,
			Path:      slot.Path,
			Container: name,
		})
	}
	return rows, nil
}

// Resolve returns the identity of an existing environment.
func (m *Manager) Resolve(label string) (identity.Identity, error) {
	branch, err := BranchID(label)
	if err != nil {
		return identity.Identity{}, err
	}
	slot, found, err := m.Index.Find(branch)
	if err != nil {
		return identity.Identity{}, err
	}
	if !found {
		return identity.Identity{}, ferrors.WorktreeNotFound(branch)
	}
	return identity.For(m.Repo, branch, slot.Port), nil
}

// Open attaches to the environment of label, creating it first when it
// does not exist.
func (m *Manager) Open(ctx context.Context, label string) error {
	branch, err := BranchID(label)
	if err != nil {
		return err
	}

	slot, found, err := m.Index.Find(branch)
	if err != nil {
		return err
	}
	if found {
		return m.resume(ctx, identity.For(m.Repo, branch, slot.Port))
	}
	return m.create(ctx, branch)
}

// resume brings an existing environment to running and attaches.
func (m *Manager) resume(ctx context.Context, id identity.Identity) error {
	state, err := container.Observe(ctx, m.Runtime, id.ContainerName)
	if err != nil {
		return err
	}
	action := container.Plan(state)
	logging.Debug("resuming environment", "branch", id.Branch, "state", state, "action", action)

	switch action {
	case container.Provision:
		dockerfile, err := m.requireDockerfile()
		if err != nil {
			return err
		}
		if err := m.provision(ctx, id, dockerfile); err != nil {
			return err
		}
	case container.Start:
		logging.UserInfo("Starting %s", id.ContainerName)
		if err := m.Runtime.Start(ctx, id.ContainerName); err != nil {
			return ferrors.ContainerFailed("start", err)
		}
		m.Journal.Record(audit.EventStart, id.Branch, id.Port, "")
	}

	return m.attach(ctx, id)
}

// create walks the create path for a branch with no slot.
func (m *Manager) create(ctx context.Context, branch string) error {
	dockerfile, err := m.requireDockerfile()
	if err != nil {
		return err
	}

	p, err := m.Index.AllocatePort(func() (string, error) {
		return m.Prompter.StartingPort(ctx)
	})
	if err != nil {
		return err
	}
	id := identity.For(m.Repo, branch, p)

	ok, err := m.confirm(ctx, "Create environment", []Field{
		{"Branch", id.Branch},
		{"Worktree", id.WorktreePath},
		{"Container", id.ContainerName},
		{"Port", strconv.Itoa(id.Port)},
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}

	if err := m.VCS.CreateBranch(ctx, m.Repo.Root, branch); err != nil {
		if !errors.Is(err, workspace.ErrBranchExists) {
			return ferrors.WorkspaceError("create branch", err)
		}
		logging.UserInfo("Branch %s already exists, using it", branch)
	}

	if _, err := m.Index.Reserve(id.Port); err != nil {
		return err
	}

	if err := m.VCS.AddWorktree(ctx, m.Repo.Root, id.WorktreePath, branch); err != nil {
		return ferrors.WorkspaceError("add worktree", err)
	}
	m.Journal.Record(audit.EventCreate, id.Branch, id.Port, id.WorktreePath)
	logging.UserSuccess("Created worktree %s", id.WorktreePath)

	m.copySettings(id)

	if err := m.provision(ctx, id, dockerfile); err != nil {
		return err
	}
	return m.attach(ctx, id)
}

func (m *Manager) copySettings(id identity.Identity) {
	s := m.Config.Settings
	res, err := settings.Copy(m.FS, m.Repo.Root, id.WorktreePath, s.Patterns, s.MaxDepth)
	if err != nil {
		logging.UserWarning("Could not copy local settings: %v", err)
		return
	}
	for _, rel := range res.Copied {
		logging.UserInfo("Copied %s", rel)
	}
	if len(res.Skipped) > 0 {
		logging.Debug("settings skipped", "files", res.Skipped)
	}
}

// requireDockerfile returns the environment-definition file path, which
// must exist before anything is built.
func (m *Manager) requireDockerfile() (string, error) {
	p := m.Config.DockerfilePath(m.Repo.Root)
	if !m.FS.Exists(p) {
		return "", ferrors.MissingDockerfile(p)
	}
	return p, nil
}

// Mount targets inside the container. The repository's .git and the
// worktree keep their relative layout so relative worktree links resolve.
func (m *Manager) gitTarget() string {
	return path.Join(m.Config.Container.WorkspaceRoot, m.Repo.Name, ".git")
}

func (m *Manager) worktreeTarget(id identity.Identity) string {
	return path.Join(m.Config.Container.WorkspaceRoot, m.Repo.Name+".worktrees", strconv.Itoa(id.Port), id.Branch)
}

// provision rebuilds the shared image and runs a fresh container.
func (m *Manager) provision(ctx context.Context, id identity.Identity, dockerfile string) error {
	bundle, err := m.Credentials.Collect(ctx)
	if err != nil {
		return ferrors.Wrap(ferrors.KindEnvironment, "failed to collect credentials", err)
	}

	logging.UserInfo("Building image %s", id.ImageName)
	err = m.Runtime.Build(ctx, runtime.BuildOptions{
		Tag:          id.ImageName,
		Dockerfile:   dockerfile,
		Context:      filepath.Dir(dockerfile),
		BuildArgs:    map[string]string{userArg: m.Config.Container.User},
		Secrets:      bundle.Secrets,
		EnvBuildArgs: bundle.EnvBuildArgs,
		Env:          bundle.BuildEnv,
	})
	if err != nil {
		return ferrors.ContainerFailed("build", err)
	}

	command, err := m.Config.CommandArgs()
	if err != nil {
		return ferrors.ConfigError("invalid container command", err)
	}

	workdir := m.worktreeTarget(id)
	logging.UserInfo("Starting container %s on port %d", id.ContainerName, id.Port)
	err = m.Runtime.Run(ctx, runtime.RunOptions{
		Image:   id.ImageName,
		Name:    id.ContainerName,
		Workdir: workdir,
		Ports:   []runtime.PortMapping{{Host: id.Port, Container: m.Config.Container.Port}},
		Mounts: []runtime.Mount{
			{Source: m.Repo.GitDir(), Target: m.gitTarget()},
			{Source: id.WorktreePath, Target: workdir},
		},
		Labels: map[string]string{
			LabelRepo:   m.Repo.Name,
			LabelBranch: id.Branch,
			LabelPort:   strconv.Itoa(id.Port),
		},
		Env:     bundle.RunEnv,
		Command: command,
	})
	if err != nil {
		return ferrors.ContainerFailed("run", err)
	}
	m.Journal.Record(audit.EventProvision, id.Branch, id.Port, id.ImageName)
	return nil
}

// attach opens the login shell as the unprivileged user. The shell's own
// exit status is not a failure of the tool.
func (m *Manager) attach(ctx context.Context, id identity.Identity) error {
	shell, err := m.Config.ShellArgs()
	if err != nil {
		return ferrors.ConfigError("invalid shell", err)
	}

	m.Journal.Record(audit.EventAttach, id.Branch, id.Port, "")
	err = m.Runtime.ExecInteractive(ctx, id.ContainerName, shell, runtime.ExecOptions{
		User:       m.Config.Container.User,
		WorkingDir: m.worktreeTarget(id),
	})
	if err == nil {
		return nil
	}
	if !m.shellExited(ctx, id, err) {
		return ferrors.ContainerFailed("attach", err)
	}
	return nil
}

// shellExited reports whether err from an interactive exec is the shell's
// own exit status rather than a failure to reach the shell. Codes 125-127
// come from the runtime itself, and a container that is no longer running
// never ran the shell.
func (m *Manager) shellExited(ctx context.Context, id identity.Identity, err error) bool {
	code := system.ExitCode(err)
	if code < 0 || (code >= 125 && code <= 127) {
		return false
	}
	if code > 0 {
		state, serr := container.Observe(ctx, m.Runtime, id.ContainerName)
		if serr != nil || state != container.Running {
			logging.Debug("container gone after exec", "container", id.ContainerName, "code", code, "state", state)
			return false
		}
	}
	logging.Debug("shell exited", "container", id.ContainerName, "code", code)
	return true
}

// Kill removes the container and then the worktree of label.
func (m *Manager) Kill(ctx context.Context, label string) error {
	branch, err := BranchID(label)
	if err != nil {
		return err
	}
	slot, found, err := m.Index.Find(branch)
	if err != nil {
		return err
	}
	if !found {
		return ferrors.WorktreeNotFound(branch)
	}
	id := identity.For(m.Repo, branch, slot.Port)

	ok, err := m.confirm(ctx, "Kill environment", []Field{
		{"Container", id.ContainerName},
		{"Worktree", id.WorktreePath},
		{"Port", strconv.Itoa(id.Port)},
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}

	state, err := container.Observe(ctx, m.Runtime, id.ContainerName)
	if err != nil {
		return err
	}
	switch state {
	case container.Running:
		if err := m.Runtime.Stop(ctx, id.ContainerName); err != nil {
			return ferrors.ContainerFailed("stop", err)
		}
		fallthrough
	case container.Stopped:
		if err := m.Runtime.Remove(ctx, id.ContainerName); err != nil {
			return ferrors.ContainerFailed("remove", err)
		}
		logging.UserSuccess("Removed container %s", id.ContainerName)
	case container.Absent:
		logging.UserInfo("Container %s not found, skipping", id.ContainerName)
	}

	if err := m.Index.Remove(ctx, slot); err != nil {
		return err
	}
	m.Journal.Record(audit.EventKill, id.Branch, id.Port, "")
	logging.UserSuccess("Removed worktree %s", id.WorktreePath)
	return nil
}

func (m *Manager) confirm(ctx context.Context, title string, fields []Field) (bool, error) {
	if m.AssumeYes {
		return true, nil
	}
	return m.Prompter.Confirm(ctx, title, fields)
}
