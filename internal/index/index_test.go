package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/identity"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/workspace"
)

const wtDir = "/src/app.worktrees"

func newIndex(t *testing.T) (*DirIndex, *system.MockFS, *workspace.MockBackend) {
	t.Helper()
	fs := system.NewMockFS()
	fs.AddDir("/src/app/.git")
	vcs := workspace.NewMockBackend(fs)
	return New(identity.NewRepo("/src/app"), fs, vcs), fs, vcs
}

func noAsk() (string, error) {
	return "", errors.New("should not prompt")
}

func TestList_AbsentDirectory(t *testing.T) {
	x, _, _ := newIndex(t)

	slots, err := x.List()
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, found, err := x.Find("anything")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestList_Ordered(t *testing.T) {
	x, fs, _ := newIndex(t)
	fs.AddDir(wtDir + "/9001/beta")
	fs.AddDir(wtDir + "/9000/alpha")
	fs.AddDir(wtDir + "/9000/gamma")
	fs.AddDir(wtDir + "/scratch/ignored")
	fs.AddFile(wtDir+"/9000/NOTES", nil, 0644)

	slots, err := x.List()
	require.NoError(t, err)

	assert.Equal(t, []Slot{
		{Port: 9000, Branch: "alpha", Path: wtDir + "/9000/alpha"},
		{Port: 9000, Branch: "gamma", Path: wtDir + "/9000/gamma"},
		{Port: 9001, Branch: "beta", Path: wtDir + "/9001/beta"},
	}, slots)
}

func TestSlots_StopsEarly(t *testing.T) {
	x, fs, _ := newIndex(t)
	fs.AddDir(wtDir + "/9000/a")
	fs.AddDir(wtDir + "/9001/b")

	count := 0
	for _, err := range x.Slots() {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestFind(t *testing.T) {
	x, fs, _ := newIndex(t)
	fs.AddDir(wtDir + "/9000/alpha")
	fs.AddDir(wtDir + "/9003/feature-auth")

	slot, found, err := x.Find("feature-auth")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 9003, slot.Port)
	assert.Equal(t, wtDir+"/9003", slot.PortDir())

	_, found, err = x.Find("feature")
	require.NoError(t, err)
	assert.False(t, found, "prefix must not match")
}

func TestFind_ScanError(t *testing.T) {
	x, fs, _ := newIndex(t)
	fs.AddDir(wtDir)
	fs.ReadDirErr = errors.New("permission denied")

	_, _, err := x.Find("x")
	require.Error(t, err)
	assert.True(t, ferrors.IsKind(err, ferrors.KindWorkspace))
}

func TestAllocatePort_MaxPlusOne(t *testing.T) {
	x, fs, _ := newIndex(t)
	fs.AddDir(wtDir + "/9000/a")
	fs.AddDir(wtDir + "/9003/b")
	fs.AddDir(wtDir + "/9001/c")

	p, err := x.AllocatePort(noAsk)
	require.NoError(t, err)
	assert.Equal(t, 9004, p)
}

func TestAllocatePort_AsksWhenEmpty(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"accepted", "9000", 9000, false},
		{"out of range", "99999", 0, true},
		{"non-numeric", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, _, _ := newIndex(t)
			asked := 0
			p, err := x.AllocatePort(func() (string, error) {
				asked++
				return tt.input, nil
			})

			assert.Equal(t, 1, asked)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ferrors.IsKind(err, ferrors.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestAllocatePort_IgnoresNonNumericOnly(t *testing.T) {
	x, fs, _ := newIndex(t)
	fs.AddDir(wtDir + "/tmp")

	p, err := x.AllocatePort(func() (string, error) { return "8000", nil })
	require.NoError(t, err)
	assert.Equal(t, 8000, p)
}

func TestAllocatePort_IgnoresNamesOutsidePortRange(t *testing.T) {
	for _, name := range []string{"0", "80", "-5", "+9000", "09000", "70000"} {
		t.Run(name, func(t *testing.T) {
			x, fs, _ := newIndex(t)
			fs.AddDir(wtDir + "/" + name + "/stray")

			p, err := x.AllocatePort(func() (string, error) { return "8000", nil })
			require.NoError(t, err)
			assert.Equal(t, 8000, p)

			slots, err := x.List()
			require.NoError(t, err)
			assert.Empty(t, slots)
		})
	}
}

func TestReserve(t *testing.T) {
	x, fs, _ := newIndex(t)

	dir, err := x.Reserve(9000)
	require.NoError(t, err)
	assert.Equal(t, wtDir+"/9000", dir)
	assert.True(t, fs.IsDir(dir))
}

func TestRemove_ReclaimsEmptiedPortOnly(t *testing.T) {
	x, fs, vcs := newIndex(t)
	ctx := context.Background()
	fs.AddDir(wtDir + "/9000/alpha")
	fs.AddDir(wtDir + "/9001/beta")
	fs.AddDir(wtDir + "/9001/delta")

	require.NoError(t, x.Remove(ctx, Slot{Port: 9000, Branch: "alpha", Path: wtDir + "/9000/alpha"}))
	assert.False(t, fs.Exists(wtDir+"/9000"), "emptied port slot must be reclaimed")
	assert.True(t, fs.Exists(wtDir+"/9001/beta"))

	require.NoError(t, x.Remove(ctx, Slot{Port: 9001, Branch: "beta", Path: wtDir + "/9001/beta"}))
	assert.True(t, fs.Exists(wtDir+"/9001"), "port slot with remaining branch must stay")
	assert.True(t, fs.Exists(wtDir+"/9001/delta"))

	assert.Equal(t, []string{
		"RemoveWorktree " + wtDir + "/9000/alpha force=true",
		"RemoveWorktree " + wtDir + "/9001/beta force=true",
	}, vcs.Calls())
}

func TestRemove_ReclaimedHighestPortIsReused(t *testing.T) {
	x, fs, _ := newIndex(t)
	fs.AddDir(wtDir + "/9000/a")
	fs.AddDir(wtDir + "/9001/b")

	require.NoError(t, x.Remove(context.Background(), Slot{Port: 9001, Branch: "b", Path: wtDir + "/9001/b"}))

	p, err := x.AllocatePort(noAsk)
	require.NoError(t, err)
	assert.Equal(t, 9001, p)
}

func TestRemove_WorktreeError(t *testing.T) {
	x, fs, vcs := newIndex(t)
	fs.AddDir(wtDir + "/9000/a")
	vcs.Errors["RemoveWorktree"] = errors.New("locked")

	err := x.Remove(context.Background(), Slot{Port: 9000, Branch: "a", Path: wtDir + "/9000/a"})
	require.Error(t, err)
	assert.True(t, ferrors.IsKind(err, ferrors.KindWorkspace))
	assert.True(t, fs.Exists(wtDir+"/9000/a"))
}
