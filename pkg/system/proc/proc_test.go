//go:build linux

package proc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_EnvOverride(t *testing.T) {
	t.Setenv("PROC_ROOT", "")
	assert.Equal(t, "/proc", Root())

	t.Setenv("PROC_ROOT", "/tmp/fakeproc")
	assert.Equal(t, "/tmp/fakeproc", Root())
}

func TestExists(t *testing.T) {
	t.Setenv("PROC_ROOT", "")
	assert.True(t, Exists(os.Getpid()), "current PID should exist")
	assert.False(t, Exists(999999999), "very large PID should not exist")
}

func TestListPIDs_Self(t *testing.T) {
	t.Setenv("PROC_ROOT", "")
	pids, err := ListPIDs()
	require.NoError(t, err)
	require.NotEmpty(t, pids)

	// sorted ascending and contains us
	me := os.Getpid()
	found := false
	for i, pid := range pids {
		assert.Greater(t, pid, 0)
		if i > 0 {
			assert.Greater(t, pid, pids[i-1], "PIDs must be sorted")
		}
		if pid == me {
			found = true
		}
	}
	assert.True(t, found, "own PID should be listed")
}

func TestListPIDs_BadRoot(t *testing.T) {
	t.Setenv("PROC_ROOT", "/definitely/not/a/procfs")
	_, err := ListPIDs()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProcfs))
}

func TestListPIDs_SkipsNonNumeric(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "42"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sys"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uptime"), []byte("1 1\n"), 0o644))

	t.Setenv("PROC_ROOT", dir)
	pids, err := ListPIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{42}, pids)
}

func TestCommandName_Self(t *testing.T) {
	t.Setenv("PROC_ROOT", "")
	name, err := CommandName(os.Getpid())
	require.NoError(t, err)
	assert.NotEmpty(t, name)
	// exe basename must not carry a path
	assert.NotContains(t, name, "/")
}

func TestCommandName_NoSuchPid(t *testing.T) {
	t.Setenv("PROC_ROOT", "")
	_, err := CommandName(999999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProc))
}

func TestCommandName_CommFallback(t *testing.T) {
	// A synthetic process dir with no exe link but a comm file.
	dir := t.TempDir()
	pdir := filepath.Join(dir, "77")
	require.NoError(t, os.Mkdir(pdir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pdir, "comm"), []byte("fakecp\n"), 0o644))

	t.Setenv("PROC_ROOT", dir)
	name, err := CommandName(77)
	require.NoError(t, err)
	assert.Equal(t, "fakecp", name)
}
