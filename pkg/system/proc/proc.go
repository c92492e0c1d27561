//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Root returns the procfs mount point. It first checks the env var
// PROC_ROOT (useful for testing against a synthetic tree), otherwise
// falls back to /proc.
func Root() string {
	if r := os.Getenv("PROC_ROOT"); r != "" {
		return r
	}
	return "/proc"
}

// Exists reports whether a given PID currently exists in procfs.
// It simply checks if <root>/<pid> is a valid directory.
func Exists(pid int) bool {
	fi, err := os.Stat(filepath.Join(Root(), strconv.Itoa(pid)))
	return err == nil && fi.IsDir()
}

// ListPIDs enumerates the live process table by scanning procfs for
// numeric directory entries. The result is sorted ascending so callers
// get a stable iteration order across ticks.
func ListPIDs() ([]int, error) {
	entries, err := os.ReadDir(Root())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoProcfs, err)
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}

// CommandName resolves the executable name of a process. It prefers the
// basename of the <root>/<pid>/exe symlink; when that is unreadable
// (typically a permission issue on someone else's process) it falls back
// to <root>/<pid>/comm.
func CommandName(pid int) (string, error) {
	dir := filepath.Join(Root(), strconv.Itoa(pid))

	if link, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		if name := filepath.Base(link); name != "" && name != "." {
			// a replaced binary shows up as "name (deleted)"
			return strings.TrimSuffix(name, " (deleted)"), nil
		}
	}

	if b, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
		if name := strings.TrimSpace(string(b)); name != "" {
			return name, nil
		}
	}

	if !Exists(pid) {
		return "", ErrNoProc
	}
	return "", ErrNoCommand
}
