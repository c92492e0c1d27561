//go:build linux

package proc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// AccessMode is the open mode of a descriptor, decoded from the fdinfo
// flags field (best-effort).
type AccessMode int

const (
	ReadOnly AccessMode = iota
	WriteOnly
	ReadWrite
)

func (m AccessMode) String() string {
	switch m {
	case WriteOnly:
		return "write"
	case ReadWrite:
		return "read-write"
	default:
		return "read"
	}
}

// FDInfo is the parsed content of /proc/<pid>/fdinfo/<fd>.
type FDInfo struct {
	Pos   uint64 // current byte offset
	Flags uint64 // open(2) flags, as reported by the kernel
}

// Mode decodes the access-mode bits of the open flags.
func (i FDInfo) Mode() AccessMode {
	switch i.Flags & unix.O_ACCMODE {
	case unix.O_WRONLY:
		return WriteOnly
	case unix.O_RDWR:
		return ReadWrite
	default:
		return ReadOnly
	}
}

// Append reports whether the descriptor was opened with O_APPEND.
func (i FDInfo) Append() bool { return i.Flags&unix.O_APPEND != 0 }

// ListFDs enumerates the open descriptor numbers of a process, sorted
// ascending. A vanished process yields ErrNoProc.
func ListFDs(pid int) ([]int, error) {
	dir := filepath.Join(Root(), strconv.Itoa(pid), "fd")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !Exists(pid) {
			return nil, ErrNoProc
		}
		return nil, fmt.Errorf("proc: list fds of pid %d: %w", pid, err)
	}
	fds := make([]int, 0, len(entries))
	for _, e := range entries {
		fd, err := strconv.Atoi(e.Name())
		if err != nil || fd < 0 {
			continue
		}
		fds = append(fds, fd)
	}
	sort.Ints(fds)
	return fds, nil
}

// FDPath resolves the filesystem path behind a descriptor. Descriptors
// without a real path (pipes, sockets, anonymous inodes) resolve to
// pseudo names like "pipe:[123]"; those yield ErrNotRegular.
func FDPath(pid, fd int) (string, error) {
	link, err := os.Readlink(filepath.Join(Root(), strconv.Itoa(pid), "fd", strconv.Itoa(fd)))
	if err != nil {
		if !Exists(pid) {
			return "", ErrNoProc
		}
		return "", fmt.Errorf("proc: readlink fd %d of pid %d: %w", fd, pid, err)
	}
	if !strings.HasPrefix(link, "/") {
		return "", ErrNotRegular
	}
	return strings.TrimSuffix(link, " (deleted)"), nil
}

// ReadFDInfo parses the pos and flags fields of /proc/<pid>/fdinfo/<fd>.
// The flags field is octal per proc(5).
func ReadFDInfo(pid, fd int) (FDInfo, error) {
	f, err := os.Open(filepath.Join(Root(), strconv.Itoa(pid), "fdinfo", strconv.Itoa(fd)))
	if err != nil {
		if !Exists(pid) {
			return FDInfo{}, ErrNoProc
		}
		return FDInfo{}, fmt.Errorf("proc: open fdinfo %d of pid %d: %w", fd, pid, err)
	}
	defer f.Close()

	var (
		info           FDInfo
		gotPos, gotFlg bool
	)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "pos:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "pos:"))
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				info.Pos = n
				gotPos = true
			}
		case strings.HasPrefix(line, "flags:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "flags:"))
			if n, err := strconv.ParseUint(v, 8, 64); err == nil {
				info.Flags = n
				gotFlg = true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return FDInfo{}, fmt.Errorf("proc: scan fdinfo %d of pid %d: %w", fd, pid, err)
	}
	if !gotPos || !gotFlg {
		return FDInfo{}, ErrNoFDInfo
	}
	return info, nil
}

// FDSize stats the file behind a descriptor and returns its total size.
// Only regular files qualify; anything else (devices, directories,
// sockets that survived the FDPath filter) reports ErrNotRegular.
func FDSize(pid, fd int) (uint64, error) {
	fi, err := os.Stat(filepath.Join(Root(), strconv.Itoa(pid), "fd", strconv.Itoa(fd)))
	if err != nil {
		if !Exists(pid) {
			return 0, ErrNoProc
		}
		return 0, fmt.Errorf("proc: stat fd %d of pid %d: %w", fd, pid, err)
	}
	if !fi.Mode().IsRegular() {
		return 0, ErrNotRegular
	}
	return uint64(fi.Size()), nil
}
