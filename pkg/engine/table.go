//go:build linux

package engine

import (
	"errors"

	"filepace/pkg/system/proc"
	"filepace/pkg/types"
)

// ProcessTable abstracts the OS process table. Every method is a fallible
// snapshot query of constantly-changing kernel state; results are stale
// the moment they return.
type ProcessTable interface {
	// PIDs lists the live process table in stable (ascending) order.
	PIDs() ([]int, error)
	// Alive reports whether a PID currently exists.
	Alive(pid int) bool
	// Command resolves a process's executable name.
	Command(pid int) (string, error)
	// OpenFiles enumerates a process's seekable regular open files.
	// A vanished process yields proc.ErrNoProc.
	OpenFiles(pid int) ([]OpenFile, error)
}

// ProcfsTable returns the live procfs-backed process table.
func ProcfsTable() ProcessTable { return procfsTable{} }

type procfsTable struct{}

func (procfsTable) PIDs() ([]int, error) { return proc.ListPIDs() }

func (procfsTable) Alive(pid int) bool { return proc.Exists(pid) }

func (procfsTable) Command(pid int) (string, error) { return proc.CommandName(pid) }

func (procfsTable) OpenFiles(pid int) ([]OpenFile, error) {
	fds, err := proc.ListFDs(pid)
	if err != nil {
		return nil, err
	}

	files := make([]OpenFile, 0, len(fds))
	for _, fd := range fds {
		path, err := proc.FDPath(pid, fd)
		if err != nil {
			if errors.Is(err, proc.ErrNoProc) {
				return nil, err
			}
			continue // pipe, socket, anon inode, or vanished descriptor
		}

		info, err := proc.ReadFDInfo(pid, fd)
		if err != nil {
			if errors.Is(err, proc.ErrNoProc) {
				return nil, err
			}
			continue
		}

		size, err := proc.FDSize(pid, fd)
		if err != nil {
			if errors.Is(err, proc.ErrNoProc) {
				return nil, err
			}
			continue // device, directory, or vanished between listing and stat
		}

		files = append(files, OpenFile{
			FD:        fd,
			Path:      path,
			Offset:    types.Bytes(info.Pos),
			Size:      types.Bytes(size),
			SizeKnown: size > 0,
			Mode:      info.Mode(),
			Append:    info.Append(),
		})
	}
	return files, nil
}
