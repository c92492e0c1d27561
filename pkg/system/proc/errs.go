package proc

import "errors"

var (
	// ErrNoProc indicates that /proc/<pid> vanished (process exited).
	ErrNoProc = errors.New("proc: no such process")

	// ErrNoProcfs indicates that the procfs root itself could not be read.
	ErrNoProcfs = errors.New("proc: procfs not accessible")

	// ErrNoFDInfo indicates that /proc/<pid>/fdinfo/<fd> was missing a pos
	// or flags field.
	ErrNoFDInfo = errors.New("proc: malformed fdinfo")

	// ErrNotRegular indicates that a descriptor points to something without
	// a meaningful size (pipe, socket, device, anonymous inode).
	ErrNotRegular = errors.New("proc: not a regular file")

	// ErrNoCommand indicates that neither exe nor comm could be resolved
	// for a process.
	ErrNoCommand = errors.New("proc: no command name")
)
