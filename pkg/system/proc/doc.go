// Package proc provides lightweight, read-only procfs queries on Linux for
// observing the open files of already-running processes. It is designed to
// feed the progress estimation engine (see pkg/engine).
//
// Every function models a single fallible snapshot read of kernel state:
// processes and descriptors appear and vanish at any time, so callers must
// treat any error as "gone right now" rather than a permanent condition.
//
//   - Process queries: ListPIDs, Exists, CommandName.
//   - Descriptor queries: ListFDs, FDPath, ReadFDInfo, FDSize.
//
// Offsets come from /proc/<pid>/fdinfo/<fd> (pos and flags fields, flags in
// octal); sizes from stat(2) through the /proc/<pid>/fd/<fd> symlink. Only
// regular files qualify for FDSize; pipes, sockets and devices report
// ErrNotRegular.
//
// The procfs root can be overridden with the PROC_ROOT env var, which lets
// tests run against a synthetic tree without privileges.
package proc
