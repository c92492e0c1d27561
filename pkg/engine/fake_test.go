//go:build linux

package engine

import (
	"sort"
	"sync"
	"time"
)

// fakeTable is an in-memory ProcessTable for deterministic engine tests.
type fakeTable struct {
	mu       sync.Mutex
	procs    map[int]string     // pid -> command
	files    map[int][]OpenFile // pid -> candidates
	filesErr map[int]error
	filesLag map[int]time.Duration
	pidsErr  error
	pidsLag  time.Duration
	cmdErr   map[int]error
}

func newFakeTable() *fakeTable {
	return &fakeTable{
		procs:    make(map[int]string),
		files:    make(map[int][]OpenFile),
		filesErr: make(map[int]error),
		filesLag: make(map[int]time.Duration),
		cmdErr:   make(map[int]error),
	}
}

func (f *fakeTable) addProc(pid int, cmd string, files ...OpenFile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs[pid] = cmd
	f.files[pid] = files
}

func (f *fakeTable) setFiles(pid int, files ...OpenFile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[pid] = files
}

func (f *fakeTable) kill(pid int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.procs, pid)
	delete(f.files, pid)
}

func (f *fakeTable) PIDs() ([]int, error) {
	f.mu.Lock()
	lag := f.pidsLag
	err := f.pidsErr
	pids := make([]int, 0, len(f.procs))
	for pid := range f.procs {
		pids = append(pids, pid)
	}
	f.mu.Unlock()

	if lag > 0 {
		time.Sleep(lag)
	}
	if err != nil {
		return nil, err
	}
	sort.Ints(pids)
	return pids, nil
}

func (f *fakeTable) Alive(pid int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.procs[pid]
	return ok
}

func (f *fakeTable) Command(pid int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.cmdErr[pid]; err != nil {
		return "", err
	}
	cmd, ok := f.procs[pid]
	if !ok {
		return "", ErrNoSuchPID
	}
	return cmd, nil
}

func (f *fakeTable) OpenFiles(pid int) ([]OpenFile, error) {
	f.mu.Lock()
	lag := f.filesLag[pid]
	err := f.filesErr[pid]
	files, ok := f.files[pid]
	f.mu.Unlock()

	if lag > 0 {
		time.Sleep(lag)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSuchPID
	}
	out := make([]OpenFile, len(files))
	copy(out, files)
	return out, nil
}
