//go:build unix

package discover

import (
	"golang.org/x/sys/unix"
)

type dirID struct {
	dev uint64
	ino uint64
}

// dirTracker knows the directories on the current walk path and every
// directory entered so far, both by device and inode.
type dirTracker struct {
	stack   []dirID
	entered map[dirID]struct{}
}

func newDirTracker() *dirTracker {
	return &dirTracker{entered: make(map[dirID]struct{})}
}

func (t *dirTracker) identify(abs string) (dirID, error) {
	var st unix.Stat_t
	if err := unix.Stat(abs, &st); err != nil {
		return dirID{}, err
	}
	return dirID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, nil //nolint:unconvert // Dev/Ino width differs per GOOS
}

func (t *dirTracker) onStack(id dirID) bool {
	for _, a := range t.stack {
		if a == id {
			return true
		}
	}
	return false
}

func (t *dirTracker) seen(id dirID) bool {
	_, ok := t.entered[id]
	return ok
}

func (t *dirTracker) push(id dirID) {
	t.stack = append(t.stack, id)
	t.entered[id] = struct{}{}
}

func (t *dirTracker) pop() {
	t.stack = t.stack[:len(t.stack)-1]
}
