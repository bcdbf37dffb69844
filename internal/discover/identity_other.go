//go:build !unix

package discover

import "os"

// dirID falls back to os.SameFile where inode numbers are unavailable.
type dirID struct {
	info os.FileInfo
}

type dirTracker struct {
	stack   []dirID
	entered []dirID
}

func newDirTracker() *dirTracker {
	return &dirTracker{}
}

func (t *dirTracker) identify(abs string) (dirID, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return dirID{}, err
	}
	return dirID{info: info}, nil
}

func contains(ids []dirID, id dirID) bool {
	for _, a := range ids {
		if os.SameFile(a.info, id.info) {
			return true
		}
	}
	return false
}

func (t *dirTracker) onStack(id dirID) bool { return contains(t.stack, id) }

func (t *dirTracker) seen(id dirID) bool { return contains(t.entered, id) }

func (t *dirTracker) push(id dirID) {
	t.stack = append(t.stack, id)
	t.entered = append(t.entered, id)
}

func (t *dirTracker) pop() {
	t.stack = t.stack[:len(t.stack)-1]
}
