package store

import (
	"fmt"
	"sort"
	"sync"
)

/*
A delegating Directory that records which files were written to and deleted.
*/
type TrackingDirectoryWrapper struct {
	Directory
	sync.Locker
	createdFilenames map[string]bool // synchronized
}

func NewTrackingDirectoryWrapper(other Directory) *TrackingDirectoryWrapper {
	return &TrackingDirectoryWrapper{
		Directory:        other,
		Locker:           &sync.Mutex{},
		createdFilenames: make(map[string]bool),
	}
}

func (w *TrackingDirectoryWrapper) DeleteFile(name string) error {
	func() {
		w.Lock()
		defer w.Unlock()
		delete(w.createdFilenames, name)
	}()
	return w.Directory.DeleteFile(name)
}

func (w *TrackingDirectoryWrapper) CreateOutput(name string, ctx IOContext) (IndexOutput, error) {
	func() {
		w.Lock()
		defer w.Unlock()
		w.createdFilenames[name] = true
	}()
	return w.Directory.CreateOutput(name, ctx)
}

func (w *TrackingDirectoryWrapper) String() string {
	return fmt.Sprintf("TrackingDirectoryWrapper(%v)", w.Directory)
}

/* Returns the names of files created through this wrapper, sorted. */
func (w *TrackingDirectoryWrapper) CreatedFiles() []string {
	w.Lock()
	defer w.Unlock()
	names := make([]string, 0, len(w.createdFilenames))
	for name := range w.createdFilenames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (w *TrackingDirectoryWrapper) ContainsFile(name string) bool {
	w.Lock()
	defer w.Unlock()
	_, ok := w.createdFilenames[name]
	return ok
}
