package store

import (
	"fmt"
	"sort"
	"sync"
)

/* Represents a file in RAM as a single growing byte slice. */
type RAMFile struct {
	sync.RWMutex
	data []byte
}

func (f *RAMFile) Length() int64 {
	f.RLock()
	defer f.RUnlock()
	return int64(len(f.data))
}

func (f *RAMFile) snapshot() []byte {
	f.RLock()
	defer f.RUnlock()
	return f.data
}

/*
A memory-resident Directory implementation. Locking implementation
is by default the SingleInstanceLockFactory.

Files are immutable once their output is closed; readers see the bytes
flushed at the time OpenInput is called.
*/
type RAMDirectory struct {
	*DirectoryImpl
	sync.RWMutex
	fileMap     map[string]*RAMFile
	sizeInBytes int64
	closed      bool
}

func NewRAMDirectory() *RAMDirectory {
	ans := &RAMDirectory{fileMap: make(map[string]*RAMFile)}
	ans.DirectoryImpl = NewDirectoryImpl(ans)
	return ans
}

func (rd *RAMDirectory) ensureOpen() {
	assert2(!rd.closed, "this Directory is closed")
}

func (rd *RAMDirectory) ListAll() (names []string, err error) {
	rd.RLock()
	defer rd.RUnlock()
	rd.ensureOpen()
	names = make([]string, 0, len(rd.fileMap))
	for name := range rd.fileMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (rd *RAMDirectory) FileExists(name string) bool {
	rd.RLock()
	defer rd.RUnlock()
	rd.ensureOpen()
	_, ok := rd.fileMap[name]
	return ok
}

func (rd *RAMDirectory) FileLength(name string) (int64, error) {
	rd.RLock()
	defer rd.RUnlock()
	rd.ensureOpen()
	if file, ok := rd.fileMap[name]; ok {
		return file.Length(), nil
	}
	return 0, fmt.Errorf("%v: %v", ErrFileNotFound, name)
}

/* Return total size in bytes of all files in this directory. */
func (rd *RAMDirectory) RamBytesUsed() int64 {
	rd.RLock()
	defer rd.RUnlock()
	rd.ensureOpen()
	return rd.sizeInBytes
}

func (rd *RAMDirectory) DeleteFile(name string) error {
	rd.Lock()
	defer rd.Unlock()
	rd.ensureOpen()
	file, ok := rd.fileMap[name]
	if !ok {
		return fmt.Errorf("%v: %v", ErrFileNotFound, name)
	}
	rd.sizeInBytes -= file.Length()
	delete(rd.fileMap, name)
	return nil
}

func (rd *RAMDirectory) CreateOutput(name string, context IOContext) (IndexOutput, error) {
	rd.Lock()
	defer rd.Unlock()
	rd.ensureOpen()
	if existing, ok := rd.fileMap[name]; ok {
		rd.sizeInBytes -= existing.Length()
		delete(rd.fileMap, name)
	}
	file := &RAMFile{}
	rd.fileMap[name] = file
	return newRAMOutputStream(rd, name, file), nil
}

func (rd *RAMDirectory) Sync(names []string) error {
	return nil
}

func (rd *RAMDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	rd.RLock()
	defer rd.RUnlock()
	rd.ensureOpen()
	file, ok := rd.fileMap[name]
	if !ok {
		return nil, fmt.Errorf("%v: %v", ErrFileNotFound, name)
	}
	return NewByteSliceIndexInput(fmt.Sprintf("RAMInputStream(name=%v)", name), file.snapshot()), nil
}

/* Closes the store to future operations, releasing associated memory. */
func (rd *RAMDirectory) Close() error {
	rd.Lock()
	defer rd.Unlock()
	rd.closed = true
	rd.fileMap = nil
	return nil
}

func (rd *RAMDirectory) String() string {
	return fmt.Sprintf("RAMDirectory@%p", rd)
}

/* IndexOutput appending to a RAMFile. */
type RAMOutputStream struct {
	*IndexOutputImpl
	*checksumTracker
	dir  *RAMDirectory
	name string
	file *RAMFile
}

func newRAMOutputStream(dir *RAMDirectory, name string, f *RAMFile) *RAMOutputStream {
	ans := &RAMOutputStream{
		checksumTracker: newChecksumTracker(),
		dir:             dir,
		name:            name,
		file:            f,
	}
	ans.IndexOutputImpl = newIndexOutput(ans)
	return ans
}

func (out *RAMOutputStream) WriteByte(b byte) error {
	return out.WriteBytes([]byte{b})
}

func (out *RAMOutputStream) WriteBytes(buf []byte) error {
	out.file.Lock()
	out.file.data = append(out.file.data, buf...)
	out.file.Unlock()
	out.update(buf)
	out.dir.Lock()
	out.dir.sizeInBytes += int64(len(buf))
	out.dir.Unlock()
	return nil
}

func (out *RAMOutputStream) Close() error {
	return nil
}

func (out *RAMOutputStream) String() string {
	return fmt.Sprintf("RAMOutputStream(name=%v)", out.name)
}
