package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ironsweet/docvalues/core/util"
)

const BUFFER_SIZE = 1024

/*
Directory implementation that stores index files in the file system.
Each OpenInput() opens its own file handle and reads it with ReadAt,
so clones keep independent positions.
*/
type FSDirectory struct {
	*DirectoryImpl
	sync.Mutex
	path       string
	staleFiles map[string]bool
	chunkSize  int
}

func NewFSDirectory(path string) (*FSDirectory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("file '%v' exists but is not a directory", abs)
	}
	if err = os.MkdirAll(abs, 0755); err != nil {
		return nil, err
	}
	ans := &FSDirectory{
		path:       abs,
		staleFiles: make(map[string]bool),
		chunkSize:  BUFFER_SIZE,
	}
	ans.DirectoryImpl = NewDirectoryImpl(ans)
	return ans, nil
}

func (d *FSDirectory) Directory() string { return d.path }

func (d *FSDirectory) ListAll() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *FSDirectory) FileExists(name string) bool {
	_, err := os.Stat(filepath.Join(d.path, name))
	return err == nil
}

func (d *FSDirectory) FileLength(name string) (int64, error) {
	fi, err := os.Stat(filepath.Join(d.path, name))
	if os.IsNotExist(err) {
		return 0, fmt.Errorf("%v: %v", ErrFileNotFound, name)
	} else if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (d *FSDirectory) DeleteFile(name string) error {
	if err := os.Remove(filepath.Join(d.path, name)); err != nil {
		return err
	}
	d.Lock()
	delete(d.staleFiles, name)
	d.Unlock()
	return nil
}

func (d *FSDirectory) CreateOutput(name string, ctx IOContext) (IndexOutput, error) {
	file, err := os.OpenFile(filepath.Join(d.path, name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	d.Lock()
	d.staleFiles[name] = true
	d.Unlock()
	return newFSIndexOutput(name, file), nil
}

func (d *FSDirectory) Sync(names []string) error {
	d.Lock()
	toSync := make([]string, 0, len(names))
	for _, name := range names {
		if d.staleFiles[name] {
			toSync = append(toSync, name)
		}
	}
	d.Unlock()

	for _, name := range toSync {
		if err := d.fsync(name); err != nil {
			return err
		}
		d.Lock()
		delete(d.staleFiles, name)
		d.Unlock()
	}
	return nil
}

func (d *FSDirectory) fsync(name string) error {
	f, err := os.OpenFile(filepath.Join(d.path, name), os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

func (d *FSDirectory) OpenInput(name string, ctx IOContext) (IndexInput, error) {
	path := filepath.Join(d.path, name)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%v: %v", ErrFileNotFound, name)
	} else if err != nil {
		return nil, err
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	desc := fmt.Sprintf("FSIndexInput(path='%v')", path)
	return newFSIndexInput(desc, file, fi.Size(), d.chunkSize), nil
}

func (d *FSDirectory) Close() error { return nil }

func (d *FSDirectory) String() string {
	return fmt.Sprintf("FSDirectory@%v", d.path)
}

/*
Reads an os.File through a private buffer. Clones share the file
handle and never close it; only the original does.
*/
type FSIndexInput struct {
	*IndexInputImpl
	file    *os.File
	isClone bool
	length  int64

	buffer      []byte
	bufferStart int64 // position in file of buffer
	bufferLen   int
	bufferPos   int
}

func newFSIndexInput(desc string, file *os.File, length int64, bufferSize int) *FSIndexInput {
	ans := &FSIndexInput{
		file:   file,
		length: length,
		buffer: make([]byte, bufferSize),
	}
	ans.IndexInputImpl = NewIndexInputImpl(desc, ans)
	return ans
}

func (in *FSIndexInput) refill() error {
	start := in.bufferStart + int64(in.bufferPos)
	end := start + int64(len(in.buffer))
	if end > in.length {
		end = in.length
	}
	if start >= end {
		return fmt.Errorf("%v: %v", ErrReadPastEOF, in)
	}
	n, err := in.file.ReadAt(in.buffer[:end-start], start)
	if err != nil && err != io.EOF {
		return err
	}
	if int64(n) != end-start {
		return fmt.Errorf("%v: %v", ErrReadPastEOF, in)
	}
	in.bufferStart = start
	in.bufferLen = n
	in.bufferPos = 0
	return nil
}

func (in *FSIndexInput) ReadByte() (byte, error) {
	if in.bufferPos >= in.bufferLen {
		if err := in.refill(); err != nil {
			return 0, err
		}
	}
	in.bufferPos++
	return in.buffer[in.bufferPos-1], nil
}

func (in *FSIndexInput) ReadBytes(buf []byte) error {
	for len(buf) > 0 {
		if in.bufferPos >= in.bufferLen {
			if err := in.refill(); err != nil {
				return err
			}
		}
		n := copy(buf, in.buffer[in.bufferPos:in.bufferLen])
		in.bufferPos += n
		buf = buf[n:]
	}
	return nil
}

func (in *FSIndexInput) FilePointer() int64 {
	return in.bufferStart + int64(in.bufferPos)
}

func (in *FSIndexInput) Seek(pos int64) error {
	if pos < 0 || pos > in.length {
		return fmt.Errorf("seek position %v out of bounds [0,%v]: %v", pos, in.length, in)
	}
	if pos >= in.bufferStart && pos < in.bufferStart+int64(in.bufferLen) {
		in.bufferPos = int(pos - in.bufferStart)
	} else {
		in.bufferStart = pos
		in.bufferPos = 0
		in.bufferLen = 0
	}
	return nil
}

func (in *FSIndexInput) Length() int64 { return in.length }

func (in *FSIndexInput) Clone() IndexInput {
	ans := newFSIndexInput(in.desc, in.file, in.length, len(in.buffer))
	ans.isClone = true
	ans.bufferStart = in.FilePointer()
	return ans
}

func (in *FSIndexInput) Close() error {
	if in.isClone {
		return nil
	}
	return in.file.Close()
}

/* Buffered, checksummed writer over an os.File. */
type FSIndexOutput struct {
	*IndexOutputImpl
	*checksumTracker
	name   string
	file   *os.File
	writer *bufio.Writer
}

func newFSIndexOutput(name string, file *os.File) *FSIndexOutput {
	ans := &FSIndexOutput{
		checksumTracker: newChecksumTracker(),
		name:            name,
		file:            file,
		writer:          bufio.NewWriterSize(file, 8192),
	}
	ans.IndexOutputImpl = newIndexOutput(ans)
	return ans
}

func (out *FSIndexOutput) WriteByte(b byte) error {
	if err := out.writer.WriteByte(b); err != nil {
		return err
	}
	out.update([]byte{b})
	return nil
}

func (out *FSIndexOutput) WriteBytes(buf []byte) error {
	if _, err := out.writer.Write(buf); err != nil {
		return err
	}
	out.update(buf)
	return nil
}

func (out *FSIndexOutput) Close() error {
	err := out.writer.Flush()
	return util.CloseWhileHandlingError(err, out.file)
}

func (out *FSIndexOutput) String() string {
	return fmt.Sprintf("FSIndexOutput(name=%v)", out.name)
}
