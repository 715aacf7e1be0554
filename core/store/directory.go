package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/ironsweet/docvalues/core/util"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("store")

const (
	IO_CONTEXT_TYPE_READ    = 2
	IO_CONTEXT_TYPE_FLUSH   = 3
	IO_CONTEXT_TYPE_DEFAULT = 4
)

type IOContextType int

var (
	IO_CONTEXT_DEFAULT  = IOContext{context: IO_CONTEXT_TYPE_DEFAULT}
	IO_CONTEXT_READONCE = NewIOContextBool(true)
	IO_CONTEXT_READ     = NewIOContextBool(false)
)

/*
IOContext holds additional details on the flush/search context. It
is passed by value to either OpenInput() or CreateOutput().
*/
type IOContext struct {
	context   IOContextType
	FlushInfo *FlushInfo
	readOnce  bool
}

func NewIOContextForFlush(flushInfo *FlushInfo) IOContext {
	assert2(flushInfo != nil, "flush context needs flush info")
	return IOContext{
		context:   IO_CONTEXT_TYPE_FLUSH,
		FlushInfo: flushInfo,
	}
}

func NewIOContextBool(readOnce bool) IOContext {
	return IOContext{
		context:  IO_CONTEXT_TYPE_READ,
		readOnce: readOnce,
	}
}

func (ctx IOContext) ReadOnce() bool { return ctx.readOnce }

func (ctx IOContext) String() string {
	return fmt.Sprintf("IOContext [context=%v, flushInfo=%v, readOnce=%v]",
		ctx.context, ctx.FlushInfo, ctx.readOnce)
}

type FlushInfo struct {
	NumDocs              int
	EstimatedSegmentSize int64
}

var ErrFileNotFound = errors.New("file not found")

/*
A Directory is a flat list of files. Files may be written once, when
they are created. Once a file is created it may only be opened for
read, or deleted. Random access is permitted both when reading and
writing.
*/
type Directory interface {
	io.Closer
	// Returns the names of all files in the directory.
	ListAll() (paths []string, err error)
	// Returns true iff a file with the given name exists.
	FileExists(name string) bool
	// Removes an existing file in the directory.
	DeleteFile(name string) error
	// Returns the length of a file in the directory. This method
	// follows the following contract:
	// 	- Must return error if the file doesn't exists.
	// 	- Returns a value >=0 if the file exists, which specifies its
	// length.
	FileLength(name string) (n int64, err error)
	// Creates a new, empty file in the directory with the given name.
	// Returns a stream writing this file.
	CreateOutput(name string, ctx IOContext) (out IndexOutput, err error)
	// Ensure that any writes to these files are moved to stable
	// storage.
	Sync(names []string) error
	// Returns a stream reading an existing file.
	OpenInput(name string, context IOContext) (in IndexInput, err error)
	// Returns a stream reading an existing file, computing checksum as it reads
	OpenChecksumInput(name string, ctx IOContext) (ChecksumIndexInput, error)
}

type DirectoryImplSPI interface {
	OpenInput(string, IOContext) (IndexInput, error)
}

/* Shared behavior of the Directory implementations. */
type DirectoryImpl struct {
	spi DirectoryImplSPI
}

func NewDirectoryImpl(spi DirectoryImplSPI) *DirectoryImpl {
	return &DirectoryImpl{spi}
}

func (d *DirectoryImpl) OpenChecksumInput(name string, ctx IOContext) (ChecksumIndexInput, error) {
	in, err := d.spi.OpenInput(name, ctx)
	if err != nil {
		return nil, err
	}
	return NewChecksumIndexInput(in), nil
}

/*
Copies the file src to 'to' under the new file name dest.

NOTE: this method does not check whether dest exists and will
overwrite it if it does.
*/
func Copy(from Directory, to Directory, src, dest string, ctx IOContext) (err error) {
	var os IndexOutput
	var is IndexInput
	var success = false
	defer func() {
		if success {
			err = util.Close(os, is)
		} else {
			util.CloseWhileSuppressingError(os, is)
			to.DeleteFile(dest) // ignore error
		}
	}()

	if os, err = to.CreateOutput(dest, ctx); err != nil {
		return err
	}
	if is, err = from.OpenInput(src, ctx); err != nil {
		return err
	}
	if err = os.CopyBytes(is, is.Length()); err != nil {
		return err
	}
	success = true
	return nil
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
