package util

import (
	"fmt"
	"io"
)

type CompoundError struct {
	errs []error
}

func (e *CompoundError) Error() string {
	return e.errs[0].Error()
}

/* Returns every error collected, the first one being the primary cause. */
func (e *CompoundError) Errors() []error {
	return e.errs
}

/*
Closes all given io.Closer(s), returning priorErr when it is not nil,
otherwise the first error hit while closing. Later close errors are
suppressed into a CompoundError.
*/
func CloseWhileHandlingError(priorErr error, objects ...io.Closer) error {
	var th error
	for _, object := range objects {
		t := safeClose(object)
		if t == nil {
			continue
		}
		if th == nil {
			th = t
		} else {
			th = addSuppressed(th, t)
		}
	}
	if priorErr != nil {
		return priorErr
	}
	return th
}

func CloseWhileSuppressingError(objects ...io.Closer) {
	for _, object := range objects {
		safeClose(object)
	}
}

func Close(objects ...io.Closer) error {
	return CloseWhileHandlingError(nil, objects...)
}

func safeClose(obj io.Closer) (err error) {
	if obj != nil {
		err = obj.Close()
	}
	return
}

func addSuppressed(err error, suppressed error) error {
	assert2(err != suppressed, "Self-suppression not permitted")
	if suppressed == nil {
		return err
	}
	if ce, ok := err.(*CompoundError); ok {
		ce.errs = append(ce.errs, suppressed)
		return ce
	}
	return &CompoundError{[]error{err, suppressed}}
}

type FileDeleter interface {
	DeleteFile(name string) error
}

/*
Deletes all given files, suppressing all returned errors.

Note that the files should not be nil.
*/
func DeleteFilesIgnoringErrors(dir FileDeleter, files ...string) {
	for _, name := range files {
		dir.DeleteFile(name) // ignore error
	}
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
