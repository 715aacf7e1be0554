package index

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
)

/*
DirectoryReader is an implementation of CompositeReader that can read
indexes in a Directory. Its leaves are the segments of the commit it
was opened on, in commit order.
*/
type DirectoryReader interface {
	CompositeReader
	// Returns the directory this index resides in.
	Directory() store.Directory
	// Version number when this IndexReader was opened.
	Version() int64
	// Returns the commit this reader was opened on.
	SegmentInfos() *SegmentInfos
}

/* Returns a DirectoryReader reading the latest commit of directory. */
func OpenDirectoryReader(directory store.Directory) (r DirectoryReader, err error) {
	var sis *SegmentInfos
	if sis, err = ReadSegmentInfos(directory); err != nil {
		return nil, err
	}
	var sdr *StandardDirectoryReader
	if sdr, err = openStandardDirectoryReader(directory, sis); err != nil {
		return nil, err
	}
	return sdr, nil
}

type StandardDirectoryReader struct {
	*BaseCompositeReader
	directory    store.Directory
	segmentInfos *SegmentInfos
}

func openStandardDirectoryReader(directory store.Directory,
	sis *SegmentInfos) (r *StandardDirectoryReader, err error) {

	readers := make([]IndexReader, 0, len(sis.Segments))
	var success = false
	defer func() {
		if !success {
			for _, sr := range readers {
				util.CloseWhileSuppressingError(sr)
			}
		}
	}()
	for _, si := range sis.Segments {
		sr, err := NewSegmentReader(si, store.IO_CONTEXT_READ)
		if err != nil {
			return nil, err
		}
		readers = append(readers, sr)
	}

	r = &StandardDirectoryReader{directory: directory, segmentInfos: sis}
	r.BaseCompositeReader = newBaseCompositeReader(r, readers)
	log.Debugf("Opened %v with %v segments", sis.SegmentsFileName(), len(readers))
	success = true
	return r, nil
}

func (r *StandardDirectoryReader) doClose() (err error) {
	for _, sub := range r.subReaders {
		// try to close each reader, even if an error is returned
		if err2 := sub.DecRef(); err == nil {
			err = err2
		}
	}
	return err
}

func (r *StandardDirectoryReader) Directory() store.Directory {
	return r.directory
}

func (r *StandardDirectoryReader) Version() int64 {
	r.ensureOpen()
	return r.segmentInfos.Version()
}

func (r *StandardDirectoryReader) SegmentInfos() *SegmentInfos {
	return r.segmentInfos
}

func (r *StandardDirectoryReader) String() string {
	return fmt.Sprintf("StandardDirectoryReader(%v)", r.segmentInfos)
}
