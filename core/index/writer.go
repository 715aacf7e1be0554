package index

import (
	"fmt"
	"sync"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/document"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/pkg/errors"
)

// index/IndexWriter.java

// Returned by every operation of an IndexWriter after Close() or Rollback().
var ErrAlreadyClosed = errors.New("this IndexWriter is closed")

/*
An IndexWriter adds documents to an index made of one or more
doc values segments. Added documents are buffered by a SegmentWriter
and written as a new segment on Flush(), or automatically once
MaxBufferedDocs() documents are buffered. Segments become visible to
readers opened by OpenDirectoryReader() only after Commit().

Field numbers and doc values types are shared by all segments the
writer produces, including those of the commit it was opened on.
*/
type IndexWriter struct {
	sync.Locker
	directory    store.Directory
	config       *Config
	segmentInfos *SegmentInfos
	fieldNumbers *model.FieldNumbers
	pending      *SegmentWriter
	// number of segments in the last commit
	committedSegments int
	closed            bool
}

/*
Constructs a new IndexWriter per the settings given in conf. Depending
on the open mode, the current commit of d is appended to or replaced.
*/
func NewIndexWriter(d store.Directory, conf *Config) (w *IndexWriter, err error) {
	files, err := d.ListAll()
	if err != nil {
		return nil, err
	}
	indexExists := LastCommitGeneration(files) != -1

	w = &IndexWriter{
		Locker:       &sync.Mutex{},
		directory:    d,
		config:       conf,
		fieldNumbers: model.NewFieldNumbers(),
	}
	switch {
	case conf.OpenMode() == OPEN_MODE_APPEND && !indexExists:
		return nil, fmt.Errorf("no segments* file found in %v: files: %v", d, files)
	case !indexExists:
		w.segmentInfos = NewSegmentInfos()
	default:
		if w.segmentInfos, err = ReadSegmentInfos(d); err != nil {
			return nil, err
		}
		if conf.OpenMode() == OPEN_MODE_CREATE {
			w.segmentInfos.Clear()
		}
	}
	if err = w.seedFieldNumbers(); err != nil {
		return nil, err
	}
	w.committedSegments = len(w.segmentInfos.Segments)
	log.Debugf("IndexWriter opened on %v (mode=%v): %v", d, conf.OpenMode(), w.segmentInfos)
	return w, nil
}

func (w *IndexWriter) seedFieldNumbers() error {
	for _, si := range w.segmentInfos.Segments {
		infos, err := si.Codec().(spi.Codec).FieldInfosFormat().FieldInfosReader()(
			si.Dir, si.Name, "", store.IO_CONTEXT_READONCE)
		if err != nil {
			return err
		}
		for _, fi := range infos.Values {
			if _, err = w.fieldNumbers.AddOrGet(fi); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *IndexWriter) Directory() store.Directory { return w.directory }

func (w *IndexWriter) Config() *Config { return w.config }

/*
Returns the number of documents in the index, including buffered
documents not yet flushed.
*/
func (w *IndexWriter) NumDocs() int {
	w.Lock()
	defer w.Unlock()
	ans := w.segmentInfos.TotalDocCount()
	if w.pending != nil {
		ans += w.pending.NumDocs()
	}
	return ans
}

/*
Adds a document to this index. A document rejected by validation
leaves the index untouched.
*/
func (w *IndexWriter) AddDocument(doc *document.Document) (err error) {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return ErrAlreadyClosed
	}
	if w.pending == nil {
		if w.pending, err = NewSegmentWriter(w.directory,
			w.segmentInfos.NewSegmentName(), w.config, w.fieldNumbers); err != nil {
			return err
		}
	}
	if err = w.pending.AddDocument(doc); err != nil {
		return err
	}
	if max := w.config.MaxBufferedDocs(); max != DISABLE_AUTO_FLUSH && w.pending.NumDocs() >= max {
		return w.flush()
	}
	return nil
}

/* Writes all buffered documents as a new segment. */
func (w *IndexWriter) Flush() error {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return ErrAlreadyClosed
	}
	return w.flush()
}

func (w *IndexWriter) flush() error {
	if w.pending == nil || w.pending.NumDocs() == 0 {
		return nil
	}
	sw := w.pending
	w.pending = nil
	si, err := sw.Flush()
	if err != nil {
		return err
	}
	w.segmentInfos.Add(si)
	return nil
}

/*
Flushes buffered documents and writes a new segments_N file that
references all segments written so far.
*/
func (w *IndexWriter) Commit() error {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return ErrAlreadyClosed
	}
	return w.commit()
}

func (w *IndexWriter) commit() error {
	if err := w.flush(); err != nil {
		return err
	}
	if err := w.segmentInfos.Commit(w.directory); err != nil {
		return err
	}
	w.committedSegments = len(w.segmentInfos.Segments)
	return nil
}

/* Sets user data recorded with the next commit. */
func (w *IndexWriter) SetCommitData(data map[string]string) {
	w.Lock()
	defer w.Unlock()
	w.segmentInfos.SetUserData(data)
}

/* Commits all changes and closes the writer. */
func (w *IndexWriter) Close() error {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.commit()
}

/*
Close the IndexWriter without committing any changes that have
occurred since the last commit (or since it was opened, if commit
hasn't been called). Files of segments flushed since then are
removed, after which the state of the index will be the same as it
was when Commit() was last called or when this writer was first
opened.
*/
func (w *IndexWriter) Rollback() error {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.pending = nil
	for _, si := range w.segmentInfos.Segments[w.committedSegments:] {
		util.DeleteFilesIgnoringErrors(w.directory, si.SortedFiles()...)
	}
	w.segmentInfos.Segments = w.segmentInfos.Segments[:w.committedSegments]
	return nil
}

func (w *IndexWriter) String() string {
	return fmt.Sprintf("IndexWriter(%v)", w.directory)
}
