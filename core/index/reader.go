package index

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
)

/*
IndexReader is an interface for accessing a point-in-time view of an
index. Any changes made to the index will not be visible until a new
reader is opened.

There are two different types of IndexReaders:

1. AtomicReader: These indexes do not consist of several
sub-readers, they are atomic. They support retrieval of doc values.
2. CompositeReader: Instances (like DirectoryReader) of this reader
can only be used to get leaves (sub-readers) for further access.

IndexReader instances are completely thread safe, meaning multiple
goroutines can call any of its methods, concurrently.
*/
type IndexReader interface {
	io.Closer
	// Expert: increments the refCount of this IndexReader instance.
	IncRef()
	// Expert: decreases the refCount of this IndexReader instance. If
	// the refCount drops to 0, then this reader is closed.
	DecRef() error
	RefCount() int32
	// Returns the number of documents in this index.
	NumDocs() int
	// Returns one greater than the largest possible document number.
	MaxDoc() int
	// Expert: Returns the root IndexReaderContext for this reader's
	// sub-reader tree.
	Context() IndexReaderContext
	// Returns the reader's leaves, or itself if this reader is atomic.
	Leaves() []*AtomicReaderContext
}

type IndexReaderImplSPI interface {
	doClose() error
	Context() IndexReaderContext
}

/* Reference counting shared by all IndexReader implementations. */
type IndexReaderImpl struct {
	spi      IndexReaderImplSPI
	lock     sync.Mutex
	closed   bool
	refCount int32 // synchronized
}

func newIndexReader(spi IndexReaderImplSPI) *IndexReaderImpl {
	return &IndexReaderImpl{spi: spi, refCount: 1}
}

func (r *IndexReaderImpl) RefCount() int32 {
	return atomic.LoadInt32(&r.refCount)
}

func (r *IndexReaderImpl) IncRef() {
	r.ensureOpen()
	atomic.AddInt32(&r.refCount, 1)
}

func (r *IndexReaderImpl) DecRef() error {
	// only check refcount here (don't call ensureOpen()), so we can
	// still close the reader if it was made invalid by a child:
	if atomic.LoadInt32(&r.refCount) <= 0 {
		return errors.New("this IndexReader is closed")
	}

	rc := atomic.AddInt32(&r.refCount, -1)
	if rc == 0 {
		if err := r.spi.doClose(); err != nil {
			// Put reference back on failure
			atomic.AddInt32(&r.refCount, 1)
			return err
		}
	} else if rc < 0 {
		panic(fmt.Sprintf("too many decRef calls: refCount is %v after decrement", rc))
	}
	return nil
}

func (r *IndexReaderImpl) ensureOpen() {
	if atomic.LoadInt32(&r.refCount) <= 0 {
		panic("this IndexReader is closed")
	}
}

/* Closes the reader; the resources are released once no reference is left. */
func (r *IndexReaderImpl) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.closed {
		r.closed = true
		return r.DecRef()
	}
	return nil
}

func (r *IndexReaderImpl) Leaves() []*AtomicReaderContext {
	return r.spi.Context().Leaves()
}

/*
A struct like class that represents a hierarchical relationship
between IndexReader instances.
*/
type IndexReaderContext interface {
	// The reader context for this reader's immediate parent, or nil if none
	Parent() *CompositeReaderContext
	// Returns the context's leaves if this context is a top-level
	// context. For convenience, if this is an AtomicReaderContext this
	// returns itself as the only leaf.
	Leaves() []*AtomicReaderContext
	// Returns the context's children iff this context is a composite
	// context otherwise nil.
	Children() []IndexReaderContext
}

type IndexReaderContextImpl struct {
	parent *CompositeReaderContext
	// true if this context struct represents the top level reader
	// within the hierarchical context
	isTopLevel bool
	// the doc base for this reader in the parent, 0 if parent is nil
	DocBaseInParent int
	// the ord for this reader in the parent, 0 if parent is nil
	OrdInParent int
}

func newIndexReaderContext(parent *CompositeReaderContext, ordInParent, docBaseInParent int) *IndexReaderContextImpl {
	return &IndexReaderContextImpl{
		parent:          parent,
		isTopLevel:      parent == nil,
		DocBaseInParent: docBaseInParent,
		OrdInParent:     ordInParent,
	}
}

func (ctx *IndexReaderContextImpl) Parent() *CompositeReaderContext {
	return ctx.parent
}

/*
AtomicReader is an abstract interface, providing an interface for
accessing the doc values of an index. Search of an index is done
entirely through this interface. IndexReader instances for indexes
on disk are usually constructed with a call to OpenDirectoryReader().

The doc values accessors return nil for a field without doc values,
and an *spi.IllegalArgumentError when the field has doc values of a
different type. Every call returns an accessor that must only be
used by a single goroutine.
*/
type AtomicReader interface {
	IndexReader
	// Get the FieldInfos describing all fields in this reader.
	FieldInfos() model.FieldInfos
	NumericDocValues(field string) (spi.NumericDocValues, error)
	BinaryDocValues(field string) (spi.BinaryDocValues, error)
	SortedDocValues(field string) (spi.SortedDocValues, error)
	SortedSetDocValues(field string) (spi.SortedSetDocValues, error)
	// Returns a Bits at the size of MaxDoc(), with turned on bits for
	// each docid that does have a value for this field, or nil if no
	// doc values were indexed for this field.
	DocsWithField(field string) (util.Bits, error)
	// Checks consistency of this reader.
	CheckIntegrity() error
}

/* IndexReaderContext for AtomicReader instances. */
type AtomicReaderContext struct {
	*IndexReaderContextImpl
	// The readers ord in the top-level's leaves array
	Ord int
	// The readers absolute doc base
	DocBase int
	reader  AtomicReader
	leaves  []*AtomicReaderContext
}

func newAtomicReaderContextFromReader(r AtomicReader) *AtomicReaderContext {
	return newAtomicReaderContext(nil, r, 0, 0, 0, 0)
}

func newAtomicReaderContext(parent *CompositeReaderContext, reader AtomicReader,
	ord, docBase, leafOrd, leafDocBase int) *AtomicReaderContext {
	ans := &AtomicReaderContext{
		IndexReaderContextImpl: newIndexReaderContext(parent, ord, docBase),
		Ord:                    leafOrd,
		DocBase:                leafDocBase,
		reader:                 reader,
	}
	if ans.isTopLevel {
		ans.leaves = []*AtomicReaderContext{ans}
	}
	return ans
}

func (ctx *AtomicReaderContext) Leaves() []*AtomicReaderContext {
	assert2(ctx.isTopLevel, "This is not a top-level context.")
	return ctx.leaves
}

func (ctx *AtomicReaderContext) Children() []IndexReaderContext {
	return nil
}

func (ctx *AtomicReaderContext) Reader() AtomicReader {
	return ctx.reader
}

func (ctx *AtomicReaderContext) String() string {
	return fmt.Sprintf("AtomicReaderContext(%v ord=%v docBase=%v)", ctx.reader, ctx.Ord, ctx.DocBase)
}
