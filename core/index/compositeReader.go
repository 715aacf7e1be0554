package index

import (
	"bytes"
	"fmt"
)

/*
Instances of this reader type can only be used to get stored fields
from the underlying AtomicReaders, but it is not possible to directly
retrieve doc values. To do that, get the sub-readers via Leaves().

IndexReader instances for indexes on disk are usually constructed with
a call to OpenDirectoryReader().
*/
type CompositeReader interface {
	IndexReader
	// Expert: returns the sequential sub readers that this reader is
	// logically composed of.
	getSequentialSubReaders() []IndexReader
}

/* IndexReaderContext for CompositeReader instances. */
type CompositeReaderContext struct {
	*IndexReaderContextImpl
	children []IndexReaderContext
	leaves   []*AtomicReaderContext
	reader   CompositeReader
}

func (ctx *CompositeReaderContext) Leaves() []*AtomicReaderContext {
	assert2(ctx.isTopLevel, "This is not a top-level context.")
	assert2(ctx.leaves != nil, "top-level context has no leaves")
	return ctx.leaves
}

func (ctx *CompositeReaderContext) Children() []IndexReaderContext {
	return ctx.children
}

func (ctx *CompositeReaderContext) Reader() CompositeReader {
	return ctx.reader
}

func (ctx *CompositeReaderContext) String() string {
	return fmt.Sprintf("CompositeReaderContext(%v children=%v)", ctx.reader, len(ctx.children))
}

type compositeReaderContextBuilder struct {
	reader      CompositeReader
	leaves      []*AtomicReaderContext
	leafDocBase int
}

func newCompositeReaderContext(r CompositeReader) *CompositeReaderContext {
	b := &compositeReaderContextBuilder{reader: r, leaves: []*AtomicReaderContext{}}
	return b.build(nil, r, 0, 0).(*CompositeReaderContext)
}

func (b *compositeReaderContextBuilder) build(parent *CompositeReaderContext,
	reader IndexReader, ord, docBase int) IndexReaderContext {

	if ar, ok := reader.(AtomicReader); ok {
		atomic := newAtomicReaderContext(parent, ar, ord, docBase, len(b.leaves), b.leafDocBase)
		b.leaves = append(b.leaves, atomic)
		b.leafDocBase += reader.MaxDoc()
		return atomic
	}
	cr := reader.(CompositeReader)
	sequentialSubReaders := cr.getSequentialSubReaders()
	children := make([]IndexReaderContext, len(sequentialSubReaders))
	newParent := &CompositeReaderContext{
		IndexReaderContextImpl: newIndexReaderContext(parent, ord, docBase),
		children:               children,
		reader:                 cr,
	}
	newDocBase := 0
	for i, r := range sequentialSubReaders {
		children[i] = b.build(newParent, r, i, newDocBase)
		newDocBase += r.MaxDoc()
	}
	assert2(newDocBase == cr.MaxDoc(), "doc base %v != maxDoc %v", newDocBase, cr.MaxDoc())
	if parent == nil {
		newParent.leaves = b.leaves
	}
	return newParent
}

type BaseCompositeReaderSPI interface {
	IndexReaderImplSPI
	CompositeReader
}

/*
Base for implementing CompositeReaders based on a slice of sub
readers. The implementing reader provides doClose().

Note that the sub readers are not closed by this base, the
implementation decides whether to close or decRef them.
*/
type BaseCompositeReader struct {
	*IndexReaderImpl
	self          CompositeReader
	subReaders    []IndexReader
	starts        []int // 1st docno for each reader
	maxDoc        int
	numDocs       int
	readerContext *CompositeReaderContext
}

func newBaseCompositeReader(self BaseCompositeReaderSPI, readers []IndexReader) *BaseCompositeReader {
	ans := &BaseCompositeReader{
		IndexReaderImpl: newIndexReader(self),
		self:            self,
		subReaders:      readers,
		starts:          make([]int, len(readers)+1), // build starts array
	}
	for i, r := range readers {
		ans.starts[i] = ans.maxDoc
		ans.maxDoc += r.MaxDoc() // compute maxDocs
		ans.numDocs += r.NumDocs()
	}
	ans.starts[len(readers)] = ans.maxDoc
	return ans
}

func (r *BaseCompositeReader) NumDocs() int {
	return r.numDocs
}

func (r *BaseCompositeReader) MaxDoc() int {
	return r.maxDoc
}

func (r *BaseCompositeReader) Context() IndexReaderContext {
	r.ensureOpen()
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.readerContext == nil {
		r.readerContext = newCompositeReaderContext(r.self)
	}
	return r.readerContext
}

/* Returns the index of the sub reader holding docID. */
func (r *BaseCompositeReader) readerIndex(docID int) int {
	assert2(docID >= 0 && docID < r.maxDoc, "docID must be >= 0 and < maxDoc=%v (got docID=%v)", r.maxDoc, docID)
	lo, hi := 0, len(r.subReaders)-1
	for lo < hi {
		mid := (lo + hi + 1) >> 1
		if r.starts[mid] <= docID {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

/* Returns the first document number of the sub reader at readerIndex. */
func (r *BaseCompositeReader) readerBase(readerIndex int) int {
	assert2(readerIndex >= 0 && readerIndex < len(r.subReaders), "readerIndex must be >= 0 and < getSequentialSubReaders().size()")
	return r.starts[readerIndex]
}

func (r *BaseCompositeReader) getSequentialSubReaders() []IndexReader {
	return r.subReaders
}

func (r *BaseCompositeReader) String() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	for i, sub := range r.subReaders {
		if i > 0 {
			buf.WriteString(" ")
		}
		fmt.Fprintf(&buf, "%v", sub)
	}
	buf.WriteString(")")
	return buf.String()
}

/*
A CompositeReader which reads multiple indexes, appending their
content. The document ids of the second sub reader start after the
last document of the first, and so on.
*/
type MultiReader struct {
	*BaseCompositeReader
	closeSubReaders bool
}

/*
Construct a MultiReader aggregating the named set of (sub)readers.
When closeSubReaders is false, the sub readers are incRef'ed and only
decRef'ed when this reader is closed.
*/
func NewMultiReader(subReaders []IndexReader, closeSubReaders bool) *MultiReader {
	ans := &MultiReader{closeSubReaders: closeSubReaders}
	ans.BaseCompositeReader = newBaseCompositeReader(ans, append([]IndexReader(nil), subReaders...))
	if !closeSubReaders {
		for _, r := range subReaders {
			r.IncRef()
		}
	}
	return ans
}

func (r *MultiReader) doClose() (err error) {
	for _, sub := range r.subReaders {
		var err2 error
		if r.closeSubReaders {
			err2 = sub.Close()
		} else {
			err2 = sub.DecRef()
		}
		if err == nil {
			err = err2
		}
	}
	return err
}

func (r *MultiReader) String() string {
	return "MultiReader" + r.BaseCompositeReader.String()
}
