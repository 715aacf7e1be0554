package spi

import (
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
)

// Expert: Control the format of SegmentInfo (segment metadata file).
type SegmentInfoFormat interface {
	// Returns the SegmentInfoReader for reading SegmentInfo instances.
	SegmentInfoReader() SegmentInfoReader
	// Returns the SegmentInfoWriter for writing SegmentInfo instances.
	SegmentInfoWriter() SegmentInfoWriter
}

// Read SegmentInfo data from a directory.
type SegmentInfoReader interface {
	Read(store.Directory, string, store.IOContext) (*SegmentInfo, error)
}

// Write SegmentInfo data.
type SegmentInfoWriter interface {
	Write(store.Directory, *SegmentInfo, FieldInfos, store.IOContext) error
}
