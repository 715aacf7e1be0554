package model

import (
	"strconv"
	"strings"

	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
)

/* Holder class for common parameters used during write. */
type SegmentWriteState struct {
	InfoStream    util.InfoStream
	Directory     store.Directory
	SegmentInfo   *SegmentInfo
	FieldInfos    FieldInfos
	SegmentSuffix string
	Context       store.IOContext
}

func NewSegmentWriteState(infoStream util.InfoStream,
	dir store.Directory, segmentInfo *SegmentInfo,
	fieldInfos FieldInfos, ctx store.IOContext) *SegmentWriteState {

	return NewSegmentWriteState2(infoStream, dir, segmentInfo, fieldInfos, ctx, "")
}

func NewSegmentWriteState2(infoStream util.InfoStream,
	dir store.Directory, segmentInfo *SegmentInfo,
	fieldInfos FieldInfos, ctx store.IOContext,
	segmentSuffix string) *SegmentWriteState {

	assert(assertSegmentSuffix(segmentSuffix))
	return &SegmentWriteState{
		InfoStream:    infoStream,
		Directory:     dir,
		SegmentInfo:   segmentInfo,
		FieldInfos:    fieldInfos,
		SegmentSuffix: segmentSuffix,
		Context:       ctx,
	}
}

/* Create a shallow copy of SegmentWriteState with a new segment suffix. */
func NewSegmentWriteStateFrom(state *SegmentWriteState, segmentSuffix string) *SegmentWriteState {
	return &SegmentWriteState{
		state.InfoStream,
		state.Directory,
		state.SegmentInfo,
		state.FieldInfos,
		segmentSuffix,
		state.Context,
	}
}

func assertSegmentSuffix(segmentSuffix string) bool {
	if len(segmentSuffix) == 0 {
		return true
	}
	numParts := len(strings.SplitN(segmentSuffix, "_", 3))
	if numParts == 2 {
		return true
	}
	if numParts == 1 {
		_, err := strconv.ParseInt(segmentSuffix, 36, 64)
		return err == nil
	}
	return false
}

/* Holder class for common parameters used during read. */
type SegmentReadState struct {
	Dir           store.Directory
	SegmentInfo   *SegmentInfo
	FieldInfos    FieldInfos
	Context       store.IOContext
	SegmentSuffix string
}

func NewSegmentReadState(dir store.Directory,
	info *SegmentInfo, fieldInfos FieldInfos,
	context store.IOContext) SegmentReadState {

	return SegmentReadState{dir, info, fieldInfos, context, ""}
}

/* Create a SegmentReadState with a new segment suffix. */
func NewSegmentReadStateFrom(other SegmentReadState, newSegmentSuffix string) SegmentReadState {
	return SegmentReadState{
		other.Dir,
		other.SegmentInfo,
		other.FieldInfos,
		other.Context,
		newSegmentSuffix,
	}
}
