package model

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
)

/*
Information about a segment such as its name, directory, and files
related to the segment. Written once by the flushing writer and never
mutated afterwards.
*/
type SegmentInfo struct {
	Dir            store.Directory
	version        string
	Name           string
	docCount       int // number of docs in seg
	isCompoundFile bool
	codec          interface{}
	diagnostics    map[string]string
	files          map[string]bool // must use checkFileNames()

	*AttributesMixin
}

func NewSegmentInfo(dir store.Directory, version, name string, docCount int,
	isCompoundFile bool, codec interface{}, diagnostics map[string]string, attributes map[string]string) *SegmentInfo {
	if diagnostics == nil {
		diagnostics = make(map[string]string)
	}
	return &SegmentInfo{
		Dir:             dir,
		version:         version,
		Name:            name,
		docCount:        docCount,
		isCompoundFile:  isCompoundFile,
		codec:           codec,
		diagnostics:     diagnostics,
		AttributesMixin: &AttributesMixin{attributes},
	}
}

func (info *SegmentInfo) SetDiagnostics(diagnostics map[string]string) {
	info.diagnostics = diagnostics
}

/* Returns diagnostics saved into the segment when it was written .*/
func (info *SegmentInfo) Diagnostics() map[string]string {
	return info.diagnostics
}

/* Returns true if this segment is stored as a compound file */
func (si *SegmentInfo) IsCompoundFile() bool {
	return si.isCompoundFile
}

/* Can only be called once. */
func (info *SegmentInfo) SetCodec(codec interface{}) {
	assert(info.codec == nil)
	assert2(codec != nil, "segmentCodecs must not be nil")
	info.codec = codec
}

/* Return Codec that wrote this segment. */
func (si *SegmentInfo) Codec() interface{} {
	return si.codec
}

func (si *SegmentInfo) DocCount() int {
	assert2(si.docCount >= 0, "docCount isn't set yet")
	return si.docCount
}

/* Can only be called once. */
func (info *SegmentInfo) SetDocCount(docCount int) {
	assert2(info.docCount == -1, "docCount was already set")
	info.docCount = docCount
}

/* Return all files referenced by this SegmentInfo. */
func (si *SegmentInfo) Files() map[string]bool {
	assert2(si.files != nil, "files were not computed yet")
	return si.files
}

/* Returns the referenced file names in sorted order. */
func (si *SegmentInfo) SortedFiles() []string {
	names := make([]string, 0, len(si.files))
	for name := range si.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (si *SegmentInfo) String() string {
	var buf bytes.Buffer
	buf.WriteString(si.Name)
	buf.WriteString("(")
	if si.version == "" {
		buf.WriteString("?")
	} else {
		buf.WriteString(si.version)
	}
	buf.WriteString("):")
	if si.isCompoundFile {
		buf.WriteString("c")
	} else {
		buf.WriteString("C")
	}
	fmt.Fprintf(&buf, "%v", si.docCount)
	return buf.String()
}

/* Returns the version of the code which wrote the segment. */
func (si *SegmentInfo) Version() string {
	return si.version
}

/* Sets the files written for this segment. */
func (si *SegmentInfo) SetFiles(files map[string]bool) {
	si.checkFileNames(files)
	si.files = files
}

/* Add this file to the set of files written for this segment. */
func (si *SegmentInfo) AddFile(file string) {
	si.checkFileNames(map[string]bool{file: true})
	if si.files == nil {
		si.files = make(map[string]bool)
	}
	si.files[file] = true
}

func (si *SegmentInfo) checkFileNames(files map[string]bool) {
	for file := range files {
		if !util.CODEC_FILE_PATTERN.MatchString(file) {
			panic(fmt.Sprintf("invalid codec filename '%v', must match: %v", file, util.CODEC_FILE_PATTERN))
		}
	}
}
