package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsweet/docvalues/core/codec"
	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/pkg/errors"
)

// index/SegmentInfos.java

const (
	// Codec name written into the header of every segments_N file.
	SEGMENTS_CODEC = "segments"

	SEGMENTS_VERSION_START    = 0
	SEGMENTS_VERSION_CHECKSUM = 1
	SEGMENTS_VERSION_CURRENT  = SEGMENTS_VERSION_CHECKSUM
)

/*
A collection of segments with their codecs, as recorded in the
segments_N file of one commit. Each commit writes a new segments_N
with a higher generation; the highest generation is the current
commit.

Files and Ordering:

	segments_N: Header, Version, NameCounter, SegCount,
	  <SegName, SegCodec>^SegCount, CommitUserData, Footer
*/
type SegmentInfos struct {
	// used to name new segments
	counter int
	// counts how often the index has been changed
	version int64
	// generation of the "segments_N" for the next commit
	generation int64
	// generation of the "segments_N" file we last successfully read or wrote
	lastGeneration int64
	userData       map[string]string
	Segments       []*model.SegmentInfo
}

func NewSegmentInfos() *SegmentInfos {
	return &SegmentInfos{generation: -1, lastGeneration: -1}
}

/* Returns a new unique segment name, "_" followed by the counter in radix 36. */
func (sis *SegmentInfos) NewSegmentName() string {
	name := "_" + strconv.FormatInt(int64(sis.counter), 36)
	sis.counter++
	return name
}

func (sis *SegmentInfos) Add(si *model.SegmentInfo) {
	sis.Segments = append(sis.Segments, si)
}

/*
Drops all segments and user data. The name counter and the commit
generation are kept so a following Commit() supersedes the previous
commit without reusing its file names.
*/
func (sis *SegmentInfos) Clear() {
	sis.Segments = nil
	sis.userData = nil
}

/* Returns the total number of documents of all segments. */
func (sis *SegmentInfos) TotalDocCount() int {
	count := 0
	for _, si := range sis.Segments {
		count += si.DocCount()
	}
	return count
}

func (sis *SegmentInfos) Version() int64 { return sis.version }

func (sis *SegmentInfos) UserData() map[string]string { return sis.userData }

func (sis *SegmentInfos) SetUserData(data map[string]string) {
	sis.userData = data
}

/* Returns the generation of the last read or written segments_N, -1 if none. */
func (sis *SegmentInfos) LastGeneration() int64 { return sis.lastGeneration }

/* Returns the file name of the last read or written segments_N. */
func (sis *SegmentInfos) SegmentsFileName() string {
	return util.FileNameFromGeneration(util.SEGMENTS, "", sis.lastGeneration)
}

/*
Returns the generation of the current commit among the given file
names, or -1 if there is none.
*/
func LastCommitGeneration(files []string) int64 {
	max := int64(-1)
	for _, file := range files {
		if strings.HasPrefix(file, util.SEGMENTS) {
			if gen, err := GenerationFromSegmentsFileName(file); err == nil && gen > max {
				max = gen
			}
		}
	}
	return max
}

/* Parses the generation off the segments file name. */
func GenerationFromSegmentsFileName(fileName string) (int64, error) {
	switch {
	case fileName == util.SEGMENTS:
		return 0, nil
	case strings.HasPrefix(fileName, util.SEGMENTS+"_"):
		return strconv.ParseInt(fileName[1+len(util.SEGMENTS):], 36, 64)
	default:
		return 0, fmt.Errorf("filename %v is not a segments file", fileName)
	}
}

/*
Reads the current commit of directory. The highest segments_N found
in the directory listing is read; when it fails the previous
generation, if present, is tried once before giving up.
*/
func ReadSegmentInfos(directory store.Directory) (*SegmentInfos, error) {
	files, err := directory.ListAll()
	if err != nil {
		return nil, err
	}
	gen := LastCommitGeneration(files)
	if gen == -1 {
		return nil, fmt.Errorf("no segments* file found in %v: files: %v", directory, files)
	}
	sis := NewSegmentInfos()
	fileName := util.FileNameFromGeneration(util.SEGMENTS, "", gen)
	if err = sis.Read(directory, fileName); err == nil {
		return sis, nil
	}
	if prev := util.FileNameFromGeneration(util.SEGMENTS, "", gen-1); gen > 1 && directory.FileExists(prev) {
		log.Warningf("Failed to read %v (%v); falling back to %v", fileName, err, prev)
		if err2 := sis.Read(directory, prev); err2 == nil {
			return sis, nil
		}
	}
	return nil, err
}

/* Reads a particular segments_N file. */
func (sis *SegmentInfos) Read(directory store.Directory, segmentFileName string) (err error) {
	log.Debugf("Reading segment infos from %v...", segmentFileName)
	generation, err := GenerationFromSegmentsFileName(segmentFileName)
	if err != nil {
		return err
	}

	var input store.ChecksumIndexInput
	if input, err = directory.OpenChecksumInput(segmentFileName, store.IO_CONTEXT_READ); err != nil {
		return err
	}

	var success = false
	defer func() {
		if success {
			err = input.Close()
		} else {
			// Clear any segment infos we had loaded so we
			// have a clean slate on retry:
			sis.Segments = nil
			util.CloseWhileSuppressingError(input)
		}
	}()

	var format int32
	if format, err = codec.CheckHeader(input, SEGMENTS_CODEC,
		SEGMENTS_VERSION_START, SEGMENTS_VERSION_CURRENT); err != nil {
		return err
	}
	if sis.version, err = input.ReadLong(); err != nil {
		return err
	}
	var counter, numSegments int32
	if counter, err = input.ReadInt(); err != nil {
		return err
	}
	sis.counter = int(counter)
	if numSegments, err = input.ReadInt(); err != nil {
		return err
	}
	if numSegments < 0 {
		return codec.NewCorruptIndexError(input, "invalid segment count: %v", numSegments)
	}
	sis.Segments = make([]*model.SegmentInfo, 0, numSegments)
	for seg := int32(0); seg < numSegments; seg++ {
		var segName, codecName string
		if segName, err = input.ReadString(); err != nil {
			return err
		}
		if codecName, err = input.ReadString(); err != nil {
			return err
		}
		var method spi.Codec
		if method, err = spi.LoadCodec(codecName); err != nil {
			return errors.Wrapf(err, "segment %v", segName)
		}
		var info *model.SegmentInfo
		if info, err = method.SegmentInfoFormat().SegmentInfoReader().Read(
			directory, segName, store.IO_CONTEXT_READ); err != nil {
			return errors.Wrapf(err, "read segment info of %v", segName)
		}
		info.SetCodec(method)
		sis.Segments = append(sis.Segments, info)
	}
	if sis.userData, err = input.ReadStringStringMap(); err != nil {
		return err
	}

	if format >= SEGMENTS_VERSION_CHECKSUM {
		if _, err = codec.CheckFooter(input); err != nil {
			return err
		}
	} else if err = codec.CheckEOF(input); err != nil {
		return err
	}

	sis.generation = generation
	sis.lastGeneration = generation
	success = true
	return nil
}

func (sis *SegmentInfos) nextGeneration() int64 {
	if sis.lastGeneration == -1 {
		return 1
	}
	return sis.lastGeneration + 1
}

/*
Writes a new segments_N file naming every segment, after syncing the
files the segments reference. On failure the partially written file
is removed and the previous commit stays current.
*/
func (sis *SegmentInfos) Commit(directory store.Directory) (err error) {
	sis.generation = sis.nextGeneration()
	sis.version++
	segmentFileName := util.FileNameFromGeneration(util.SEGMENTS, "", sis.generation)

	var output store.IndexOutput
	if output, err = directory.CreateOutput(segmentFileName, store.IO_CONTEXT_DEFAULT); err != nil {
		return err
	}

	var success = false
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(output)
			directory.DeleteFile(segmentFileName) // ignore error
		}
	}()

	if err = codec.WriteHeader(output, SEGMENTS_CODEC, SEGMENTS_VERSION_CURRENT); err != nil {
		return err
	}
	if err = output.WriteLong(sis.version); err != nil {
		return err
	}
	if err = output.WriteInt(int32(sis.counter)); err != nil {
		return err
	}
	if err = output.WriteInt(int32(len(sis.Segments))); err != nil {
		return err
	}
	var files []string
	for _, si := range sis.Segments {
		if err = output.WriteString(si.Name); err != nil {
			return err
		}
		if err = output.WriteString(si.Codec().(spi.Codec).Name()); err != nil {
			return err
		}
		files = append(files, si.SortedFiles()...)
	}
	if sis.userData == nil {
		sis.userData = make(map[string]string)
	}
	if err = output.WriteStringStringMap(sis.userData); err != nil {
		return err
	}
	if err = codec.WriteFooter(output); err != nil {
		return err
	}
	if err = output.Close(); err != nil {
		return err
	}
	if err = directory.Sync(append(files, segmentFileName)); err != nil {
		return err
	}

	log.Debugf("Committed %v with %v segments", segmentFileName, len(sis.Segments))
	sis.lastGeneration = sis.generation
	success = true
	return nil
}

func (sis *SegmentInfos) String() string {
	parts := make([]string, len(sis.Segments))
	for i, si := range sis.Segments {
		parts[i] = si.String()
	}
	return fmt.Sprintf("%v: %v", sis.SegmentsFileName(), strings.Join(parts, " "))
}
