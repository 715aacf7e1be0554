package lucene46

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/codec"
	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
)

/*
Lucene 4.6 Segment info format.

Files:
- .si: Header, SegVersion, SegSize, IsCompoundFile, Diagnostics, Files, Footer

Data types:
- Header --> CodecHeader
- SegSize --> Int32
- SegVersion --> String
- Files --> set[string]
- Diagnostics --> map[string]string
- IsCompoundFile --> byte
- Footer --> CodecFooter

Field Descriptions:
- SegVersion is the code version that created the segment.
- SegSize is the number of documents contained in the segment index.
- IsCompoundFile records whether the segment is written as a compound
  file or not. If this is -1, the segment is not a compound file. If
  it is 1, the segment is a compound file.
- The Diagnostics Map is privately written by the writer, as a
  debugging aid, for each segment it creates. It includes metadata
  like the current Lucene version, OS, Go version, why the segment
  was created (merge, flush, addIndexes), etc.
- Files is a list of files referred to by this segment.
*/
type Lucene46SegmentInfoFormat struct {
}

func NewLucene46SegmentInfoFormat() *Lucene46SegmentInfoFormat {
	return &Lucene46SegmentInfoFormat{}
}

func (f *Lucene46SegmentInfoFormat) SegmentInfoReader() SegmentInfoReader {
	return f
}

func (f *Lucene46SegmentInfoFormat) SegmentInfoWriter() SegmentInfoWriter {
	return f
}

const (
	// File extension used to store SegmentInfo.
	SI_EXTENSION        = "si"
	SI_CODEC_NAME       = "Lucene46SegmentInfo"
	SI_VERSION_START    = 0
	SI_VERSION_CHECKSUM = 1
	SI_VERSION_CURRENT  = SI_VERSION_CHECKSUM

	SI_YES = 1
	SI_NO  = -1
)

func (f *Lucene46SegmentInfoFormat) Read(dir store.Directory,
	segment string, context store.IOContext) (si *SegmentInfo, err error) {

	fileName := util.SegmentFileName(segment, "", SI_EXTENSION)
	var input store.ChecksumIndexInput
	if input, err = dir.OpenChecksumInput(fileName, context); err != nil {
		return nil, err
	}

	var success = false
	defer func() {
		if success {
			err = input.Close()
		} else {
			util.CloseWhileSuppressingError(input)
		}
	}()

	var codecVersion int32
	if codecVersion, err = codec.CheckHeader(input, SI_CODEC_NAME, SI_VERSION_START, SI_VERSION_CURRENT); err != nil {
		return nil, err
	}
	var version string
	if version, err = input.ReadString(); err != nil {
		return nil, err
	}
	var docCount int32
	if docCount, err = input.ReadInt(); err != nil {
		return nil, err
	}
	if docCount < 0 {
		return nil, codec.NewCorruptIndexError(input, "invalid docCount: %v", docCount)
	}
	var b byte
	if b, err = input.ReadByte(); err != nil {
		return nil, err
	}
	isCompoundFile := int8(b) == SI_YES
	var diagnostics map[string]string
	if diagnostics, err = input.ReadStringStringMap(); err != nil {
		return nil, err
	}
	var files map[string]bool
	if files, err = input.ReadStringSet(); err != nil {
		return nil, err
	}

	if codecVersion >= SI_VERSION_CHECKSUM {
		if _, err = codec.CheckFooter(input); err != nil {
			return nil, err
		}
	} else if err = codec.CheckEOF(input); err != nil {
		return nil, err
	}

	si = NewSegmentInfo(dir, version, segment, int(docCount), isCompoundFile, nil, diagnostics, nil)
	if err = safeSetFiles(si, files); err != nil {
		return nil, codec.NewCorruptIndexError(input, "%v", err)
	}
	success = true
	return si, nil
}

func safeSetFiles(si *SegmentInfo, files map[string]bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	si.SetFiles(files)
	return nil
}

func (f *Lucene46SegmentInfoFormat) Write(dir store.Directory,
	si *SegmentInfo, fis FieldInfos, ctx store.IOContext) (err error) {

	filename := util.SegmentFileName(si.Name, "", SI_EXTENSION)
	si.AddFile(filename)

	var output store.IndexOutput
	if output, err = dir.CreateOutput(filename, ctx); err != nil {
		return err
	}

	var success = false
	defer func() {
		if success {
			err = output.Close()
		} else {
			util.CloseWhileSuppressingError(output)
			dir.DeleteFile(filename) // ignore error
		}
	}()

	if err = codec.WriteHeader(output, SI_CODEC_NAME, SI_VERSION_CURRENT); err != nil {
		return err
	}
	// write the Lucene version that created this segment, since 3.1
	if err = output.WriteString(si.Version()); err != nil {
		return err
	}
	if err = output.WriteInt(int32(si.DocCount())); err != nil {
		return err
	}
	flag := int8(SI_NO)
	if si.IsCompoundFile() {
		flag = SI_YES
	}
	if err = output.WriteByte(byte(flag)); err != nil {
		return err
	}
	if err = output.WriteStringStringMap(si.Diagnostics()); err != nil {
		return err
	}
	if err = output.WriteStringSet(si.Files()); err != nil {
		return err
	}
	if err = codec.WriteFooter(output); err != nil {
		return err
	}
	success = true
	return nil
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
