package util

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/* Name of the generation-less file listing an index's segments. */
const SEGMENTS = "segments"

/*
Computes the full file name from base, extension and generation. If
the generation is -1, the file name is "". If it's 0, the file name
is <base>.<ext>. Otherwise it's <base>_<gen>.<ext> with gen in radix 36.
*/
func FileNameFromGeneration(base, ext string, gen int64) string {
	switch {
	case gen == -1:
		return ""
	case gen == 0:
		return SegmentFileName(base, "", ext)
	default:
		var buffer bytes.Buffer
		fmt.Fprintf(&buffer, "%v_%v", base, strconv.FormatInt(gen, 36))
		if len(ext) > 0 {
			buffer.WriteString(".")
			buffer.WriteString(ext)
		}
		return buffer.String()
	}
}

/*
Returns a file name that includes the given segment name, your own
custom name and extension. The format of the filename is:
<segmentName>(_<name>)(.<ext>).
*/
func SegmentFileName(name, suffix, ext string) string {
	if len(ext) > 0 || len(suffix) > 0 {
		assert2(len(ext) == 0 || ext[0] != '.', "extension %q starts with a dot", ext)
		var buffer bytes.Buffer
		buffer.WriteString(name)
		if len(suffix) > 0 {
			buffer.WriteString("_")
			buffer.WriteString(suffix)
		}
		if len(ext) > 0 {
			buffer.WriteString(".")
			buffer.WriteString(ext)
		}
		return buffer.String()
	}
	return name
}

func indexOfSegmentName(filename string) int {
	// If it is a .del file, there's an '_' after the first character
	if idx := strings.Index(filename[1:], "_"); idx >= 0 {
		return idx + 1
	}
	// If it's not, strip everything that's before the '.'
	return strings.Index(filename, ".")
}

func ParseSegmentName(filename string) string {
	if idx := indexOfSegmentName(filename); idx != -1 {
		return filename[0:idx]
	}
	return filename
}

/* Returns the extension of the file name, or "" if none. */
func FileExtension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx != -1 {
		return filename[idx+1:]
	}
	return ""
}

/*
All files created by codecs must match this pattern (checked in SegmentInfo)
*/
var CODEC_FILE_PATTERN = regexp.MustCompile("_[a-z0-9]+(_.*)?\\..*")
