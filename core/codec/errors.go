package codec

import (
	"fmt"
)

/*
This error is returned when Lucene detects an inconsistency in the
index. The resource names the file (or stream) where it was found.
*/
type CorruptIndexError struct {
	Message  string
	Resource string
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("%v (resource=%v)", e.Message, e.Resource)
}

func NewCorruptIndexError(resource interface{}, msg string, args ...interface{}) error {
	return &CorruptIndexError{fmt.Sprintf(msg, args...), fmt.Sprintf("%v", resource)}
}

/*
This error is returned when Lucene detects an index that is too old
for this Lucene version.
*/
type IndexFormatTooOldError struct {
	Resource                        string
	Version, MinVersion, MaxVersion int32
}

func NewIndexFormatTooOldError(in interface{}, version, minVersion, maxVersion int32) error {
	return &IndexFormatTooOldError{fmt.Sprintf("%v", in), version, minVersion, maxVersion}
}

func (e *IndexFormatTooOldError) Error() string {
	return fmt.Sprintf(
		"Format version is not supported (resource: %v): %v (needs to be between %v and %v). This version of Lucene only supports indexes created with release 4.0 and later.",
		e.Resource, e.Version, e.MinVersion, e.MaxVersion)
}

/*
This error is returned when Lucene detects an index that is newer
than this Lucene version.
*/
type IndexFormatTooNewError struct {
	Resource                        string
	Version, MinVersion, MaxVersion int32
}

func NewIndexFormatTooNewError(in interface{}, version, minVersion, maxVersion int32) error {
	return &IndexFormatTooNewError{fmt.Sprintf("%v", in), version, minVersion, maxVersion}
}

func (e *IndexFormatTooNewError) Error() string {
	return fmt.Sprintf(
		"Format version is not supported (resource: %v): %v (needs to be between %v and %v)",
		e.Resource, e.Version, e.MinVersion, e.MaxVersion)
}
