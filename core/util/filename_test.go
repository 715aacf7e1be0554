package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentFileName(t *testing.T) {
	require.Equal(t, "_0.fnm", SegmentFileName("_0", "", "fnm"))
	require.Equal(t, "_0_Lucene45_0.dvd", SegmentFileName("_0", "Lucene45_0", "dvd"))
	require.Equal(t, "_0", SegmentFileName("_0", "", ""))
}

func TestParseSegmentName(t *testing.T) {
	require.Equal(t, "_0", ParseSegmentName("_0.fnm"))
	require.Equal(t, "_0", ParseSegmentName("_0_Lucene45_0.dvd"))
	require.Equal(t, "dvd", FileExtension("_0_Lucene45_0.dvd"))
	require.Equal(t, "_a_1.del", FileNameFromGeneration("_a", "del", 1))
	require.Equal(t, "", FileNameFromGeneration("_a", "del", -1))
}

func TestCodecFilePattern(t *testing.T) {
	require.True(t, CODEC_FILE_PATTERN.MatchString("_0.fnm"))
	require.True(t, CODEC_FILE_PATTERN.MatchString("_1f_Lucene45_0.dvm"))
	require.False(t, CODEC_FILE_PATTERN.MatchString("segments_1"))
}
