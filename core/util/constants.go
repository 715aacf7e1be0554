package util

import (
	"runtime"
)

// util/Constants.java

/* The internal format version, recorded into each segment. */
const LUCENE_MAIN_VERSION = "4.10"

var (
	OS_NAME    = runtime.GOOS
	OS_ARCH    = runtime.GOARCH
	GO_VERSION = runtime.Version()
)
