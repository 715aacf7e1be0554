package util

import (
	"io"

	"github.com/op/go-logging"
)

/*
Debugging API for components such as the segment writer and the
doc-values consistency checker.

NOTE: Enabling infostreams may cause performance degradation in some
components.
*/
type InfoStream interface {
	io.Closer
	Clone() InfoStream
	Message(component, message string, args ...interface{})
	IsEnabled(component string) bool
}

/* Instance of InfoStream that does no logging at all. */
var NO_OUTPUT = NoOutput{}

type NoOutput struct{}

func (is NoOutput) Message(component, message string, args ...interface{}) {
	panic("message() should not be called when isEnabled returns false")
}

func (is NoOutput) IsEnabled(component string) bool { return false }
func (is NoOutput) Close() error                    { return nil }
func (is NoOutput) Clone() InfoStream               { return is }

/*
InfoStream forwarding every component message to a go-logging
logger at DEBUG level, prefixed with the component name.
*/
type LoggingInfoStream struct {
	log *logging.Logger
}

func NewLoggingInfoStream(module string) *LoggingInfoStream {
	return &LoggingInfoStream{logging.MustGetLogger(module)}
}

func (is *LoggingInfoStream) Message(component, message string, args ...interface{}) {
	is.log.Debugf(component+": "+message, args...)
}

func (is *LoggingInfoStream) IsEnabled(component string) bool {
	return is.log.IsEnabledFor(logging.DEBUG)
}

func (is *LoggingInfoStream) Close() error      { return nil }
func (is *LoggingInfoStream) Clone() InfoStream { return is }
