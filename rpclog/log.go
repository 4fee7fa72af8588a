// Package rpclog provides the logger used by the RPC client packages.
//
// It is a thin wrapper around github.com/op/go-logging, following the same
// module-level-logger-per-package convention used elsewhere in the
// surrounding codebase (a single logger obtained once via
// logging.MustGetLogger and reused for the lifetime of the process).
package rpclog

import "github.com/op/go-logging"

var log = logging.MustGetLogger("rpc")

// Logger is the narrow logging surface the client packages depend on. It is
// satisfied by *logging.Logger; tests may substitute a recording fake.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Default returns the package-wide logger.
func Default() Logger {
	return log
}

// discard is a Logger that drops everything; used when a caller explicitly
// disables logging via Option.
type discard struct{}

func (discard) Debugf(string, ...interface{})   {}
func (discard) Warningf(string, ...interface{}) {}
func (discard) Errorf(string, ...interface{})   {}

// Discard is a Logger that does nothing.
var Discard Logger = discard{}
