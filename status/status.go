// Package status defines the result codes used throughout the RPC client.
//
// The set of codes is the subset of the gRPC canonical status codes that
// the dispatcher and pending-call registry need. Reusing codes.Code rather
// than defining a parallel enum means callers that already use grpc-go
// elsewhere in their process share a single status vocabulary.
package status

import "google.golang.org/grpc/codes"

// Status is a result code attached to a completed or failed call.
type Status = codes.Code

// Codes used by the core. Any wire value that does not map to one of these
// (or to another codes.Code known to grpc-go) is reported as Unknown.
const (
	OK                 = codes.OK
	Cancelled          = codes.Canceled
	Unknown            = codes.Unknown
	InvalidArgument    = codes.InvalidArgument
	NotFound           = codes.NotFound
	FailedPrecondition = codes.FailedPrecondition
	DataLoss           = codes.DataLoss
)

// FromUint32 interprets a wire status value as a Status, substituting
// Unknown for any value that does not name a known code.
func FromUint32(v uint32) Status {
	c := codes.Code(v)
	if c > codes.Unauthenticated {
		return Unknown
	}
	return c
}
