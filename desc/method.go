// Package desc is the descriptor registry: an immutable lookup from
// (service_id, method_id) to method descriptor, plus the two supported
// method-name syntaxes ("pkg.Service/Method" and "pkg.Service.Method").
//
// The concrete message schema language is explicitly out of scope (see
// spec.md's Non-goals); PayloadCodec is the seam an embedder uses to plug
// one in. desc/protocodec provides a google.golang.org/protobuf-backed
// implementation of that seam.
package desc

import "fmt"

// Type identifies a method's streaming shape.
type Type int

const (
	Unary Type = iota
	ServerStreaming
	ClientStreaming
	BidiStreaming
)

func (t Type) String() string {
	switch t {
	case Unary:
		return "UNARY"
	case ServerStreaming:
		return "SERVER_STREAMING"
	case ClientStreaming:
		return "CLIENT_STREAMING"
	case BidiStreaming:
		return "BIDIRECTIONAL_STREAMING"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// PayloadCodec validates and decodes the opaque bytes of a request or
// response payload. The concrete schema representation belongs to the
// embedder; the core only needs to know whether decoding succeeded.
type PayloadCodec interface {
	// DecodePayload parses raw against this codec's message type. The
	// returned value is passed through to the upcall sink verbatim.
	DecodePayload(raw []byte) (interface{}, error)
}

// RawCodec is a PayloadCodec that performs no decoding: it returns the raw
// bytes unchanged. Useful for tests and for embedders that want to decode
// payloads themselves.
type RawCodec struct{}

func (RawCodec) DecodePayload(raw []byte) (interface{}, error) { return raw, nil }

// Method describes one RPC method of a Service.
type Method struct {
	ID       uint32
	Name     string
	Type     Type
	Request  PayloadCodec
	Response PayloadCodec
}

func (m *Method) String() string {
	return m.Name
}
