// Package protocodec adapts a protobuf message type to desc.PayloadCodec,
// for embedders whose request/response schemas are ordinary generated
// google.golang.org/protobuf messages rather than something more exotic.
//
// This mirrors how jhump-protoreflect's grpcdynamic.Stub resolves a
// response message either through a caller-supplied resolver or falls back
// to constructing a fresh instance of the expected type; here the "expected
// type" is fixed at codec construction time instead of looked up per-call,
// since the core treats the schema as opaque.
package protocodec

import "google.golang.org/protobuf/proto"

// Codec decodes wire bytes into a fresh instance of a fixed protobuf
// message type.
type Codec struct {
	newMessage func() proto.Message
}

// New returns a Codec that decodes into new instances produced by
// newMessage. newMessage must return a zero-valued message each call (e.g.
// `func() proto.Message { return &pb.Foo{} }`).
func New(newMessage func() proto.Message) *Codec {
	return &Codec{newMessage: newMessage}
}

// DecodePayload implements desc.PayloadCodec.
func (c *Codec) DecodePayload(raw []byte) (interface{}, error) {
	msg := c.newMessage()
	if err := proto.Unmarshal(raw, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
