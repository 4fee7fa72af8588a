package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrDecode is returned (wrapped) when bytes cannot be parsed as a Packet.
// Payload decoding errors come from the method's desc.PayloadCodec instead.
var ErrDecode = errors.New("wire: malformed packet")

const (
	fieldType      = 1
	fieldChannelID = 2
	fieldServiceID = 3
	fieldMethodID  = 4
	fieldCallID    = 5
	fieldPayload   = 6
	fieldStatus    = 7
)

// Key identifies the call a frame belongs to; it mirrors callreg.Key without
// introducing a dependency from wire on callreg.
type Key struct {
	ChannelID uint32
	ServiceID uint32
	MethodID  uint32
	CallID    uint32
}

func header(dst []byte, k Key) []byte {
	dst = protowire.AppendTag(dst, fieldChannelID, protowire.VarintType)
	dst = protowire.AppendVarint(dst, uint64(k.ChannelID))
	dst = protowire.AppendTag(dst, fieldServiceID, protowire.VarintType)
	dst = protowire.AppendVarint(dst, uint64(k.ServiceID))
	dst = protowire.AppendTag(dst, fieldMethodID, protowire.VarintType)
	dst = protowire.AppendVarint(dst, uint64(k.MethodID))
	dst = protowire.AppendTag(dst, fieldCallID, protowire.VarintType)
	dst = protowire.AppendVarint(dst, uint64(k.CallID))
	return dst
}

func encodePacket(p Packet) []byte {
	var dst []byte
	dst = protowire.AppendTag(dst, fieldType, protowire.VarintType)
	dst = protowire.AppendVarint(dst, uint64(p.Type))
	dst = header(dst, Key{p.ChannelID, p.ServiceID, p.MethodID, p.CallID})
	dst = protowire.AppendTag(dst, fieldPayload, protowire.BytesType)
	dst = protowire.AppendBytes(dst, p.Payload)
	if p.StatusPresent {
		dst = protowire.AppendTag(dst, fieldStatus, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(p.Status))
	}
	return dst
}

// Encode builds the wire frame for an arbitrary Packet. The five
// EncodeXxx helpers below cover the frames this client sends; Encode itself
// is the general form, useful for building fakes of the peer side in tests.
func Encode(p Packet) []byte {
	return encodePacket(p)
}

// EncodeRequest builds a REQUEST frame invoking the call identified by key.
func EncodeRequest(key Key, payload []byte) []byte {
	return encodePacket(Packet{Type: Request, ChannelID: key.ChannelID, ServiceID: key.ServiceID, MethodID: key.MethodID, CallID: key.CallID, Payload: payload})
}

// EncodeCancel builds a CANCEL frame for key.
func EncodeCancel(key Key) []byte {
	return encodePacket(Packet{Type: Cancel, ChannelID: key.ChannelID, ServiceID: key.ServiceID, MethodID: key.MethodID, CallID: key.CallID})
}

// EncodeClientStream builds a CLIENT_STREAM frame carrying one message.
func EncodeClientStream(key Key, payload []byte) []byte {
	return encodePacket(Packet{Type: ClientStream, ChannelID: key.ChannelID, ServiceID: key.ServiceID, MethodID: key.MethodID, CallID: key.CallID, Payload: payload})
}

// EncodeClientStreamEnd builds a CLIENT_STREAM_END frame for key.
func EncodeClientStreamEnd(key Key) []byte {
	return encodePacket(Packet{Type: ClientStreamEnd, ChannelID: key.ChannelID, ServiceID: key.ServiceID, MethodID: key.MethodID, CallID: key.CallID})
}

// EncodeClientError builds a CLIENT_ERROR frame replying to inbound with the
// given status. It is the caller's responsibility to never invoke this for
// an inbound SERVER_ERROR packet (doing so would create a reply loop).
func EncodeClientError(inbound Packet, status uint32) []byte {
	return encodePacket(Packet{
		Type:          ClientError,
		ChannelID:     inbound.ChannelID,
		ServiceID:     inbound.ServiceID,
		MethodID:      inbound.MethodID,
		CallID:        inbound.CallID,
		Status:        status,
		StatusPresent: true,
	})
}

// Decode parses a single wire frame. It fails with an error wrapping
// ErrDecode if data is malformed.
func Decode(data []byte) (Packet, error) {
	var p Packet
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Packet{}, fmt.Errorf("%w: bad tag: %v", ErrDecode, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad type field: %v", ErrDecode, protowire.ParseError(n))
			}
			p.Type = Type(v)
			data = data[n:]
		case num == fieldChannelID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad channel_id field: %v", ErrDecode, protowire.ParseError(n))
			}
			p.ChannelID = uint32(v)
			data = data[n:]
		case num == fieldServiceID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad service_id field: %v", ErrDecode, protowire.ParseError(n))
			}
			p.ServiceID = uint32(v)
			data = data[n:]
		case num == fieldMethodID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad method_id field: %v", ErrDecode, protowire.ParseError(n))
			}
			p.MethodID = uint32(v)
			data = data[n:]
		case num == fieldCallID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad call_id field: %v", ErrDecode, protowire.ParseError(n))
			}
			p.CallID = uint32(v)
			data = data[n:]
		case num == fieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad payload field: %v", ErrDecode, protowire.ParseError(n))
			}
			p.Payload = append([]byte(nil), v...)
			data = data[n:]
		case num == fieldStatus && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad status field: %v", ErrDecode, protowire.ParseError(n))
			}
			p.Status = uint32(v)
			p.StatusPresent = true
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Packet{}, fmt.Errorf("%w: bad unknown field %d: %v", ErrDecode, num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	if p.Payload == nil {
		p.Payload = []byte{}
	}
	return p, nil
}
