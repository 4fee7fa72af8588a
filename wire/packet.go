// Package wire implements the binary frame format exchanged between the
// host client and an embedded RPC peer. The backward-compatibility rewrite
// of an older peer's RESPONSE frames into SERVER_STREAM frames is not done
// here; rpcclient's ProcessPacket applies it after decoding.
//
// The encoding itself is intentionally unremarkable: each field of a Packet
// is a distinct protobuf wire-format tag, built and parsed with
// google.golang.org/protobuf/encoding/protowire. Nothing here requires a
// compiled .proto schema; the packet shape is fixed and is fully described
// by the Packet struct below.
package wire

// Type identifies the role a Packet plays in the protocol.
type Type uint8

const (
	// Request invokes a method. Sent by the client.
	Request Type = iota + 1
	// Response carries a unary result or, on older peers, a server-stream
	// chunk (see the rewrite applied by callers of Decode).
	Response
	// ClientStream carries one message of a client- or bidi-streaming call.
	ClientStream
	// ServerStream carries one message of a server- or bidi-streaming call.
	ServerStream
	// ClientError reports a client-observed failure back to the peer.
	ClientError
	// ServerError reports that the peer failed to service a call.
	ServerError
	// ClientStreamEnd signals that the client has no more stream messages.
	ClientStreamEnd
	// Cancel asks the peer to abandon a call.
	Cancel
)

// String names a Type for logging; unrecognized values print as
// UNKNOWN_PACKET_TYPE.
func (t Type) String() string {
	switch t {
	case Request:
		return "REQUEST"
	case Response:
		return "RESPONSE"
	case ClientStream:
		return "CLIENT_STREAM"
	case ServerStream:
		return "SERVER_STREAM"
	case ClientError:
		return "CLIENT_ERROR"
	case ServerError:
		return "SERVER_ERROR"
	case ClientStreamEnd:
		return "CLIENT_STREAM_END"
	case Cancel:
		return "CANCEL"
	default:
		return "UNKNOWN_PACKET_TYPE"
	}
}

// Packet is a single decoded wire frame.
type Packet struct {
	Type      Type
	ChannelID uint32
	ServiceID uint32
	MethodID  uint32
	CallID    uint32
	Payload   []byte

	// Status and StatusPresent together represent the wire "status" field,
	// which the frames this client sends carry only on CLIENT_ERROR; REQUEST,
	// CLIENT_STREAM, CLIENT_STREAM_END and CANCEL frames are encoded without
	// it, and stream frames never carry it.
	Status        uint32
	StatusPresent bool
}

// ForServer reports whether t belongs to the server-bound set. Such a
// packet arriving at ProcessPacket indicates a misrouted frame.
func ForServer(t Type) bool {
	switch t {
	case Request, ClientStream, ClientStreamEnd, Cancel, ClientError:
		return true
	default:
		return false
	}
}
