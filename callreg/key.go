package callreg

import "fmt"

// Reserved call IDs (spec.md §3). A real call ID allocated by Registry is
// always in [1, MaxCallID).
const (
	// LegacyOpenCallID marks a call opened by an older peer convention;
	// treated as "unrequested" during lookup.
	LegacyOpenCallID uint32 = 0
	// OpenCallID marks a call opened by this client before the peer has
	// assigned a concrete call ID, so it can receive unsolicited streams.
	OpenCallID uint32 = 1<<32 - 1
	// MaxCallID bounds allocated call IDs: the wire format reserves 21 bits
	// for a call ID, independent of the 32-bit field width used for the
	// reserved wildcard values above.
	MaxCallID uint32 = 1 << 21
)

// Key identifies one pending (or about-to-be-pending) call.
type Key struct {
	ChannelID uint32
	ServiceID uint32
	MethodID  uint32
	CallID    uint32
}

// endpoint is the (channel, service, method) triple shared by all Keys that
// could plausibly adopt or match the same inbound wildcard.
type endpoint struct {
	ChannelID uint32
	ServiceID uint32
	MethodID  uint32
}

func (k Key) endpoint() endpoint {
	return endpoint{k.ChannelID, k.ServiceID, k.MethodID}
}

// sameEndpoint reports whether k and other share (channel, service, method),
// ignoring CallID.
func (k Key) sameEndpoint(other Key) bool {
	return k.endpoint() == other.endpoint()
}

func (k Key) String() string {
	return fmt.Sprintf("channel=%d service=%#x method=%#x call=%d", k.ChannelID, k.ServiceID, k.MethodID, k.CallID)
}
