package rpcclient

import (
	"fmt"

	"github.com/microrpc/hostclient/callreg"
	"github.com/microrpc/hostclient/wire"
)

// Calls is the outbound half of the pending-call registry: it composes
// callreg.Registry (call bookkeeping) with the wire codec and a channel's
// output sink to implement the six operations spec.md §4.3 assigns to the
// registry (register_and_encode, send_request, send_client_stream,
// send_client_stream_end, cancel, send_cancel).
//
// An Impl receives a *Calls at construction time (via Init) so its
// callbacks can start or cancel calls without a separately-installed
// back-reference (spec.md §9 design note).
type Calls struct {
	reg *callreg.Registry
}

func newCalls(reg *callreg.Registry) *Calls {
	return &Calls{reg: reg}
}

// AllocateCallID returns a fresh call ID for starting a new call.
func (c *Calls) AllocateCallID() uint32 {
	return c.reg.AllocateCallID()
}

func wireKey(k callreg.Key) wire.Key {
	return wire.Key{ChannelID: k.ChannelID, ServiceID: k.ServiceID, MethodID: k.MethodID, CallID: k.CallID}
}

// Open registers key with the given context but sends nothing. It is used
// to receive unsolicited server streams: register with
// callreg.Key{CallID: callreg.OpenCallID} before any request has been sent.
func (c *Calls) Open(key callreg.Key, context interface{}) error {
	return c.reg.Open(key, context)
}

// RegisterAndEncode opens key and returns the REQUEST frame to send.
func (c *Calls) RegisterAndEncode(key callreg.Key, payload []byte, context interface{}) ([]byte, error) {
	if err := c.reg.Open(key, context); err != nil {
		return nil, err
	}
	return wire.EncodeRequest(wireKey(key), payload), nil
}

// SendRequest opens key and writes the REQUEST frame to channel.
func (c *Calls) SendRequest(channel *Channel, key callreg.Key, payload []byte, context interface{}) error {
	packet, err := c.RegisterAndEncode(key, payload, context)
	if err != nil {
		return err
	}
	return channel.Output(packet)
}

// SendClientStream writes a CLIENT_STREAM frame for an active call. It
// fails with callreg.ErrInactiveCall if key has no active entry.
func (c *Calls) SendClientStream(channel *Channel, key callreg.Key, payload []byte) error {
	if !c.reg.Contains(key) {
		return fmt.Errorf("%w: %s", callreg.ErrInactiveCall, key)
	}
	return channel.Output(wire.EncodeClientStream(wireKey(key), payload))
}

// SendClientStreamEnd writes a CLIENT_STREAM_END frame for an active call.
// It fails with callreg.ErrInactiveCall if key has no active entry.
func (c *Calls) SendClientStreamEnd(channel *Channel, key callreg.Key) error {
	if !c.reg.Contains(key) {
		return fmt.Errorf("%w: %s", callreg.ErrInactiveCall, key)
	}
	return channel.Output(wire.EncodeClientStreamEnd(wireKey(key)))
}

// Cancel removes key's entry and returns the CANCEL frame to send. It
// fails with callreg.ErrNotPending if key has no active entry.
func (c *Calls) Cancel(key callreg.Key) ([]byte, error) {
	if _, ok := c.reg.Remove(key); !ok {
		return nil, fmt.Errorf("%w: %s", callreg.ErrNotPending, key)
	}
	return wire.EncodeCancel(wireKey(key)), nil
}

// SendCancel cancels key and writes the CANCEL frame to channel. It
// returns false (and sends nothing) if key had no active entry.
func (c *Calls) SendCancel(channel *Channel, key callreg.Key) bool {
	packet, err := c.Cancel(key)
	if err != nil {
		return false
	}
	if err := channel.Output(packet); err != nil {
		return true
	}
	return true
}
