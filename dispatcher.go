package rpcclient

import (
	"github.com/microrpc/hostclient/callreg"
	"github.com/microrpc/hostclient/desc"
	"github.com/microrpc/hostclient/status"
	"github.com/microrpc/hostclient/wire"
)

// ProcessPacket decodes one inbound frame and dispatches it to the matching
// call. A frame that cannot be decoded, is server-bound, or names an unknown
// channel is dropped without a reply and reported as DataLoss,
// InvalidArgument or NotFound respectively. An unknown service or method, a
// payload that fails to decode, or an unmatched call gets a synthesized
// CLIENT_ERROR reply (never for a SERVER_ERROR) and ProcessPacket returns
// OK. It never panics on malformed input.
func (c *Client) ProcessPacket(data []byte) status.Status {
	p, err := wire.Decode(data)
	if err != nil {
		c.log.Warningf("rpcclient: dropping malformed packet: %v", err)
		return status.DataLoss
	}

	if wire.ForServer(p.Type) {
		c.log.Warningf("rpcclient: dropping misrouted %s packet", p.Type)
		return status.InvalidArgument
	}

	cc, err := c.Channel(p.ChannelID)
	if err != nil {
		c.log.Warningf("rpcclient: dropping packet for unknown channel %d", p.ChannelID)
		return status.NotFound
	}

	svc, method, err := c.descs.Method(p.ServiceID, p.MethodID)
	if err != nil {
		c.log.Warningf("rpcclient: dropping packet for unknown service/method %#x/%#x", p.ServiceID, p.MethodID)
		c.sendClientError(cc, p, status.NotFound)
		return status.OK
	}

	if method.Type == desc.ServerStreaming && p.Type == wire.Response && len(p.Payload) > 0 {
		p.Type = wire.ServerStream
	}

	switch p.Type {
	case wire.Response, wire.ServerStream, wire.ServerError:
	default:
		c.log.Debugf("rpcclient: ignoring unexpected %s packet", p.Type)
		return status.OK
	}

	var st *status.Status
	if p.Type != wire.ServerStream {
		s := status.FromUint32(p.Status)
		st = &s
	}

	var payload interface{}
	switch {
	case p.Type == wire.ServerError:
		// No payload is decoded for a server-reported error.
	case p.Type == wire.Response && method.Type == desc.ServerStreaming:
		// Terminal response on a server-streaming method carries no payload.
	default:
		decoded, decErr := method.Response.DecodePayload(p.Payload)
		if decErr != nil {
			c.log.Warningf("rpcclient: payload decode failed for %s.%s: %v", svc.Name, method.Name, decErr)
			c.sendClientError(cc, p, status.DataLoss)
			p.Type = wire.ServerError
			dataLoss := status.DataLoss
			st = &dataLoss
			payload = nil
		} else {
			payload = decoded
		}
	}

	key := callreg.Key{ChannelID: p.ChannelID, ServiceID: p.ServiceID, MethodID: p.MethodID, CallID: p.CallID}

	if c.preDispatch != nil && p.Type != wire.ServerError {
		call := callFromKey(cc.channel, svc, method, key)
		c.preDispatch(call, payload, st)
	}

	completing := st != nil
	context, ok := c.reg.Lookup(key, completing)
	if !ok {
		c.log.Warningf("rpcclient: unmatched %s packet for %s.%s call=%d", p.Type, svc.Name, method.Name, p.CallID)
		c.sendClientError(cc, p, status.FailedPrecondition)
		return status.OK
	}

	call := callFromKey(cc.channel, svc, method, key)

	if p.Type == wire.ServerError {
		c.impl.HandleError(call, context, *st)
		return status.OK
	}

	if payload != nil {
		c.impl.HandleResponse(call, context, payload)
	}
	if st != nil {
		c.impl.HandleCompletion(call, context, *st)
	}

	return status.OK
}

// sendClientError synthesizes and sends a CLIENT_ERROR frame replying to
// inbound, unless inbound is itself a SERVER_ERROR (replying to one would
// create a reply loop).
func (c *Client) sendClientError(cc *ChannelClient, inbound wire.Packet, code status.Status) {
	if inbound.Type == wire.ServerError {
		return
	}
	frame := wire.EncodeClientError(inbound, uint32(code))
	if err := cc.channel.Output(frame); err != nil {
		c.log.Warningf("rpcclient: failed to send CLIENT_ERROR on channel %d: %v", cc.channel.ID, err)
	}
}
