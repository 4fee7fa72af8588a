package rpcclient

import (
	"fmt"

	"github.com/microrpc/hostclient/callreg"
	"github.com/microrpc/hostclient/desc"
)

// Call identifies one RPC invocation: the channel and method it runs on,
// plus its call ID. It is the "rpc" argument to every Impl upcall and is
// the PendingRpc of spec.md §3, minus the embedder context (which arrives
// as a separate argument so the registry never has to interpret it).
type Call struct {
	Channel *Channel
	Service *desc.Service
	Method  *desc.Method
	CallID  uint32
}

// Key returns the callreg.Key this Call corresponds to.
func (c Call) Key() callreg.Key {
	return callreg.Key{
		ChannelID: c.Channel.ID,
		ServiceID: c.Service.ID,
		MethodID:  c.Method.ID,
		CallID:    c.CallID,
	}
}

func (c Call) String() string {
	return fmt.Sprintf("%s.%s(channel=%d, call=%d)", c.Service.Name, c.Method.Name, c.Channel.ID, c.CallID)
}

func callFromKey(channel *Channel, svc *desc.Service, method *desc.Method, key callreg.Key) Call {
	return Call{Channel: channel, Service: svc, Method: method, CallID: key.CallID}
}
