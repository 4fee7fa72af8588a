package rpcclient

import (
	"fmt"

	"github.com/microrpc/hostclient/desc"
)

// OutputFunc delivers one fully-encoded packet to the transport. It is
// called synchronously from ProcessPacket and from the Calls send methods,
// so a blocking OutputFunc blocks those callers. No registry lock is held
// while it runs, and ProcessPacket does not serialize concurrent
// invocations of itself.
type OutputFunc func(packet []byte) error

// Channel is a logical multiplexed link over the transport, identified by a
// non-zero channel ID and an output sink supplied by the embedder.
type Channel struct {
	ID     uint32
	Output OutputFunc
}

// ChannelClient is the view of a Client scoped to one Channel: it carries
// the method-client objects the Impl built for that channel, keyed by
// service and method so MethodClient can be retrieved without walking the
// descriptor registry again.
type ChannelClient struct {
	client  *Client
	channel *Channel

	// methodClients[serviceID][methodID] is whatever Impl.MethodClient
	// returned when this ChannelClient was constructed. Its shape is opaque
	// to the core (spec.md §6).
	methodClients map[uint32]map[uint32]interface{}
}

// Channel returns the underlying Channel.
func (cc *ChannelClient) Channel() *Channel {
	return cc.channel
}

// Method resolves a method by its canonical name ("pkg.Service/Method" or
// "pkg.Service.Method") via the client's descriptor registry.
func (cc *ChannelClient) Method(name string) (*desc.Service, *desc.Method, error) {
	return cc.client.resolveMethod(name)
}

// MethodClient returns the opaque method-client object Impl.MethodClient
// produced for (serviceID, methodID) on this channel.
func (cc *ChannelClient) MethodClient(serviceID, methodID uint32) (interface{}, bool) {
	byMethod, ok := cc.methodClients[serviceID]
	if !ok {
		return nil, false
	}
	mc, ok := byMethod[methodID]
	return mc, ok
}

func (cc *ChannelClient) String() string {
	return fmt.Sprintf("ChannelClient(channel=%d)", cc.channel.ID)
}
