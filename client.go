// Package rpcclient is a host-side client for a lightweight binary RPC
// protocol designed for embedded targets. It multiplexes multiple logical
// channels onto a single byte-oriented transport, tracks the lifecycle of
// concurrent calls (unary, client-streaming, server-streaming, and
// bidirectional-streaming), and dispatches incoming packets to the correct
// call while enforcing the protocol invariants described in the package's
// design notes.
//
// The transport is assumed to deliver exactly one complete packet per call
// to ProcessPacket; framing a byte stream into packets is the embedder's
// concern, as is the concrete message schema (desc.PayloadCodec is the
// seam for that).
package rpcclient

import (
	"fmt"

	"github.com/microrpc/hostclient/callreg"
	"github.com/microrpc/hostclient/desc"
	"github.com/microrpc/hostclient/rpclog"
	"github.com/microrpc/hostclient/status"
)

// Impl is the embedder-supplied upcall sink: the interface through which
// the core reports response payloads, terminal status, and errors, and
// through which the embedder's user-facing call objects are created.
type Impl interface {
	// Init is called once, at Client construction, with the handle the
	// implementation should use to start or cancel calls (including from
	// within its own upcalls). This is the explicit alternative to
	// installing a back-reference by mutation after the fact.
	Init(calls *Calls)

	// MethodClient returns an opaque object that invokes method on
	// channel; its type is determined entirely by Impl and is never
	// interpreted by the core.
	MethodClient(channel *Channel, service *desc.Service, method *desc.Method) interface{}

	// HandleResponse delivers one response payload for call.
	HandleResponse(call Call, context interface{}, payload interface{})
	// HandleCompletion reports the successful, terminal completion of
	// call.
	HandleCompletion(call Call, context interface{}, s status.Status)
	// HandleError reports the abnormal termination of call.
	HandleError(call Call, context interface{}, s status.Status)
}

// PreDispatchFunc observes every non-error inbound packet before the
// registry lookup that resolves it to a pending call. It may inspect but
// must not mutate its arguments, and its return value is ignored
// (spec.md §4.4 step 9, §9 design note).
type PreDispatchFunc func(call Call, payload interface{}, s *status.Status)

// Option configures a Client at construction time.
type Option func(*Client)

// WithPreDispatch installs a PreDispatchFunc.
func WithPreDispatch(fn PreDispatchFunc) Option {
	return func(c *Client) { c.preDispatch = fn }
}

// WithLogger overrides the default logger.
func WithLogger(log rpclog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithCallIDSeed starts the call ID counter at seed instead of 1. It exists
// for tests that want deterministic call IDs; production callers should
// leave it unset.
func WithCallIDSeed(seed uint32) Option {
	return func(c *Client) { c.callIDSeed = seed }
}

// Client sends requests and handles responses for a set of channels.
type Client struct {
	impl  Impl
	reg   *callreg.Registry
	calls *Calls
	descs *desc.Registry
	log   rpclog.Logger

	channelOrder []uint32
	channels     map[uint32]*ChannelClient

	preDispatch PreDispatchFunc
	callIDSeed  uint32
}

// New builds a Client bound to the given channels and service descriptors.
// impl.Init is invoked before New returns, with the Calls handle impl
// should use to start and cancel calls.
func New(impl Impl, channels []*Channel, services *desc.Registry, opts ...Option) *Client {
	c := &Client{
		impl:         impl,
		descs:        services,
		log:          rpclog.Default(),
		channelOrder: make([]uint32, 0, len(channels)),
		channels:     make(map[uint32]*ChannelClient, len(channels)),
	}
	for _, opt := range opts {
		opt(c)
	}

	reg := callreg.NewRegistryWithSeed(c.callIDSeed)
	c.reg = reg
	c.calls = newCalls(reg)

	impl.Init(c.calls)

	for _, ch := range channels {
		cc := &ChannelClient{
			client:        c,
			channel:       ch,
			methodClients: make(map[uint32]map[uint32]interface{}),
		}
		for _, svc := range services.Services() {
			byMethod := make(map[uint32]interface{}, len(svc.Methods()))
			for _, m := range svc.Methods() {
				byMethod[m.ID] = impl.MethodClient(ch, svc, m)
			}
			cc.methodClients[svc.ID] = byMethod
		}
		c.channels[ch.ID] = cc
		c.channelOrder = append(c.channelOrder, ch.ID)
	}

	return c
}

// Channel returns the ChannelClient for id. With no argument, it returns
// the first channel in construction order.
func (c *Client) Channel(id ...uint32) (*ChannelClient, error) {
	var want uint32
	if len(id) == 0 {
		if len(c.channelOrder) == 0 {
			return nil, fmt.Errorf("rpcclient: client has no channels")
		}
		want = c.channelOrder[0]
	} else {
		want = id[0]
	}
	cc, ok := c.channels[want]
	if !ok {
		return nil, fmt.Errorf("rpcclient: unknown channel %d", want)
	}
	return cc, nil
}

// Method resolves a method by its canonical name ("pkg.Service/Method" or
// "pkg.Service.Method").
func (c *Client) Method(name string) (*desc.Service, *desc.Method, error) {
	return c.resolveMethod(name)
}

func (c *Client) resolveMethod(name string) (*desc.Service, *desc.Method, error) {
	return c.descs.Resolve(name)
}

// Services returns the client's services in registration order.
func (c *Client) Services() []*desc.Service {
	return c.descs.Services()
}

// Methods iterates over every method of every service this client knows
// about.
func (c *Client) Methods() []*desc.Method {
	var out []*desc.Method
	for _, svc := range c.descs.Services() {
		out = append(out, svc.Methods()...)
	}
	return out
}

// Calls returns the handle used to start and cancel calls. Embedders that
// build their own Impl typically only need this via Impl.Init; it is also
// exposed here for callers that drive calls directly against the Client.
func (c *Client) Calls() *Calls {
	return c.calls
}

func (c *Client) String() string {
	return fmt.Sprintf("rpcclient.Client(channels=%v)", c.channelOrder)
}
