package wire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []Packet{
		{Type: Request, ChannelID: 1, ServiceID: 0xAAAA, MethodID: 0xBB, CallID: 42, Payload: []byte("hello"), StatusPresent: false},
		{Type: Cancel, ChannelID: 1, ServiceID: 0xAAAA, MethodID: 0xBB, CallID: 42, Payload: []byte{}},
		{Type: ClientStream, ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4, Payload: []byte{1, 2, 3}},
		{Type: ClientStreamEnd, ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4, Payload: []byte{}},
		{Type: Response, ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4, Payload: []byte("resp"), Status: 0, StatusPresent: true},
		{Type: ServerStream, ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4, Payload: []byte("chunk")},
		{Type: ServerError, ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4, Payload: []byte{}, Status: 13, StatusPresent: true},
		{Type: ClientError, ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 0xFFFFFFFF, Payload: []byte{}, Status: 5, StatusPresent: true},
	}

	for _, want := range cases {
		got, err := Decode(encodePacket(want))
		require.NoError(t, err)
		if want.Payload == nil {
			want.Payload = []byte{}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEncodeHelpers(t *testing.T) {
	key := Key{ChannelID: 1, ServiceID: 0xAAAA, MethodID: 0xBB, CallID: 42}

	p, err := Decode(EncodeRequest(key, []byte("req")))
	require.NoError(t, err)
	require.Equal(t, Request, p.Type)
	require.Equal(t, []byte("req"), p.Payload)
	require.False(t, p.StatusPresent)

	p, err = Decode(EncodeCancel(key))
	require.NoError(t, err)
	require.Equal(t, Cancel, p.Type)

	p, err = Decode(EncodeClientStream(key, []byte("chunk")))
	require.NoError(t, err)
	require.Equal(t, ClientStream, p.Type)
	require.Equal(t, []byte("chunk"), p.Payload)

	p, err = Decode(EncodeClientStreamEnd(key))
	require.NoError(t, err)
	require.Equal(t, ClientStreamEnd, p.Type)

	inbound := Packet{ChannelID: 1, ServiceID: 0xAAAA, MethodID: 0xBB, CallID: 42}
	p, err = Decode(EncodeClientError(inbound, 5))
	require.NoError(t, err)
	require.Equal(t, ClientError, p.Type)
	require.True(t, p.StatusPresent)
	require.Equal(t, uint32(5), p.Status)
}

func TestForServer(t *testing.T) {
	serverBound := []Type{Request, ClientStream, ClientStreamEnd, Cancel, ClientError}
	for _, typ := range serverBound {
		require.True(t, ForServer(typ), "%s should be server-bound", typ)
	}
	clientBound := []Type{Response, ServerStream, ServerError}
	for _, typ := range clientBound {
		require.False(t, ForServer(typ), "%s should not be server-bound", typ)
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte{0xFF})
	require.ErrorIs(t, err, ErrDecode)
}
