package callreg

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestAllocateCallID_NeverZeroOrOpen(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < int(MaxCallID)+10; i++ {
		id := r.AllocateCallID()
		require.NotEqual(t, LegacyOpenCallID, id)
		require.Less(t, id, MaxCallID)
		require.GreaterOrEqual(t, id, uint32(1))
	}
}

func TestOpen_AlreadyPending(t *testing.T) {
	r := NewRegistry()
	key := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4}
	require.NoError(t, r.Open(key, "ctx"))
	err := r.Open(key, "other")
	require.ErrorIs(t, err, ErrAlreadyPending)
}

func TestOpen_ConcurrentRace(t *testing.T) {
	r := NewRegistry()
	key := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4}

	const attempts = 16
	var successes sync.Mutex
	var successCount int

	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			if err := r.Open(key, "ctx"); err == nil {
				successes.Lock()
				successCount++
				successes.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, successCount)
}

func TestLookup_CompletionClears(t *testing.T) {
	r := NewRegistry()
	key := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4}
	require.NoError(t, r.Open(key, "ctx"))

	ctx, ok := r.Lookup(key, true)
	require.True(t, ok)
	require.Equal(t, "ctx", ctx)

	_, ok = r.Lookup(key, false)
	require.False(t, ok)
}

func TestLookup_NonCompletionKeepsEntry(t *testing.T) {
	r := NewRegistry()
	key := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4}
	require.NoError(t, r.Open(key, "ctx"))

	ctx, ok := r.Lookup(key, false)
	require.True(t, ok)
	require.Equal(t, "ctx", ctx)

	ctx, ok = r.Lookup(key, false)
	require.True(t, ok)
	require.Equal(t, "ctx", ctx)
}

func TestLookup_WildcardInboundMatchesUnrequested(t *testing.T) {
	r := NewRegistry()
	key := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 7}
	require.NoError(t, r.Open(key, "ctx"))

	inbound := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: LegacyOpenCallID}
	ctx, ok := r.Lookup(inbound, false)
	require.True(t, ok)
	require.Equal(t, "ctx", ctx)
}

func TestLookup_OpenCallAdoption(t *testing.T) {
	r := NewRegistry()
	openKey := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: OpenCallID}
	require.NoError(t, r.Open(openKey, "ctx"))

	inbound := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 42}
	ctx, ok := r.Lookup(inbound, false)
	require.True(t, ok)
	require.Equal(t, "ctx", ctx)

	// The open entry has been re-keyed, not duplicated.
	ctx, ok = r.Lookup(inbound, false)
	require.True(t, ok)
	require.Equal(t, "ctx", ctx)

	_, ok = r.Lookup(openKey, false)
	require.False(t, ok)
}

func TestLookup_OpenCallAdoptionCompleting(t *testing.T) {
	r := NewRegistry()
	openKey := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: OpenCallID}
	require.NoError(t, r.Open(openKey, "ctx"))

	inbound := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 42}
	ctx, ok := r.Lookup(inbound, true)
	require.True(t, ok)
	require.Equal(t, "ctx", ctx)

	// Completing adoption must not leave any trace behind.
	_, ok = r.Lookup(inbound, false)
	require.False(t, ok)
	_, ok = r.Lookup(openKey, false)
	require.False(t, ok)
}

func TestLookup_Unmatched(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup(Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 5}, true)
	require.False(t, ok)
}

func TestRemove_CancelIdempotence(t *testing.T) {
	r := NewRegistry()
	key := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4}
	require.NoError(t, r.Open(key, "ctx"))

	_, ok := r.Remove(key)
	require.True(t, ok)

	_, ok = r.Remove(key)
	require.False(t, ok)
}

func TestContains(t *testing.T) {
	r := NewRegistry()
	key := Key{ChannelID: 1, ServiceID: 2, MethodID: 3, CallID: 4}
	require.False(t, r.Contains(key))
	require.NoError(t, r.Open(key, "ctx"))
	require.True(t, r.Contains(key))
	r.Remove(key)
	require.False(t, r.Contains(key))
}
