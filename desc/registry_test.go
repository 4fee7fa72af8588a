package desc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	svc := NewService(0xAAAA, "the.package.FooService",
		&Method{ID: 0xBB, Name: "SomeMethod", Type: Unary, Request: RawCodec{}, Response: RawCodec{}},
		&Method{ID: 0xCC, Name: "Stream", Type: ServerStreaming, Request: RawCodec{}, Response: RawCodec{}},
	)
	return NewRegistry(svc)
}

func TestRegistry_MethodByID(t *testing.T) {
	r := newTestRegistry()
	svc, m, err := r.Method(0xAAAA, 0xBB)
	require.NoError(t, err)
	require.Equal(t, "the.package.FooService", svc.Name)
	require.Equal(t, "SomeMethod", m.Name)
}

func TestRegistry_UnknownService(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.Method(0xDEAD, 0xBB)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_UnknownMethod(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.Method(0xAAAA, 0xFF)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_ResolveSlashSyntax(t *testing.T) {
	r := newTestRegistry()
	_, m, err := r.Resolve("the.package.FooService/SomeMethod")
	require.NoError(t, err)
	require.Equal(t, "SomeMethod", m.Name)
}

func TestRegistry_ResolveDotSyntax(t *testing.T) {
	r := newTestRegistry()
	_, m, err := r.Resolve("the.package.FooService.SomeMethod")
	require.NoError(t, err)
	require.Equal(t, "SomeMethod", m.Name)
}

func TestRegistry_ResolveInvalidName(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.Resolve("not-a-valid-name")
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestRegistry_ResolveUnknownService(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.Resolve("nope.Service/Method")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_ServicesOrder(t *testing.T) {
	a := NewService(1, "pkg.A")
	b := NewService(2, "pkg.B")
	r := NewRegistry(a, b)
	got := r.Services()
	require.Equal(t, []*Service{a, b}, got)
}
