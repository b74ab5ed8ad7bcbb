package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	name string
}

func (w *stubWriter) WriteFrame(ctx context.Context, frame any) error {
	return nil
}

func TestRegistry_Bind_One_User(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	writer := &stubWriter{name: "socket-1"}

	// Given no user is bound
	_, ok := registry.Lookup(1)
	req.False(ok)

	// When a user binds a socket
	registry.Bind(1, writer)

	// Then the socket is the user's live channel
	found, ok := registry.Lookup(1)
	req.True(ok)
	req.Same(writer, found)
	req.Equal(1, registry.Online())
}

func TestRegistry_Bind_Replaces_Previous_Socket(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	oldSocket := &stubWriter{name: "old"}
	newSocket := &stubWriter{name: "new"}

	// Given a user already bound on a first socket
	registry.Bind(1, oldSocket)

	// When the same user authenticates on a second socket
	registry.Bind(1, newSocket)

	// Then only the most recently bound socket is returned
	found, ok := registry.Lookup(1)
	req.True(ok)
	req.Same(newSocket, found)
	req.Equal(1, registry.Online())
}

func TestRegistry_Unbind_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Bind(1, &stubWriter{})

	// When unbinding twice in a row
	registry.Unbind(1)
	registry.Unbind(1)

	// Then the second call is a no-op, not an error
	_, ok := registry.Lookup(1)
	req.False(ok)
	req.Zero(registry.Online())
}

func TestRegistry_Release_Only_Removes_Own_Binding(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	oldSocket := &stubWriter{name: "old"}
	newSocket := &stubWriter{name: "new"}

	// Given a user rebound on a newer socket
	registry.Bind(1, oldSocket)
	registry.Bind(1, newSocket)

	// When the stale socket closes and releases its binding
	registry.Release(1, oldSocket)

	// Then the newer binding survives
	found, ok := registry.Lookup(1)
	req.True(ok)
	req.Same(newSocket, found)

	// And the newer socket's own release removes it
	registry.Release(1, newSocket)
	_, ok = registry.Lookup(1)
	req.False(ok)
}
