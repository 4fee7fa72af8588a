package callreg

import "errors"

// Local-misuse errors. These are never sent to the peer; they are returned
// directly to the embedder that mis-called the registry (spec.md §7).
var (
	// ErrAlreadyPending is returned by Open when key already has an active
	// entry.
	ErrAlreadyPending = errors.New("callreg: call is already pending")
	// ErrInactiveCall is returned by SendClientStream/SendClientStreamEnd
	// when key has no active entry.
	ErrInactiveCall = errors.New("callreg: call is not active")
	// ErrNotPending is returned by Cancel when key has no active entry.
	ErrNotPending = errors.New("callreg: call is not pending")
)
