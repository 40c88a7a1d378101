package relay

import "errors"

var (
	// ErrDuplicateConnection is returned when a connection id is
	// registered twice. The transport hands out unique ids, so it
	// should not happen in practice.
	ErrDuplicateConnection = errors.New("connection already registered")

	// ErrUnknownConnection is returned for operations on a connection
	// that is not (or no longer) registered.
	ErrUnknownConnection = errors.New("connection not registered")
)
