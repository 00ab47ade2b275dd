package core

import "github.com/inkwell-dev/inkwell/internal/domain"

// Payload is one encoded wire frame.
type Payload []byte

// ConnID uniquely identifies one live connection.
type ConnID string

// Conn abstracts the transport endpoint of one attached client.
// Owned by the adapter; the adapter must Close() it. TrySend must never
// block: a full outbound queue is an error, not a stall.
type Conn interface {
	ID() ConnID
	TrySend(Payload) error
}

// Entry pairs a connection with its participation meta.
// This is what a document group stores and fans out to.
type Entry struct {
	Conn   Conn
	Member domain.Member
}
