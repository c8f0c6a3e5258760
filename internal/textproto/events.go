// Package textproto implements the textual front-end described in §6.2: a
// whitespace-separated, line-oriented record format for driving a Book from
// a file or stream, independent of any particular transport.
package textproto

import "limitbook/internal/lob"

// EventKind discriminates the four inbound event types (§6.1).
type EventKind int

const (
	Add EventKind = iota
	Cancel
	Modify
	Print
)

// Event is one parsed line of the textual front-end.
type Event struct {
	Kind EventKind

	ID        int64
	Shares    int64
	Price     int64
	Side      lob.Side
	NewShares int64
	NewPrice  int64
}
