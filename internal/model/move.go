package model

import (
	"slices"
	"strings"
)

// Move takes a piece from From to To. Captured lists the squares of the captured
// pieces in the order they were jumped; it is empty for a simple move.
type Move struct {
	From     Square
	To       Square
	Captured []Square
}

func SimpleMove(from, to Square) Move {
	return Move{From: from, To: to}
}

func CaptureMove(from, to Square, captured ...Square) Move {
	return Move{From: from, To: to, Captured: captured}
}

func (m Move) IsCapture() bool {
	return len(m.Captured) > 0
}

func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && slices.Equal(m.Captured, o.Captured)
}

// String renders "(5,2)-(4,1)" for a simple move and "(6,1)x(2,5)[(5,2) (3,4)]"
// for a capture.
func (m Move) String() string {
	if !m.IsCapture() {
		return m.From.String() + "-" + m.To.String()
	}
	parts := make([]string, len(m.Captured))
	for i, sq := range m.Captured {
		parts[i] = sq.String()
	}
	return m.From.String() + "x" + m.To.String() + "[" + strings.Join(parts, " ") + "]"
}

// MoveRequest is a move as submitted by a client. Captured is optional and only
// needed when two capture chains share the same origin and destination.
type MoveRequest struct {
	From     Square
	To       Square
	Captured []Square
}

// Ply is one entry in a game's history.
type Ply struct {
	Number   int
	Player   Player
	Move     Move
	Promoted bool
	// Pass marks a turn skipped because the side had no legal move.
	Pass     bool
	Notation string
}
