package model

import (
	"iter"
	"slices"
)

type direction struct {
	row int
	col int
}

var diagonals = [4]direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// captureDirections lists the directions a piece may jump in: a man only forward,
// a king along all four diagonals.
func captureDirections(p Piece) []direction {
	if p.Rank == King {
		return diagonals[:]
	}
	f := p.Owner.forward()
	return []direction{{f, -1}, {f, 1}}
}

// jump is a single capture: the opponent piece removed and where the mover lands.
type jump struct {
	captured Square
	landing  Square
}

func manJump(b *Board, at Square, d direction, mover Piece, taken []Square) []jump {
	mid := at.step(d)
	land := mid.step(d)
	if !boundaryCheck(land) {
		return nil
	}
	victim := b.at(mid)
	if victim == nil || victim.Owner == mover.Owner || slices.Contains(taken, mid) {
		return nil
	}
	if b.at(land) != nil {
		return nil
	}
	return []jump{{captured: mid, landing: land}}
}

// kingJumps scans along d for the first occupied square. An own piece or a piece
// already taken in this chain closes the direction; an opponent piece yields one
// jump per empty square behind it, up to the next obstruction or the edge.
func kingJumps(b *Board, at Square, d direction, mover Piece, taken []Square) []jump {
	scan := at
	for i := 1; i < BoardSize; i++ {
		scan = scan.step(d)
		if !boundaryCheck(scan) {
			return nil
		}
		victim := b.at(scan)
		if victim == nil {
			continue
		}
		if victim.Owner == mover.Owner || slices.Contains(taken, scan) {
			return nil
		}
		var jumps []jump
		land := scan
		for j := i + 1; j < BoardSize; j++ {
			land = land.step(d)
			if !boundaryCheck(land) || b.at(land) != nil {
				break
			}
			jumps = append(jumps, jump{captured: scan, landing: land})
		}
		return jumps
	}
	return nil
}

func jumpsInDirection(b *Board, at Square, d direction, mover Piece, taken []Square) []jump {
	if mover.Rank == King {
		return kingJumps(b, at, d, mover, taken)
	}
	return manJump(b, at, d, mover, taken)
}

// captureChains yields every maximal capture sequence available to mover standing
// on at. origin is where the piece stood before the chain began and taken holds
// the squares captured so far. Each step works on its own copy of the board.
func captureChains(b Board, origin, at Square, mover *Piece, taken []Square) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for _, d := range captureDirections(*mover) {
			for _, j := range jumpsInDirection(&b, at, d, *mover, taken) {
				next := b
				next.put(at, nil)
				next.put(j.captured, nil)
				next.put(j.landing, mover)

				chain := make([]Square, len(taken), len(taken)+1)
				copy(chain, taken)
				chain = append(chain, j.captured)

				extended := false
				for m := range captureChains(next, origin, j.landing, mover, chain) {
					extended = true
					if !yield(m) {
						return
					}
				}
				if !extended && !yield(Move{From: origin, To: j.landing, Captured: chain}) {
					return
				}
			}
		}
	}
}

func captures(b *Board, player Player) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for _, sq := range b.Squares(player) {
			for m := range captureChains(*b, sq, sq, b.at(sq), nil) {
				if !yield(m) {
					return
				}
			}
		}
	}
}

func simpleMoves(b *Board, player Player) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for _, sq := range b.Squares(player) {
			p := b.at(sq)
			if p.Rank == Man {
				f := p.Owner.forward()
				for _, d := range [2]direction{{f, -1}, {f, 1}} {
					to := sq.step(d)
					if boundaryCheck(to) && b.at(to) == nil && !yield(SimpleMove(sq, to)) {
						return
					}
				}
				continue
			}
			for _, d := range diagonals {
				to := sq
				for i := 1; i < BoardSize; i++ {
					to = to.step(d)
					if !boundaryCheck(to) || b.at(to) != nil {
						break
					}
					if !yield(SimpleMove(sq, to)) {
						return
					}
				}
			}
		}
	}
}

// legalMoveSeq yields the captures of player if there are any, otherwise the
// simple moves.
func legalMoveSeq(b *Board, player Player) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		found := false
		for m := range captures(b, player) {
			found = true
			if !yield(m) {
				return
			}
		}
		if found {
			return
		}
		for m := range simpleMoves(b, player) {
			if !yield(m) {
				return
			}
		}
	}
}

// LegalMoves returns every legal move for player. Capturing is mandatory: when any
// capture exists only captures are returned, each extended as far as its chain
// goes. Moves are produced in a stable order (pieces row-major, then direction,
// nearest landing first) but callers should not depend on it. b is not modified.
func LegalMoves(b *Board, player Player) []Move {
	return slices.Collect(legalMoveSeq(b, player))
}

// HasLegalMoves reports whether player has at least one legal move. It stops at
// the first move found.
func HasLegalMoves(b *Board, player Player) bool {
	for range legalMoveSeq(b, player) {
		return true
	}
	return false
}

// ApplyMove returns the board after m. The move must come from LegalMoves for this
// board and the moving side; anything else is a precondition violation and the
// result is only guaranteed to stay within the board. An empty origin makes the
// move a no-op. b is not modified.
func ApplyMove(b *Board, m Move) *Board {
	nb := b.Clone()
	if !boundaryCheck(m.From) || !boundaryCheck(m.To) {
		return nb
	}
	piece := nb.at(m.From)
	if piece == nil {
		return nb
	}
	for _, sq := range m.Captured {
		if boundaryCheck(sq) {
			nb.put(sq, nil)
		}
	}
	moved := piece
	if piece.Rank == Man && m.To.Row == piece.Owner.PromotionRow() {
		moved = NewPiece(piece.Owner, King)
	}
	// A king's chain can end on its own starting square, so clear before placing.
	nb.put(m.From, nil)
	nb.put(m.To, moved)
	return nb
}

// IsGameOver reports whether neither side has a legal move. A side that is blocked
// while the other can still move does not end the game here; see EndRule for the
// session-level policy.
func IsGameOver(b *Board) bool {
	return !HasLegalMoves(b, White) && !HasLegalMoves(b, Black)
}

// SpanishRules exposes the rules as methods for code that wants to depend on an
// interface.
type SpanishRules struct{}

func (SpanishRules) LegalMoves(b *Board, player Player) []Move { return LegalMoves(b, player) }
func (SpanishRules) ApplyMove(b *Board, m Move) *Board        { return ApplyMove(b, m) }
func (SpanishRules) IsGameOver(b *Board) bool                 { return IsGameOver(b) }
func (SpanishRules) HasLegalMoves(b *Board, player Player) bool {
	return HasLegalMoves(b, player)
}
