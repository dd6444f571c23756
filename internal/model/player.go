package model

type Player uint8

const (
	White Player = iota
	Black
)

func (p Player) String() string {
	if p == Black {
		return "Black"
	}
	return "White"
}

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == White {
		return Black
	}
	return White
}

// forward is the row offset a man of this side advances by.
func (p Player) forward() int {
	if p == White {
		return -1
	}
	return 1
}

// PromotionRow is the row on which a man of this side becomes a king.
func (p Player) PromotionRow() int {
	if p == White {
		return 0
	}
	return BoardSize - 1
}

type Rank uint8

const (
	Man Rank = iota
	King
)

func (r Rank) String() string {
	if r == King {
		return "King"
	}
	return "Man"
}

// Piece is an immutable value. Promotion replaces a piece, it never mutates one.
type Piece struct {
	Owner Player
	Rank  Rank
}

func NewPiece(owner Player, rank Rank) *Piece {
	return &Piece{Owner: owner, Rank: rank}
}

func (p Piece) symbol() byte {
	switch {
	case p.Owner == White && p.Rank == Man:
		return 'w'
	case p.Owner == White:
		return 'W'
	case p.Rank == Man:
		return 'b'
	default:
		return 'B'
	}
}
