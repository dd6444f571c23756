package model

import (
	"fmt"
	"strings"
)

const BoardSize = 8

type Square struct {
	Row int
	Col int
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

func (s Square) step(d direction) Square {
	return Square{Row: s.Row + d.row, Col: s.Col + d.col}
}

func boundaryCheck(s Square) bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// IsDark reports whether the square is one of the 32 playing squares.
func (s Square) IsDark() bool {
	return (s.Row+s.Col)%2 == 1
}

// Board is an 8x8 grid of optional pieces. The zero value is an empty board.
//
// Cells hold pointers to pieces that are never mutated after being stored, so
// copying the array is a deep copy as far as callers can observe: Get hands out a
// fresh copy and Set stores one.
type Board struct {
	cells [BoardSize][BoardSize]*Piece
}

func NewBoard() *Board {
	return &Board{}
}

// NewInitialBoard returns the Spanish starting position: twelve men per side on
// the dark squares, Black on rows 0-2 and White on rows 5-7.
func NewInitialBoard() *Board {
	b := &Board{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sq := Square{Row: row, Col: col}
			if !sq.IsDark() {
				continue
			}
			switch {
			case row < 3:
				b.cells[row][col] = NewPiece(Black, Man)
			case row > 4:
				b.cells[row][col] = NewPiece(White, Man)
			}
		}
	}
	return b
}

func checkCoordinates(row, col int) error {
	if row < 0 || row >= BoardSize {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, row)
	}
	if col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: col %d", ErrOutOfRange, col)
	}
	return nil
}

// Get returns a copy of the piece at row, col or nil when the cell is empty.
func (b *Board) Get(row, col int) (*Piece, error) {
	if err := checkCoordinates(row, col); err != nil {
		return nil, err
	}
	p := b.cells[row][col]
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Set overwrites the cell at row, col. A nil piece empties it.
func (b *Board) Set(row, col int, piece *Piece) error {
	if err := checkCoordinates(row, col); err != nil {
		return err
	}
	if piece == nil {
		b.cells[row][col] = nil
		return nil
	}
	cp := *piece
	b.cells[row][col] = &cp
	return nil
}

func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// at and put skip the bounds check; callers inside the package only use them with
// squares that passed boundaryCheck.
func (b *Board) at(s Square) *Piece {
	return b.cells[s.Row][s.Col]
}

func (b *Board) put(s Square, p *Piece) {
	b.cells[s.Row][s.Col] = p
}

// Count returns the number of pieces owned by player.
func (b *Board) Count(player Player) int {
	n := 0
	for row := range b.cells {
		for _, p := range b.cells[row] {
			if p != nil && p.Owner == player {
				n++
			}
		}
	}
	return n
}

// Squares returns the occupied squares of player in row-major order.
func (b *Board) Squares(player Player) []Square {
	var out []Square
	for row := range b.cells {
		for col, p := range b.cells[row] {
			if p != nil && p.Owner == player {
				out = append(out, Square{Row: row, Col: col})
			}
		}
	}
	return out
}

// String draws the board with row 0 at the top: w/b for men, W/B for kings.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  01234567\n")
	for row := 0; row < BoardSize; row++ {
		sb.WriteByte(byte('0' + row))
		sb.WriteByte(' ')
		for col := 0; col < BoardSize; col++ {
			p := b.cells[row][col]
			switch {
			case p != nil:
				sb.WriteByte(p.symbol())
			case (Square{Row: row, Col: col}).IsDark():
				sb.WriteByte('.')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
