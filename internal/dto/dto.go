// Package dto translates between the JSON shapes exchanged with clients and the
// rules engine types. Unknown owner or rank names are dealt with here; the
// engine itself only ever sees valid values.
package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/draughts-backend/internal/model"
)

var (
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrUnknownRank        = errors.New("unknown piece rank")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidPiece       = errors.New("invalid piece data")
)

type PieceDTO struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Owner string `json:"owner"`
	Rank  string `json:"rank"`
}

type BoardStateDTO struct {
	Pieces []PieceDTO `json:"pieces"`
}

type SquareDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveDTO carries capturedSquares only for capture moves.
type MoveDTO struct {
	FromRow         int         `json:"fromRow"`
	FromCol         int         `json:"fromCol"`
	ToRow           int         `json:"toRow"`
	ToCol           int         `json:"toCol"`
	CapturedSquares []SquareDTO `json:"capturedSquares,omitempty"`
}

type PlyDTO struct {
	Number   int      `json:"number"`
	Player   string   `json:"player"`
	Move     *MoveDTO `json:"move,omitempty"`
	Promoted bool     `json:"promoted"`
	Pass     bool     `json:"pass"`
	Notation string   `json:"notation"`
}

type SeatsDTO struct {
	White string `json:"white"`
	Black string `json:"black"`
}

type GameStateDTO struct {
	ID         string        `json:"id"`
	Board      BoardStateDTO `json:"board"`
	ToMove     string        `json:"toMove"`
	Players    SeatsDTO      `json:"players"`
	Status     string        `json:"status"`
	Result     string        `json:"result,omitempty"`
	Method     string        `json:"method,omitempty"`
	History    []PlyDTO      `json:"history"`
	LastMove   *MoveDTO      `json:"lastMove"`
	LegalMoves []MoveDTO     `json:"legalMoves"`
}

// ParsePlayer accepts "White" or "Black" in any letter case.
func ParsePlayer(s string) (model.Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return model.White, nil
	case "black":
		return model.Black, nil
	}
	return model.White, fmt.Errorf("%w: %q", ErrUnknownPlayer, s)
}

// ParseRank accepts "Man" or "King" in any letter case.
func ParseRank(s string) (model.Rank, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "man":
		return model.Man, nil
	case "king":
		return model.King, nil
	}
	return model.Man, fmt.Errorf("%w: %q", ErrUnknownRank, s)
}

func validSquare(row, col int) bool {
	return row >= 0 && row < model.BoardSize && col >= 0 && col < model.BoardSize
}

func toSquare(row, col int) (model.Square, error) {
	if !validSquare(row, col) {
		return model.Square{}, fmt.Errorf("%w: (%d,%d)", ErrInvalidCoordinates, row, col)
	}
	return model.Square{Row: row, Col: col}, nil
}

// ToBoard builds a board from a client snapshot. Out-of-range coordinates and
// blank owner or rank fields reject the whole board; owner or rank names that are
// not recognised only skip that piece.
func ToBoard(state BoardStateDTO) (*model.Board, error) {
	for _, p := range state.Pieces {
		if !validSquare(p.Row, p.Col) {
			return nil, fmt.Errorf("%w: piece at (%d,%d)", ErrInvalidCoordinates, p.Row, p.Col)
		}
		if strings.TrimSpace(p.Owner) == "" || strings.TrimSpace(p.Rank) == "" {
			return nil, fmt.Errorf("%w: piece at (%d,%d)", ErrInvalidPiece, p.Row, p.Col)
		}
	}

	board := model.NewBoard()
	for _, p := range state.Pieces {
		owner, err := ParsePlayer(p.Owner)
		if err != nil {
			continue
		}
		rank, err := ParseRank(p.Rank)
		if err != nil {
			continue
		}
		if err := board.Set(p.Row, p.Col, model.NewPiece(owner, rank)); err != nil {
			return nil, err
		}
	}
	return board, nil
}

func FromBoard(b *model.Board) BoardStateDTO {
	pieces := make([]PieceDTO, 0)
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			p, err := b.Get(row, col)
			if err != nil || p == nil {
				continue
			}
			pieces = append(pieces, PieceDTO{
				Row:   row,
				Col:   col,
				Owner: p.Owner.String(),
				Rank:  p.Rank.String(),
			})
		}
	}
	return BoardStateDTO{Pieces: pieces}
}

func FromMove(m model.Move) MoveDTO {
	out := MoveDTO{
		FromRow: m.From.Row,
		FromCol: m.From.Col,
		ToRow:   m.To.Row,
		ToCol:   m.To.Col,
	}
	if m.IsCapture() {
		out.CapturedSquares = make([]SquareDTO, len(m.Captured))
		for i, sq := range m.Captured {
			out.CapturedSquares[i] = SquareDTO{Row: sq.Row, Col: sq.Col}
		}
	}
	return out
}

// FromMoves never returns nil so that an empty move list encodes as [].
func FromMoves(moves []model.Move) []MoveDTO {
	out := make([]MoveDTO, 0, len(moves))
	for _, m := range moves {
		out = append(out, FromMove(m))
	}
	return out
}

func ToMove(d MoveDTO) (model.Move, error) {
	from, err := toSquare(d.FromRow, d.FromCol)
	if err != nil {
		return model.Move{}, err
	}
	to, err := toSquare(d.ToRow, d.ToCol)
	if err != nil {
		return model.Move{}, err
	}
	captured, err := toSquares(d.CapturedSquares)
	if err != nil {
		return model.Move{}, err
	}
	return model.Move{From: from, To: to, Captured: captured}, nil
}

func toSquares(in []SquareDTO) ([]model.Square, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]model.Square, len(in))
	for i, s := range in {
		sq, err := toSquare(s.Row, s.Col)
		if err != nil {
			return nil, err
		}
		out[i] = sq
	}
	return out, nil
}

// MoveRequestDTO is the body of a move submitted to a running game.
type MoveRequestDTO struct {
	From            SquareDTO   `json:"from"`
	To              SquareDTO   `json:"to"`
	CapturedSquares []SquareDTO `json:"capturedSquares,omitempty"`
}

func ToMoveRequest(d MoveRequestDTO) (model.MoveRequest, error) {
	from, err := toSquare(d.From.Row, d.From.Col)
	if err != nil {
		return model.MoveRequest{}, err
	}
	to, err := toSquare(d.To.Row, d.To.Col)
	if err != nil {
		return model.MoveRequest{}, err
	}
	captured, err := toSquares(d.CapturedSquares)
	if err != nil {
		return model.MoveRequest{}, err
	}
	return model.MoveRequest{From: from, To: to, Captured: captured}, nil
}

func FromPly(p model.Ply) PlyDTO {
	out := PlyDTO{
		Number:   p.Number,
		Player:   p.Player.String(),
		Promoted: p.Promoted,
		Pass:     p.Pass,
		Notation: p.Notation,
	}
	if !p.Pass {
		m := FromMove(p.Move)
		out.Move = &m
	}
	return out
}

func FromSnapshot(s model.GameSnapshot) GameStateDTO {
	out := GameStateDTO{
		ID:         s.ID,
		Board:      FromBoard(s.Board),
		ToMove:     s.ToMove.String(),
		Players:    SeatsDTO{White: s.White, Black: s.Black},
		Status:     string(s.Status),
		Result:     string(s.Result),
		Method:     string(s.Method),
		History:    make([]PlyDTO, 0, len(s.History)),
		LegalMoves: FromMoves(s.LegalMoves),
	}
	for _, p := range s.History {
		out.History = append(out.History, FromPly(p))
	}
	if s.LastMove != nil {
		m := FromMove(*s.LastMove)
		out.LastMove = &m
	}
	return out
}
