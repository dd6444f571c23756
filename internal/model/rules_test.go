package model

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type placement struct {
	sq    Square
	piece Piece
}

func man(p Player, row, col int) placement {
	return placement{sq: Square{Row: row, Col: col}, piece: Piece{Owner: p, Rank: Man}}
}

func king(p Player, row, col int) placement {
	return placement{sq: Square{Row: row, Col: col}, piece: Piece{Owner: p, Rank: King}}
}

func boardWith(t *testing.T, pieces ...placement) *Board {
	t.Helper()
	b := NewBoard()
	for _, pl := range pieces {
		p := pl.piece
		require.NoError(t, b.Set(pl.sq.Row, pl.sq.Col, &p))
	}
	return b
}

func sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func TestLegalMovesSimpleMan(t *testing.T) {
	b := boardWith(t, man(White, 5, 2))

	moves := LegalMoves(b, White)
	assert.ElementsMatch(t, []Move{
		SimpleMove(sq(5, 2), sq(4, 1)),
		SimpleMove(sq(5, 2), sq(4, 3)),
	}, moves)
	for _, m := range moves {
		assert.False(t, m.IsCapture())
	}
}

func TestLegalMovesSingleCapture(t *testing.T) {
	b := boardWith(t, man(White, 5, 2), man(Black, 4, 3))

	moves := LegalMoves(b, White)
	require.Len(t, moves, 1)
	assert.Equal(t, CaptureMove(sq(5, 2), sq(3, 4), sq(4, 3)), moves[0])
}

func TestLegalMovesCaptureChain(t *testing.T) {
	b := boardWith(t, man(White, 6, 1), man(Black, 5, 2), man(Black, 3, 4))

	moves := LegalMoves(b, White)
	require.Len(t, moves, 1)
	assert.Equal(t, sq(6, 1), moves[0].From)
	assert.Equal(t, sq(2, 5), moves[0].To)
	assert.Equal(t, []Square{sq(5, 2), sq(3, 4)}, moves[0].Captured)
}

func TestLegalMovesFlyingKingCapture(t *testing.T) {
	b := boardWith(t, king(White, 5, 5), man(Black, 3, 3))

	moves := LegalMoves(b, White)
	require.Len(t, moves, 3)
	for i, to := range []Square{sq(2, 2), sq(1, 1), sq(0, 0)} {
		assert.Equal(t, sq(5, 5), moves[i].From)
		assert.Equal(t, to, moves[i].To)
		assert.Equal(t, []Square{sq(3, 3)}, moves[i].Captured)
	}
}

func TestApplyMovePromotes(t *testing.T) {
	b := boardWith(t, man(White, 1, 2))

	next := ApplyMove(b, SimpleMove(sq(1, 2), sq(0, 1)))

	p, err := next.Get(0, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, Piece{Owner: White, Rank: King}, *p)
	p, err = next.Get(1, 2)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCaptureIsMandatory(t *testing.T) {
	b := boardWith(t,
		man(White, 5, 2), man(Black, 4, 3),
		man(White, 6, 7),
		king(White, 7, 0),
	)

	moves := LegalMoves(b, White)
	require.NotEmpty(t, moves)
	for _, m := range moves {
		assert.True(t, m.IsCapture(), "non-capture %s offered while a capture exists", m)
	}
}

func TestManMovesAndCapturesForwardOnly(t *testing.T) {
	// The black man sits behind the white one.
	b := boardWith(t, man(White, 3, 2), man(Black, 4, 3))

	assert.ElementsMatch(t, []Move{
		SimpleMove(sq(3, 2), sq(2, 1)),
		SimpleMove(sq(3, 2), sq(2, 3)),
	}, LegalMoves(b, White))

	assert.ElementsMatch(t, []Move{
		SimpleMove(sq(4, 3), sq(5, 2)),
		SimpleMove(sq(4, 3), sq(5, 4)),
	}, LegalMoves(b, Black))
}

func TestBlackCapturesDownTheBoard(t *testing.T) {
	b := boardWith(t, man(Black, 2, 3), man(White, 3, 4))

	moves := LegalMoves(b, Black)
	require.Len(t, moves, 1)
	assert.Equal(t, CaptureMove(sq(2, 3), sq(4, 5), sq(3, 4)), moves[0])
}

func TestManCannotJumpOwnPieceOrOffBoard(t *testing.T) {
	b := boardWith(t,
		man(White, 5, 2), man(White, 4, 3),
		man(White, 1, 0), man(Black, 0, 1),
	)
	for _, m := range LegalMoves(b, White) {
		assert.False(t, m.IsCapture(), "unexpected capture %s", m)
	}
}

func TestKingSlides(t *testing.T) {
	b := boardWith(t, king(White, 7, 0))

	moves := LegalMoves(b, White)
	require.Len(t, moves, 7)
	for i, m := range moves {
		assert.Equal(t, sq(7, 0), m.From)
		assert.Equal(t, sq(6-i, 1+i), m.To)
	}
}

func TestKingBlockedByOwnPiece(t *testing.T) {
	b := boardWith(t, king(White, 5, 5), man(White, 4, 4), man(Black, 2, 2))

	for _, m := range LegalMoves(b, White) {
		assert.False(t, m.IsCapture(), "king jumped over its own piece: %s", m)
		if m.From == sq(5, 5) {
			assert.NotEqual(t, direction{-1, -1}, directionOf(m), "king moved through its own piece: %s", m)
		}
	}
}

func TestKingCannotJumpTwoPiecesInARow(t *testing.T) {
	b := boardWith(t, king(White, 5, 5), man(Black, 3, 3), man(Black, 2, 2))

	for _, m := range LegalMoves(b, White) {
		assert.False(t, m.IsCapture(), "unexpected capture %s", m)
	}
}

func TestKingChainsAfterLanding(t *testing.T) {
	b := boardWith(t, king(White, 7, 0), man(Black, 5, 2), man(Black, 2, 3))

	moves := LegalMoves(b, White)
	one := []Square{sq(5, 2)}
	two := []Square{sq(5, 2), sq(2, 3)}
	assert.ElementsMatch(t, []Move{
		CaptureMove(sq(7, 0), sq(4, 3), one...),
		CaptureMove(sq(7, 0), sq(1, 2), two...),
		CaptureMove(sq(7, 0), sq(0, 1), two...),
		CaptureMove(sq(7, 0), sq(2, 5), one...),
		CaptureMove(sq(7, 0), sq(1, 6), one...),
		CaptureMove(sq(7, 0), sq(0, 7), one...),
	}, moves)
}

func TestChainsWithSameEndpoints(t *testing.T) {
	b := boardWith(t,
		man(White, 6, 3),
		man(Black, 5, 2), man(Black, 3, 2),
		man(Black, 5, 4), man(Black, 3, 4),
	)

	assert.ElementsMatch(t, []Move{
		CaptureMove(sq(6, 3), sq(2, 3), sq(5, 2), sq(3, 2)),
		CaptureMove(sq(6, 3), sq(2, 3), sq(5, 4), sq(3, 4)),
	}, LegalMoves(b, White))
}

func TestLegalMovesDoesNotModifyBoard(t *testing.T) {
	b := boardWith(t, king(White, 7, 0), man(Black, 5, 2), man(Black, 2, 3))
	before := *b

	_ = LegalMoves(b, White)
	assert.Equal(t, before, *b)
}

func TestLegalMovesNoPieces(t *testing.T) {
	b := boardWith(t, man(Black, 2, 3))
	assert.Empty(t, LegalMoves(b, White))
	assert.False(t, HasLegalMoves(b, White))
	assert.True(t, HasLegalMoves(b, Black))
}

func TestApplyMove(t *testing.T) {
	t.Run("capture removes pieces", func(t *testing.T) {
		b := boardWith(t, man(White, 6, 1), man(Black, 5, 2), man(Black, 3, 4))
		m := LegalMoves(b, White)[0]

		next := ApplyMove(b, m)
		assert.Equal(t, 0, next.Count(Black))
		assert.Equal(t, []Square{sq(2, 5)}, next.Squares(White))

		// The input board is untouched.
		assert.Equal(t, 2, b.Count(Black))
		assert.Equal(t, []Square{sq(6, 1)}, b.Squares(White))
	})

	t.Run("black promotes on row 7", func(t *testing.T) {
		b := boardWith(t, man(Black, 6, 3))
		next := ApplyMove(b, SimpleMove(sq(6, 3), sq(7, 4)))

		p, err := next.Get(7, 4)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, Piece{Owner: Black, Rank: King}, *p)
	})

	t.Run("king is not promoted again", func(t *testing.T) {
		b := boardWith(t, king(White, 2, 3))
		next := ApplyMove(b, SimpleMove(sq(2, 3), sq(0, 1)))

		p, err := next.Get(0, 1)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, King, p.Rank)
	})

	t.Run("capture chain ending on promotion row", func(t *testing.T) {
		b := boardWith(t, man(White, 4, 1), man(Black, 3, 2), man(Black, 1, 2))
		moves := LegalMoves(b, White)
		require.Len(t, moves, 1)
		assert.Equal(t, sq(0, 1), moves[0].To)

		next := ApplyMove(b, moves[0])
		p, err := next.Get(0, 1)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, King, p.Rank)
		assert.Equal(t, 0, next.Count(Black))
	})

	t.Run("empty origin is a no-op", func(t *testing.T) {
		b := boardWith(t, man(White, 5, 2))
		next := ApplyMove(b, SimpleMove(sq(5, 0), sq(4, 1)))
		assert.Equal(t, *b, *next)
		assert.NotSame(t, b, next)
	})

	t.Run("off-board squares are ignored", func(t *testing.T) {
		b := boardWith(t, man(White, 5, 2))
		next := ApplyMove(b, SimpleMove(sq(5, 2), sq(9, 9)))
		assert.Equal(t, *b, *next)

		next = ApplyMove(b, CaptureMove(sq(5, 2), sq(4, 1), sq(-1, -1)))
		assert.Equal(t, []Square{sq(4, 1)}, next.Squares(White))
	})

	t.Run("chain ending on its start square keeps the piece", func(t *testing.T) {
		b := boardWith(t, king(White, 4, 4), man(Black, 3, 3))
		next := ApplyMove(b, CaptureMove(sq(4, 4), sq(4, 4), sq(3, 3)))

		p, err := next.Get(4, 4)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, White, p.Owner)
		assert.Equal(t, 0, next.Count(Black))
	})
}

func TestIsGameOver(t *testing.T) {
	tests := []struct {
		name   string
		pieces []placement
		want   bool
	}{
		{name: "empty board", want: true},
		{name: "only a blocked white man", pieces: []placement{man(White, 0, 1)}, want: true},
		{name: "black can still move", pieces: []placement{man(Black, 3, 3)}, want: false},
		{name: "white can still move", pieces: []placement{man(White, 3, 3)}, want: false},
		{name: "both sides blocked", pieces: []placement{man(White, 0, 1), man(Black, 7, 0)}, want: true},
		{name: "only one side blocked", pieces: []placement{man(White, 0, 1), man(Black, 3, 0)}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardWith(t, tt.pieces...)
			assert.Equal(t, tt.want, IsGameOver(b))
		})
	}

	assert.False(t, IsGameOver(NewInitialBoard()))
}

func TestSpanishRulesMatchesFunctions(t *testing.T) {
	var rules SpanishRules
	b := NewInitialBoard()

	assert.Equal(t, LegalMoves(b, White), rules.LegalMoves(b, White))
	assert.Equal(t, IsGameOver(b), rules.IsGameOver(b))
	assert.True(t, rules.HasLegalMoves(b, Black))

	m := rules.LegalMoves(b, White)[0]
	assert.Equal(t, ApplyMove(b, m), rules.ApplyMove(b, m))
}

// randomBoard scatters men and kings of both sides over the dark squares.
func randomBoard(t *testing.T, rng *rand.Rand) *Board {
	t.Helper()
	b := NewBoard()
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if !(Square{Row: row, Col: col}).IsDark() || rng.IntN(3) != 0 {
				continue
			}
			owner := Player(rng.IntN(2))
			rank := Man
			if rng.IntN(5) == 0 {
				rank = King
			}
			require.NoError(t, b.Set(row, col, NewPiece(owner, rank)))
		}
	}
	return b
}

func TestLegalMovesProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 300; i++ {
		b := randomBoard(t, rng)
		before := *b

		for _, player := range []Player{White, Black} {
			moves := LegalMoves(b, player)
			assert.Equal(t, len(moves) > 0, HasLegalMoves(b, player))

			anyCapture := slices.ContainsFunc(moves, Move.IsCapture)
			for _, m := range moves {
				require.True(t, boundaryCheck(m.From) && boundaryCheck(m.To), "%s off the board", m)

				p := b.at(m.From)
				require.NotNil(t, p, "move %s from an empty square\n%s", m, b)
				assert.Equal(t, player, p.Owner, "move %s moves a foreign piece", m)

				if anyCapture {
					assert.True(t, m.IsCapture(), "simple move %s offered alongside captures\n%s", m, b)
				}
				if m.To != m.From && !slices.Contains(m.Captured, m.To) {
					assert.Nil(t, b.at(m.To), "move %s lands on an occupied square\n%s", m, b)
				}

				seen := make(map[Square]bool, len(m.Captured))
				for _, c := range m.Captured {
					victim := b.at(c)
					require.NotNil(t, victim, "move %s captures an empty square", m)
					assert.Equal(t, player.Opponent(), victim.Owner, "move %s captures its own side", m)
					assert.False(t, seen[c], "move %s captures %s twice", m, c)
					seen[c] = true
				}

				next := ApplyMove(b, m)
				assert.Equal(t, b.Count(player.Opponent())-len(m.Captured), next.Count(player.Opponent()))
				assert.Equal(t, b.Count(player), next.Count(player))
			}
		}

		require.Equal(t, before, *b, "board modified by move generation")
	}
}

func directionOf(m Move) direction {
	sign := func(v int) int {
		switch {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
		return 0
	}
	return direction{row: sign(m.To.Row - m.From.Row), col: sign(m.To.Col - m.From.Col)}
}
