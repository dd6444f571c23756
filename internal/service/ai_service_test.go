package service

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/draughts-backend/internal/model"
)

func sq(row, col int) model.Square {
	return model.Square{Row: row, Col: col}
}

func TestSelectMove(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	_, ok := SelectMove(nil, rng)
	assert.False(t, ok)

	short := model.CaptureMove(sq(5, 2), sq(3, 4), sq(4, 3))
	long := model.CaptureMove(sq(6, 1), sq(2, 5), sq(5, 2), sq(3, 4))
	for i := 0; i < 50; i++ {
		m, ok := SelectMove([]model.Move{short, long}, rng)
		require.True(t, ok)
		assert.Equal(t, long, m)
	}

	quiet := []model.Move{
		model.SimpleMove(sq(5, 0), sq(4, 1)),
		model.SimpleMove(sq(5, 2), sq(4, 3)),
	}
	seen := map[model.Square]bool{}
	for i := 0; i < 100; i++ {
		m, ok := SelectMove(quiet, rng)
		require.True(t, ok)
		assert.Contains(t, quiet, m)
		seen[m.From] = true
	}
	assert.Len(t, seen, 2, "both quiet moves should come up")
}

func TestAIServiceIsDeterministicForASeed(t *testing.T) {
	board := model.NewInitialBoard()

	a := NewAIService(model.SpanishRules{}, 99)
	b := NewAIService(model.SpanishRules{}, 99)
	for i := 0; i < 20; i++ {
		ma, okA := a.ChooseMove(board, model.White)
		mb, okB := b.ChooseMove(board, model.White)
		require.True(t, okA)
		require.True(t, okB)
		assert.Equal(t, ma, mb)
	}
}

func TestAIServicePrefersLongestCapture(t *testing.T) {
	board := model.NewBoard()
	require.NoError(t, board.Set(6, 1, model.NewPiece(model.White, model.Man)))
	require.NoError(t, board.Set(5, 2, model.NewPiece(model.Black, model.Man)))
	require.NoError(t, board.Set(3, 4, model.NewPiece(model.Black, model.Man)))
	require.NoError(t, board.Set(6, 5, model.NewPiece(model.White, model.Man)))
	require.NoError(t, board.Set(5, 6, model.NewPiece(model.Black, model.Man)))

	ai := NewAIService(model.SpanishRules{}, 5)
	for i := 0; i < 20; i++ {
		m, ok := ai.ChooseMove(board, model.White)
		require.True(t, ok)
		assert.Len(t, m.Captured, 2)
		assert.Equal(t, sq(2, 5), m.To)
	}
}

func TestAIServiceNoMoves(t *testing.T) {
	ai := NewAIService(model.SpanishRules{}, 0)
	_, ok := ai.ChooseMove(model.NewBoard(), model.Black)
	assert.False(t, ok)
}
