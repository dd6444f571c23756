package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbeisheim/draughts-backend/internal/model"
)

// Rules is the part of the rules engine the services depend on.
type Rules interface {
	LegalMoves(b *model.Board, player model.Player) []model.Move
	ApplyMove(b *model.Board, m model.Move) *model.Board
	IsGameOver(b *model.Board) bool
}

// SelectMove picks a move the way the computer opponent plays: the captures that
// take the most pieces win, ties and quiet positions are settled by rng.
func SelectMove(moves []model.Move, rng *rand.Rand) (model.Move, bool) {
	if len(moves) == 0 {
		return model.Move{}, false
	}

	most := 0
	for _, m := range moves {
		most = max(most, len(m.Captured))
	}
	if most == 0 {
		return moves[rng.IntN(len(moves))], true
	}

	best := make([]model.Move, 0, len(moves))
	for _, m := range moves {
		if len(m.Captured) == most {
			best = append(best, m)
		}
	}
	return best[rng.IntN(len(best))], true
}

// AIService owns the random source of the computer opponent. A fixed seed makes
// its choices reproducible.
type AIService struct {
	rules Rules
	mu    sync.Mutex
	rng   *rand.Rand
}

func NewAIService(rules Rules, seed uint64) *AIService {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &AIService{
		rules: rules,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// ChooseMove returns the computer's move for player, or false when player has no
// legal move.
func (s *AIService) ChooseMove(board *model.Board, player model.Player) (model.Move, bool) {
	moves := s.rules.LegalMoves(board, player)

	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectMove(moves, s.rng)
}
