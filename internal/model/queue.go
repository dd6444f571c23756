package model

import (
	"slices"
	"sync"
	"time"
)

type QueuedPlayer struct {
	PlayerID string
	JoinedAt time.Time
}

// MatchFoundEvent is sent to a queued player once they have been paired.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}

type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.PlayerID == playerID {
			return ErrAlreadyQueued
		}
	}

	q.players = append(q.players, QueuedPlayer{
		PlayerID: playerID,
		JoinedAt: time.Now(),
	})
	return nil
}

// NextPair removes and returns the two players who have waited longest.
func (q *Queue) NextPair() (string, string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return "", "", false
	}
	first, second := q.players[0].PlayerID, q.players[1].PlayerID
	q.players = q.players[2:]
	return first, second, true
}

// Remove drops playerID from the queue and reports whether it was queued.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := slices.IndexFunc(q.players, func(p QueuedPlayer) bool { return p.PlayerID == playerID })
	if i < 0 {
		return false
	}
	q.players = slices.Delete(q.players, i, i+1)
	return true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
