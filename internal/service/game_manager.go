// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/draughts-backend/internal/model"
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	// matches keeps the last pairing per player for clients that poll.
	matches map[string]model.MatchFoundEvent
	endRule model.EndRule
	mu      sync.RWMutex
}

func NewGameManager(endRule model.EndRule) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		matches:          make(map[string]model.MatchFoundEvent),
		endRule:          endRule,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

// processMatchmaking pairs queued players two at a time and tells each of them
// which game and color they got.
func (gm *GameManager) processMatchmaking() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.endRule)
		p1Color, err := game.AddPlayer(player1)
		if err != nil {
			log.Errorf("matchmaking: adding %s to game %s: %v", player1, gameID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2)
		if err != nil {
			log.Errorf("matchmaking: adding %s to game %s: %v", player2, gameID, err)
			continue
		}
		gm.games[gameID] = game
		log.Infow("match found", "game", gameID, "white", player1, "black", player2)

		gm.notifyMatch(player1, model.MatchFoundEvent{GameID: gameID, Color: p1Color.String()})
		gm.notifyMatch(player2, model.MatchFoundEvent{GameID: gameID, Color: p2Color.String()})
	}
}

// notifyMatch records the event and pushes it to the player's channel, if one is
// registered. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	gm.matches[playerID] = event

	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return
	}
	select {
	case ch <- mustJSON(event):
		log.Debugf("sent match found event to player %s", playerID)
	default:
		log.Warnf("failed to send match found event to player %s", playerID)
	}
	delete(gm.matchingChannels, playerID)
	close(ch)
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch without closing it; the sender side
// closes channels it delivered to.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, model.ErrGameExists
	}

	game := model.NewGame(gameID, gm.endRule)
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// GameIDs lists the known games in lexical order.
func (gm *GameManager) GameIDs() []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	ids := make([]string, 0, len(gm.games))
	for id := range gm.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Player, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.matches, playerID)
	return gm.queue.AddPlayer(playerID)
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchFor returns the last match found for playerID.
func (gm *GameManager) MatchFor(playerID string) (model.MatchFoundEvent, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	event, ok := gm.matches[playerID]
	return event, ok
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}
