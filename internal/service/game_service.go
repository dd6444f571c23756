package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/draughts-backend/internal/dto"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/ws"
)

type Opponent string

const (
	OpponentHuman Opponent = "human"
	OpponentAI    Opponent = "ai"
)

var ErrUnknownOpponent = errors.New("unknown opponent")

// maxAIPlies bounds how many plies the AI plays in a row while its opponent
// keeps passing.
const maxAIPlies = 200

func ParseOpponent(s string) (Opponent, error) {
	switch o := Opponent(s); o {
	case "", OpponentHuman:
		return OpponentHuman, nil
	case OpponentAI:
		return OpponentAI, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOpponent, s)
}

type GameService struct {
	gameManager *GameManager
	ai          *AIService
}

func NewGameService(gameManager *GameManager, ai *AIService) *GameService {
	return &GameService{
		gameManager: gameManager,
		ai:          ai,
	}
}

// CreateGame opens a new game and seats the creator as White. Against the AI
// the Black seat is taken straight away and the game starts.
func (gs *GameService) CreateGame(playerID string, opponent Opponent) (string, error) {
	gameID := uuid.New().String()

	game, err := gs.gameManager.CreateGame(gameID)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	if _, err := game.AddPlayer(playerID); err != nil {
		return "", fmt.Errorf("failed to seat creator: %w", err)
	}
	if opponent == OpponentAI {
		if _, err := game.AddPlayer(model.AIPlayerID); err != nil {
			return "", fmt.Errorf("failed to seat ai: %w", err)
		}
	}
	log.Infow("game created", "game", gameID, "player", playerID, "opponent", opponent)
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Player, error) {
	color, err := gs.gameManager.AddPlayerToGame(gameID, playerID)
	if err != nil {
		return color, err
	}
	gs.broadcast(gameID)
	return color, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchFor(playerID string) (model.MatchFoundEvent, bool) {
	return gs.gameManager.MatchFor(playerID)
}

func (gs *GameService) GetGameState(gameID string) (dto.GameStateDTO, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return dto.GameStateDTO{}, err
	}
	return dto.FromSnapshot(game.Snapshot()), nil
}

func (gs *GameService) GetBoard(gameID string) (*model.Board, []model.Move, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, nil, err
	}
	snap := game.Snapshot()
	return snap.Board, snap.LegalMoves, nil
}

// HandleMove plays a move for playerID, lets the AI answer while it is its turn
// and pushes the new state to every connection of the game.
func (gs *GameService) HandleMove(gameID string, playerID string, req model.MoveRequest) (dto.GameStateDTO, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return dto.GameStateDTO{}, err
	}

	ply, err := game.MakeMove(playerID, req)
	if err != nil {
		return dto.GameStateDTO{}, err
	}
	log.Debugf("game %s: %s played %s", gameID, ply.Player, ply.Notation)

	gs.playAI(game)

	state := dto.FromSnapshot(game.Snapshot())
	gs.send(game, state)
	return state, nil
}

// playAI makes the computer's moves for as long as the AI seat is to move. A
// human who has to pass hands the turn straight back, so this can take several
// plies.
func (gs *GameService) playAI(game *model.Game) {
	for i := 0; ; i++ {
		if i == maxAIPlies {
			log.Warnf("game %s: ai stopped after %d plies in a row", game.ID, i)
			return
		}
		toMove, active := game.ToMove()
		if !active || game.SeatOf(toMove) != model.AIPlayerID {
			return
		}
		move, ok := gs.ai.ChooseMove(game.Board(), toMove)
		if !ok {
			return
		}
		ply, err := game.MakeMove(model.AIPlayerID, model.MoveRequest{
			From:     move.From,
			To:       move.To,
			Captured: move.Captured,
		})
		if err != nil {
			log.Errorf("game %s: ai move %s rejected: %v", game.ID, move, err)
			return
		}
		log.Debugf("game %s: ai played %s", game.ID, ply.Notation)
	}
}

func (gs *GameService) Resign(gameID string, playerID string) (dto.GameStateDTO, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return dto.GameStateDTO{}, err
	}
	if err := game.Resign(playerID); err != nil {
		return dto.GameStateDTO{}, err
	}
	state := dto.FromSnapshot(game.Snapshot())
	gs.send(game, state)
	return state, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.RegisterConnection(playerID, conn); err != nil {
		return err
	}
	// Catch the new connection up on the current state.
	gs.send(game, dto.FromSnapshot(game.Snapshot()))
	return nil
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) broadcast(gameID string) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	gs.send(game, dto.FromSnapshot(game.Snapshot()))
}

func (gs *GameService) send(game *model.Game, state dto.GameStateDTO) {
	if game.ConnectionCount() == 0 {
		return
	}
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", game.ID, err)
		return
	}
	game.Broadcast(ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: payload,
	})
}
