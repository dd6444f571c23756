package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/draughts-backend/internal/dto"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/benbeisheim/draughts-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("game %s: failed to register connection for %s: %v", gameID, playerID, err)
		wsc.sendError(c, err.Error())
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read error for %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(c, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("game %s: rejected %s from %s: %v", gameID, msg.Type, playerID, err)
			wsc.sendError(c, err.Error())
		}
	}
}

// handleMessage dispatches one client message. State updates reach the client
// through the game's broadcast, so only errors are returned here.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var body dto.MoveRequestDTO
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			return fmt.Errorf("invalid move payload: %w", err)
		}
		req, err := dto.ToMoveRequest(body)
		if err != nil {
			return err
		}
		_, err = wsc.gameService.HandleMove(gameID, playerID, req)
		return err

	case ws.MessageTypeResign:
		_, err := wsc.gameService.Resign(gameID, playerID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c model.Conn, errorMsg string) {
	if err := c.WriteJSON(ws.ErrorMessage(errorMsg)); err != nil {
		log.Debugf("failed to send error message: %v", err)
	}
}

// HandleMatchmaking queues the player and pushes a single matchFound message
// once the matchmaker pairs them.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("wsPlayerID").(string)

	ch := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil {
		wsc.sendError(c, err.Error())
		return
	}

	// A closed socket shows up as a read error; stop waiting for a match then.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		if err := c.WriteJSON(ws.Message{
			Type:    ws.MessageTypeMatchFound,
			Payload: json.RawMessage(event),
		}); err != nil {
			log.Warnf("failed to send match to %s: %v", playerID, err)
		}
	case <-gone:
		wsc.gameService.LeaveMatchmaking(playerID)
	}
}
