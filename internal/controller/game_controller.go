package controller

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/draughts-backend/internal/dto"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/render"
	"github.com/benbeisheim/draughts-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Opponent string `json:"opponent"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}
	opponent, err := service.ParseOpponent(req.Opponent)
	if err != nil {
		return errorResponse(c, err)
	}

	gameID, err := gc.gameService.CreateGame(playerIDFrom(c), opponent)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerIDFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color.String(),
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	_, moves, err := gc.gameService.GetBoard(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": dto.FromMoves(moves),
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var body dto.MoveRequestDTO
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	req, err := dto.ToMoveRequest(body)
	if err != nil {
		return errorResponse(c, err)
	}

	state, err := gc.gameService.HandleMove(c.Params("gameId"), playerIDFrom(c), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	state, err := gc.gameService.Resign(c.Params("gameId"), playerIDFrom(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

// BoardSVG draws the current position with the squares of the legal moves'
// origins highlighted.
func (gc *GameController) BoardSVG(c *fiber.Ctx) error {
	board, moves, err := gc.gameService.GetBoard(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	highlights := make([]model.Square, 0, len(moves))
	for _, m := range moves {
		highlights = append(highlights, m.From)
	}

	var buf bytes.Buffer
	render.BoardSVG(&buf, board, highlights...)
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerIDFrom(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	event, ok := gc.gameService.MatchFor(playerIDFrom(c))
	if !ok {
		return c.JSON(fiber.Map{
			"status": "waiting",
		})
	}
	return c.JSON(fiber.Map{
		"status": "matched",
		"gameId": event.GameID,
		"color":  event.Color,
	})
}
