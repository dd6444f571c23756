package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/draughts-backend/internal/dto"
	"github.com/benbeisheim/draughts-backend/internal/service"
)

// RulesController exposes the rules engine on positions sent by the client. No
// game state is kept between calls.
type RulesController struct {
	rules service.Rules
	ai    *service.AIService
}

func NewRulesController(rules service.Rules, ai *service.AIService) *RulesController {
	return &RulesController{rules: rules, ai: ai}
}

type positionRequest struct {
	Board  dto.BoardStateDTO `json:"board"`
	Player string            `json:"player"`
}

type applyRequest struct {
	Board dto.BoardStateDTO `json:"board"`
	Move  dto.MoveDTO       `json:"move"`
}

func (rc *RulesController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "Healthy",
	})
}

// AIMove answers with the computer's move for the given side, or 204 when that
// side cannot move.
func (rc *RulesController) AIMove(c *fiber.Ctx) error {
	var req positionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	player, err := dto.ParsePlayer(req.Player)
	if err != nil {
		return errorResponse(c, err)
	}
	board, err := dto.ToBoard(req.Board)
	if err != nil {
		return errorResponse(c, err)
	}

	move, ok := rc.ai.ChooseMove(board, player)
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.FromMove(move))
}

func (rc *RulesController) LegalMoves(c *fiber.Ctx) error {
	var req positionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	player, err := dto.ParsePlayer(req.Player)
	if err != nil {
		return errorResponse(c, err)
	}
	board, err := dto.ToBoard(req.Board)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": dto.FromMoves(rc.rules.LegalMoves(board, player)),
	})
}

// Apply plays a move on the board without checking that it is legal.
func (rc *RulesController) Apply(c *fiber.Ctx) error {
	var req applyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	board, err := dto.ToBoard(req.Board)
	if err != nil {
		return errorResponse(c, err)
	}
	move, err := dto.ToMove(req.Move)
	if err != nil {
		return errorResponse(c, err)
	}

	next := rc.rules.ApplyMove(board, move)
	return c.JSON(fiber.Map{
		"board":    dto.FromBoard(next),
		"gameOver": rc.rules.IsGameOver(next),
	})
}

func (rc *RulesController) GameOver(c *fiber.Ctx) error {
	var req positionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	board, err := dto.ToBoard(req.Board)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"gameOver": rc.rules.IsGameOver(board),
	})
}
