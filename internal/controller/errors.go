package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/draughts-backend/internal/dto"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/service"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrPlayerNotInGame),
		errors.Is(err, model.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameExists),
		errors.Is(err, model.ErrGameNotActive),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrAmbiguousMove),
		errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, dto.ErrUnknownPlayer),
		errors.Is(err, dto.ErrUnknownRank),
		errors.Is(err, dto.ErrInvalidCoordinates),
		errors.Is(err, dto.ErrInvalidPiece),
		errors.Is(err, service.ErrUnknownOpponent):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func playerIDFrom(c *fiber.Ctx) string {
	playerID, _ := c.Locals("playerID").(string)
	return playerID
}
