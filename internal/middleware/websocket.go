package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid WebSocket connection attempts.
// Routes with a :gameId parameter must name a game.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		playerID := c.Locals("playerID")
		if playerID == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		gameID := c.Params("gameId")
		if gameID == "" && hasGameParam(c) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}

		// The connection context is different from the upgrade context, so carry
		// the IDs over in locals.
		c.Locals("wsGameID", gameID)
		c.Locals("wsPlayerID", playerID)
		return c.Next()
	}
}

func hasGameParam(c *fiber.Ctx) bool {
	for _, name := range c.Route().Params {
		if name == "gameId" {
			return true
		}
	}
	return false
}
