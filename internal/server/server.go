// Package server assembles the Fiber application.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/draughts-backend/internal/config"
	"github.com/benbeisheim/draughts-backend/internal/controller"
	"github.com/benbeisheim/draughts-backend/internal/middleware"
	"github.com/benbeisheim/draughts-backend/internal/service"
)

type Services struct {
	Rules service.Rules
	AI    *service.AIService
	Game  *service.GameService
}

func New(cfg *config.Configuration, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "draughts-backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: cfg.CORS.AllowOrigins != "*",
	}))

	rulesController := controller.NewRulesController(svc.Rules, svc.AI)
	gameController := controller.NewGameController(svc.Game)
	wsController := controller.NewWebSocketController(svc.Game)

	api := app.Group("/api")
	api.Get("/health", rulesController.Health)
	api.Post("/ai/move", rulesController.AIMove)

	rules := api.Group("/rules")
	rules.Post("/legal-moves", rulesController.LegalMoves)
	rules.Post("/apply", rulesController.Apply)
	rules.Post("/game-over", rulesController.GameOver)

	// Game routes
	gameRoutes := api.Group("/game", middleware.EnsurePlayerID())
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/status", gameController.MatchmakingStatus)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves", gameController.LegalMoves)
	gameRoutes.Get("/:gameId/board.svg", gameController.BoardSVG)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/resign", gameController.Resign)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins(cfg.CORS.AllowOrigins),
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID())
	wsRoutes.Get("/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleMatchmaking, wsConfig))

	return app
}

func origins(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
