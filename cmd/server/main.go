package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/draughts-backend/internal/config"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/server"
	"github.com/benbeisheim/draughts-backend/internal/service"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	level, _ := cfg.LogLevel()
	log.SetLevel(level)
	endRule, _ := cfg.EndRule()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	rules := model.SpanishRules{}
	ai := service.NewAIService(rules, cfg.AI.Seed)
	gameManager := service.NewGameManager(endRule)
	gameService := service.NewGameService(gameManager, ai)

	go gameManager.Run(ctx, cfg.Game.MatchmakingInterval)

	app := server.New(cfg, server.Services{
		Rules: rules,
		AI:    ai,
		Game:  gameService,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infow("listening", "addr", cfg.Addr(), "endRule", endRule)
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
