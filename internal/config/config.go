package config

import (
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/kelseyhightower/envconfig"

	"github.com/benbeisheim/draughts-backend/internal/model"
)

type Configuration struct {
	Server struct {
		Host            string        `envconfig:"SERVER_HOST"`
		Port            string        `envconfig:"SERVER_PORT" default:"3000"`
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	}
	CORS struct {
		AllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173"`
	}
	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
	AI struct {
		// Zero seeds the move picker from the clock.
		Seed uint64 `envconfig:"AI_SEED" default:"0"`
	}
	Game struct {
		EndRule             string        `envconfig:"GAME_END_RULE" default:"both-blocked"`
		MatchmakingInterval time.Duration `envconfig:"MATCHMAKING_INTERVAL" default:"1s"`
	}
}

func InitConfig() (*Configuration, error) {
	var cfg Configuration
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Configuration) validate() error {
	if _, err := c.EndRule(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Game.MatchmakingInterval <= 0 {
		return fmt.Errorf("MATCHMAKING_INTERVAL must be positive, got %s", c.Game.MatchmakingInterval)
	}
	return nil
}

func (c *Configuration) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func (c *Configuration) EndRule() (model.EndRule, error) {
	return model.ParseEndRule(c.Game.EndRule)
}

func (c *Configuration) LogLevel() (log.Level, error) {
	switch c.Log.Level {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", c.Log.Level)
}
