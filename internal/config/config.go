package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server reads from the environment.
// Secrets never live in code; DATABASE_URL and JWT_SECRET are required.
type Config struct {
	DatabaseURL      string
	JWTSecret        string
	TelegramBotToken string
	Port             string
	CORSOrigin       string
	LogLevel         string
	AuthRateMax      int
	AuthRateWindow   time.Duration
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for _, key := range []string{
		"DATABASE_URL",
		"JWT_SECRET",
		"TELEGRAM_BOT_TOKEN",
		"PORT",
		"CORS_ORIGIN",
		"LOG_LEVEL",
		"RATE_LIMIT_AUTH_MAX",
		"RATE_LIMIT_AUTH_WINDOW_SECONDS",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("RATE_LIMIT_AUTH_MAX", 30)
	v.SetDefault("RATE_LIMIT_AUTH_WINDOW_SECONDS", 60)

	cfg := &Config{
		DatabaseURL:      v.GetString("DATABASE_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TelegramBotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
		Port:             v.GetString("PORT"),
		CORSOrigin:       v.GetString("CORS_ORIGIN"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		AuthRateMax:      v.GetInt("RATE_LIMIT_AUTH_MAX"),
		AuthRateWindow:   time.Duration(v.GetInt("RATE_LIMIT_AUTH_WINDOW_SECONDS")) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}
