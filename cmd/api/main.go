package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/protokol-hq/protokol-backend/internal/auth"
	"github.com/protokol-hq/protokol-backend/internal/config"
	"github.com/protokol-hq/protokol-backend/internal/logging"
	"github.com/protokol-hq/protokol-backend/internal/report"
	"github.com/protokol-hq/protokol-backend/internal/router"
	"github.com/protokol-hq/protokol-backend/internal/store"
	"github.com/protokol-hq/protokol-backend/internal/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet
		panic(err)
	}

	logger := logging.Must(cfg.LogLevel)
	defer logger.Sync()

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	if err := store.InitSchema(context.Background(), db); err != nil {
		logger.Fatal("initializing schema", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024, // inline file attachments
		ErrorHandler: router.ErrorHandler(logger),
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	tokens := auth.NewTokens(cfg.JWTSecret)

	r := &router.Router{
		TaskHandler:   task.NewHandler(&task.Store{DB: db}),
		ReportHandler: report.NewHandler(&report.Store{DB: db}),
		AuthHandler: &auth.Handler{
			Store:    &auth.Store{DB: db},
			Tokens:   tokens,
			BotToken: cfg.TelegramBotToken,
		},
		AuthMW:      auth.Middleware(tokens),
		AuthLimiter: router.RateLimitAuth(cfg.AuthRateMax, cfg.AuthRateWindow),
	}
	r.RegisterRoutes(app)

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
		)
		return err
	}
}
