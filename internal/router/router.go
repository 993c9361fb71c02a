package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protokol-hq/protokol-backend/internal/auth"
	"github.com/protokol-hq/protokol-backend/internal/report"
	"github.com/protokol-hq/protokol-backend/internal/task"
)

type Router struct {
	TaskHandler   *task.Handler
	ReportHandler *report.Handler
	AuthHandler   *auth.Handler
	AuthMW        fiber.Handler
	AuthLimiter   fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.TaskHandler != nil {
		app.Get("/api/tasks", r.TaskHandler.List)
		app.Post("/api/tasks", r.TaskHandler.Create)
		app.Put("/api/tasks/:id", r.TaskHandler.SetCompletion)
		app.Delete("/api/tasks/:id", r.TaskHandler.Delete)
	}

	if r.ReportHandler != nil {
		// static paths before :id so they are not captured as ids
		app.Get("/api/reports/stats", r.ReportHandler.Stats)
		app.Get("/api/reports/export", r.ReportHandler.ExportPDF)
		app.Get("/api/reports", r.ReportHandler.List)
		app.Post("/api/reports", r.ReportHandler.Create)
		app.Put("/api/reports/:id/status", r.ReportHandler.SetStatus)
		app.Put("/api/reports/:id", r.ReportHandler.Update)
		app.Delete("/api/reports/:id", r.ReportHandler.Delete)
	}

	if r.AuthHandler != nil {
		if r.AuthLimiter != nil {
			app.Post("/api/register", r.AuthLimiter, r.AuthHandler.Register)
			app.Post("/api/login", r.AuthLimiter, r.AuthHandler.Login)
			app.Post("/auth/telegram", r.AuthLimiter, r.AuthHandler.Telegram)
		} else {
			app.Post("/api/register", r.AuthHandler.Register)
			app.Post("/api/login", r.AuthHandler.Login)
			app.Post("/auth/telegram", r.AuthHandler.Telegram)
		}
		app.Get("/auth/check", r.AuthMW, r.AuthHandler.Check)
	}
}
