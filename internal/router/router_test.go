package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/protokol-hq/protokol-backend/internal/auth"
	"github.com/protokol-hq/protokol-backend/internal/report"
	"github.com/protokol-hq/protokol-backend/internal/task"
	"github.com/protokol-hq/protokol-backend/internal/testdb"
)

func newApp(t *testing.T) *fiber.App {
	db := testdb.New(t)
	tokens := auth.NewTokens("test-secret")

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(zap.NewNop()),
	})

	r := &Router{
		TaskHandler:   task.NewHandler(&task.Store{DB: db}),
		ReportHandler: report.NewHandler(&report.Store{DB: db}),
		AuthHandler: &auth.Handler{
			Store:    &auth.Store{DB: db},
			Tokens:   tokens,
			BotToken: "test-bot-token",
		},
		AuthMW:      auth.Middleware(tokens),
		AuthLimiter: RateLimitAuth(100, time.Minute),
	}
	r.RegisterRoutes(app)
	return app
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestErrorEnvelope(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/tasks", `{}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "title is required", body["error"])

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/reports/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

// Create a task, complete it, verify the timestamps move.
func TestTaskLifecycle(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/tasks", `{"title":"Buy milk"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created task.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.False(t, created.Completed)

	time.Sleep(2 * time.Millisecond)
	resp, err = app.Test(jsonReq("PUT", "/api/tasks/"+strconv.FormatInt(created.ID, 10), `{"completed":true}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated task.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.True(t, updated.Completed)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestStaticReportRoutesWin(t *testing.T) {
	app := newApp(t)

	// /api/reports/stats must not be captured by /api/reports/:id
	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var st report.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Zero(t, st.TotalAmount)
}

func TestProtectedCheckRoute(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/check", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}
