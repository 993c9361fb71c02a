package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protokol-hq/protokol-backend/internal/testdb"
)

func newApp(t *testing.T) (*fiber.App, *Store) {
	store := &Store{DB: testdb.New(t)}
	h := NewHandler(store)

	app := fiber.New()
	app.Get("/api/reports/stats", h.Stats)
	app.Get("/api/reports/export", h.ExportPDF)
	app.Get("/api/reports", h.List)
	app.Post("/api/reports", h.Create)
	app.Put("/api/reports/:id/status", h.SetStatus)
	app.Put("/api/reports/:id", h.Update)
	app.Delete("/api/reports/:id", h.Delete)
	return app, store
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateReport(t *testing.T) {
	app, _ := newApp(t)

	body := `{"amount":99.95,"date":"2026-08-10","paymentMethod":"invoice","selfPaid":true,"comment":"hotel"}`
	resp, err := app.Test(jsonReq("POST", "/api/reports", body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 99.95, created.Amount)
	assert.Equal(t, "2026-08-10", created.Date.String())
	assert.Equal(t, StatusNotOrdered, created.Status)
	assert.True(t, created.SelfPaid)
}

func TestCreateReportValidation(t *testing.T) {
	app, _ := newApp(t)

	cases := []string{
		`{}`,
		`{"date":"2026-08-10","paymentMethod":"cash"}`,
		`{"amount":10,"paymentMethod":"cash"}`,
		`{"amount":10,"date":"2026-08-10"}`,
		`{"amount":-5,"date":"2026-08-10","paymentMethod":"cash"}`,
		`{"amount":10,"date":"not-a-date","paymentMethod":"cash"}`,
	}
	for _, body := range cases {
		resp, err := app.Test(jsonReq("POST", "/api/reports", body))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body: %s", body)
	}
}

func TestCreateReportWithAttachment(t *testing.T) {
	app, _ := newApp(t)

	body := `{"amount":10,"date":"2026-08-10","paymentMethod":"cash",
		"fileName":"receipt.png","fileSize":"1024","fileType":"image/png","fileData":"aGVsbG8="}`
	resp, err := app.Test(jsonReq("POST", "/api/reports", body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotNil(t, created.FileName)
	assert.Equal(t, "receipt.png", *created.FileName)
	require.NotNil(t, created.FileData)
	assert.Equal(t, "aGVsbG8=", *created.FileData)
}

func TestListReportsQueryParams(t *testing.T) {
	app, _ := newApp(t)

	for i, method := range []string{"cash", "invoice", "cash"} {
		body := fmt.Sprintf(`{"amount":10,"date":"2026-08-0%d","paymentMethod":"%s"}`, i+1, method)
		resp, err := app.Test(jsonReq("POST", "/api/reports", body))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports?filter=cash", nil))
	require.NoError(t, err)
	var cash []Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cash))
	assert.Len(t, cash, 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reports?page=2&limit=2", nil))
	require.NoError(t, err)
	var page []Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page, 1)
}

func TestSetStatusEndpoint(t *testing.T) {
	app, store := newApp(t)

	r := mustCreate(t, store, 10, "2026-08-01", MethodCash, false)

	resp, err := app.Test(jsonReq("PUT", fmt.Sprintf("/api/reports/%d/status", r.ID), `{}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonReq("PUT", fmt.Sprintf("/api/reports/%d/status", r.ID), `{"status":"paid"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, StatusPaid, updated.Status)

	resp, err = app.Test(jsonReq("PUT", "/api/reports/9999/status", `{"status":"paid"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateAndDeleteMissingReport(t *testing.T) {
	app, _ := newApp(t)

	body := `{"amount":10,"date":"2026-08-10","paymentMethod":"cash"}`
	resp, err := app.Test(jsonReq("PUT", "/api/reports/9999", body))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/reports/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	app, store := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var empty Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	assert.Zero(t, empty.TotalAmount)
	assert.NotNil(t, empty.MonthlyData)

	mustCreate(t, store, 100, "2026-08-05", MethodCash, false)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reports/stats", nil))
	require.NoError(t, err)
	var st Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, 100.0, st.TotalAmount)
	assert.Equal(t, 100.0, st.CashAmount)
	assert.Equal(t, 100, st.CashPercent)
	assert.Equal(t, 0, st.InvoicePercent)
}

func TestExportPDF(t *testing.T) {
	app, store := newApp(t)

	mustCreate(t, store, 100, "2026-08-05", MethodCash, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/export?month=2026-08", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reports/export?month=bogus", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
