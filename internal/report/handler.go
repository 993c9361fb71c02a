package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) List(c *fiber.Ctx) error {
	params := ListParams{
		PaymentMethod: strings.TrimSpace(c.Query("filter")),
		Status:        strings.TrimSpace(c.Query("statusFilter")),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 5),
	}

	reports, err := h.Store.List(userContext(c), params)
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	params, err := createParams(&req)
	if err != nil {
		return err
	}

	r, err := h.Store.Create(userContext(c), *params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	var req UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	params, err := createParams(&req.CreateReportRequest)
	if err != nil {
		return err
	}

	r, err := h.Store.Update(userContext(c), int64(id), UpdateParams{
		CreateParams: *params,
		Status:       strings.TrimSpace(req.Status),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return err
	}
	return c.JSON(r)
}

func (h *Handler) SetStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Status = strings.TrimSpace(req.Status)
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	r, err := h.Store.SetStatus(userContext(c), int64(id), req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return err
	}
	return c.JSON(r)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	if err := h.Store.Delete(userContext(c), int64(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.Store.Stats(userContext(c), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func createParams(req *CreateReportRequest) (*CreateParams, error) {
	if req.Amount <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")
	}
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if req.PaymentMethod == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "paymentMethod is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "date is required")
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	return &CreateParams{
		Amount:        req.Amount,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		SelfPaid:      req.SelfPaid,
		Comment:       req.Comment,
		FileName:      req.FileName,
		FileSize:      req.FileSize,
		FileType:      req.FileType,
		FileData:      req.FileData,
	}, nil
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
