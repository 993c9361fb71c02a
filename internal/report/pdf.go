package report

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
)

// ExportPDF renders a one-month expense statement. The month query parameter
// is YYYY-MM and defaults to the current month.
func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	month := strings.TrimSpace(c.Query("month"))
	var start time.Time
	if month == "" {
		start, _ = monthRange(time.Now().UTC(), 0)
	} else {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
		}
		start = parsed
	}
	end := start.AddDate(0, 1, 0)

	items, err := h.Store.ListRange(userContext(c), start, end)
	if err != nil {
		return err
	}

	var total float64
	for _, it := range items {
		total += it.Amount
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 10, "Expense Report Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Month: "+start.Format("2006-01"))
	pdf.Ln(10)

	colW := []float64{28, 32, 32, 40, 50}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(colW[0], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "AMOUNT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[2], 8, "METHOD", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[3], 8, "STATUS", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[4], 8, "COMMENT", "1", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(30, 30, 30)
	}
	header()

	for _, it := range items {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}

		comment := ""
		if it.Comment != nil {
			comment = trimTo(*it.Comment, 48)
		}

		pdf.CellFormat(colW[0], 8, it.Date.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, formatAmount(it.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[2], 8, it.PaymentMethod, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[3], 8, it.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[4], 8, comment, "1", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colW[0], 8, "TOTAL", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, formatAmount(total), "1", 0, "R", true, 0, "")
	pdf.CellFormat(colW[2]+colW[3]+colW[4], 8, "", "1", 1, "C", true, 0, "")

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed")
	}

	filename := "expense-report-" + start.Format("2006-01") + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', 2, 64)
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
