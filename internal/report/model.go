package report

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date serialized as YYYY-MM-DD, backed by a DATE column.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		// sqlite hands dates back as text
		if len(v) >= len(dateLayout) {
			v = v[:len(dateLayout)]
		}
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Statuses a report moves through. The column is an open string, so these
// are conventions rather than an enforced whitelist.
const (
	StatusNotOrdered = "not_ordered"
	StatusPaid       = "paid"
)

const (
	MethodCash    = "cash"
	MethodInvoice = "invoice"
)

type Report struct {
	ID            int64     `json:"id"`
	Amount        float64   `json:"amount"`
	Date          Date      `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	SelfPaid      bool      `json:"selfPaid"`
	Comment       *string   `json:"comment,omitempty"`
	FileName      *string   `json:"fileName,omitempty"`
	FileSize      *string   `json:"fileSize,omitempty"`
	FileType      *string   `json:"fileType,omitempty"`
	FileData      *string   `json:"fileData,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateReportRequest struct {
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"` // YYYY-MM-DD
	PaymentMethod string  `json:"paymentMethod"`
	SelfPaid      bool    `json:"selfPaid"`
	Comment       *string `json:"comment"`
	FileName      *string `json:"fileName"`
	FileSize      *string `json:"fileSize"`
	FileType      *string `json:"fileType"`
	FileData      *string `json:"fileData"`
}

type UpdateReportRequest struct {
	CreateReportRequest
	Status string `json:"status"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type MonthTotal struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

type Stats struct {
	TotalAmount      float64      `json:"totalAmount"`
	MonthlyAmount    float64      `json:"monthlyAmount"`
	SelfPaidAmount   float64      `json:"selfPaidAmount"`
	UnpaidSelfAmount float64      `json:"unpaidSelfAmount"`
	CashAmount       float64      `json:"cashAmount"`
	InvoiceAmount    float64      `json:"invoiceAmount"`
	CashPercent      int          `json:"cashPercent"`
	InvoicePercent   int          `json:"invoicePercent"`
	MonthlyData      []MonthTotal `json:"monthlyData"`
}
