package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Store struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("report not found")

const reportColumns = `id, amount, date, payment_method, status, self_paid, comment,
	file_name, file_size, file_type, file_data, created_at, updated_at`

func scanReport(row interface{ Scan(...any) error }) (*Report, error) {
	var r Report
	err := row.Scan(
		&r.ID,
		&r.Amount,
		&r.Date,
		&r.PaymentMethod,
		&r.Status,
		&r.SelfPaid,
		&r.Comment,
		&r.FileName,
		&r.FileSize,
		&r.FileType,
		&r.FileData,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type ListParams struct {
	PaymentMethod string // empty or "all" means no filter
	Status        string // empty or "all" means no filter
	Page          int
	Limit         int
}

// List builds the query incrementally: one AND-joined predicate per active
// filter, then date-descending order and offset pagination.
func (s *Store) List(ctx context.Context, p ListParams) ([]Report, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 5
	}
	if p.Limit > 100 {
		p.Limit = 100
	}

	query := `SELECT ` + reportColumns + ` FROM expense_reports`
	args := make([]any, 0, 4)

	var where []string
	if p.PaymentMethod != "" && p.PaymentMethod != "all" {
		args = append(args, p.PaymentMethod)
		where = append(where, fmt.Sprintf("payment_method = $%d", len(args)))
	}
	if p.Status != "" && p.Status != "all" {
		args = append(args, p.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY date DESC, created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, p.Limit, (p.Page-1)*p.Limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Report, 0, p.Limit)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// ListRange returns every report dated within [start, end), oldest first.
// Used by the PDF statement export.
func (s *Store) ListRange(ctx context.Context, start, end time.Time) ([]Report, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM expense_reports
		WHERE date >= $1 AND date < $2
		ORDER BY date ASC, created_at ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type CreateParams struct {
	Amount        float64
	Date          Date
	PaymentMethod string
	SelfPaid      bool
	Comment       *string
	FileName      *string
	FileSize      *string
	FileType      *string
	FileData      *string
}

// Create inserts a report. Status always starts as not_ordered regardless of
// what the caller sends.
func (s *Store) Create(ctx context.Context, p CreateParams) (*Report, error) {
	now := time.Now().UTC()

	const q = `
		INSERT INTO expense_reports (
			amount, date, payment_method, status, self_paid, comment,
			file_name, file_size, file_type, file_data, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING id
	`
	r := Report{
		Amount:        p.Amount,
		Date:          p.Date,
		PaymentMethod: p.PaymentMethod,
		Status:        StatusNotOrdered,
		SelfPaid:      p.SelfPaid,
		Comment:       p.Comment,
		FileName:      p.FileName,
		FileSize:      p.FileSize,
		FileType:      p.FileType,
		FileData:      p.FileData,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := s.DB.QueryRowContext(ctx, q,
		p.Amount, p.Date, p.PaymentMethod, StatusNotOrdered, p.SelfPaid, p.Comment,
		p.FileName, p.FileSize, p.FileType, p.FileData, now,
	).Scan(&r.ID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type UpdateParams struct {
	CreateParams
	Status string
}

// Update replaces every mutable field of the report and refreshes updated_at.
func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*Report, error) {
	if p.Status == "" {
		p.Status = StatusNotOrdered
	}

	const q = `
		UPDATE expense_reports SET
			amount = $1,
			date = $2,
			payment_method = $3,
			status = $4,
			self_paid = $5,
			comment = $6,
			file_name = $7,
			file_size = $8,
			file_type = $9,
			file_data = $10,
			updated_at = $11
		WHERE id = $12
		RETURNING ` + reportColumns
	row := s.DB.QueryRowContext(ctx, q,
		p.Amount, p.Date, p.PaymentMethod, p.Status, p.SelfPaid, p.Comment,
		p.FileName, p.FileSize, p.FileType, p.FileData, time.Now().UTC(), id,
	)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Store) SetStatus(ctx context.Context, id int64, status string) (*Report, error) {
	const q = `
		UPDATE expense_reports
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + reportColumns
	row := s.DB.QueryRowContext(ctx, q, status, time.Now().UTC(), id)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM expense_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
