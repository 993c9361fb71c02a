package report

import (
	"context"
	"math"
	"time"
)

// Stats aggregates the whole table with independent queries. The sub-queries
// are not wrapped in a transaction, so concurrent writes can land between
// them; the figures feed a dashboard, not a ledger.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	total, err := s.sumWhere(ctx, "")
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := monthRange(now, 0)
	monthly, err := s.sumWhere(ctx, "date >= $1 AND date < $2", monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	selfPaid, err := s.sumWhere(ctx, "self_paid = TRUE")
	if err != nil {
		return nil, err
	}

	unpaidSelf, err := s.sumWhere(ctx, "self_paid = TRUE AND status <> $1", StatusPaid)
	if err != nil {
		return nil, err
	}

	cash, err := s.sumWhere(ctx, "payment_method = $1", MethodCash)
	if err != nil {
		return nil, err
	}

	invoice, err := s.sumWhere(ctx, "payment_method = $1", MethodInvoice)
	if err != nil {
		return nil, err
	}

	monthlyData, err := s.trailingMonths(ctx, now, 6)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		TotalAmount:      round2(total),
		MonthlyAmount:    round2(monthly),
		SelfPaidAmount:   round2(selfPaid),
		UnpaidSelfAmount: round2(unpaidSelf),
		CashAmount:       round2(cash),
		InvoiceAmount:    round2(invoice),
		MonthlyData:      monthlyData,
	}
	if total > 0 {
		st.CashPercent = int(math.Round(cash / total * 100))
		st.InvoicePercent = int(math.Round(invoice / total * 100))
	}
	return st, nil
}

func (s *Store) sumWhere(ctx context.Context, where string, args ...any) (float64, error) {
	q := `SELECT COALESCE(SUM(amount), 0) FROM expense_reports`
	if where != "" {
		q += " WHERE " + where
	}
	var sum float64
	if err := s.DB.QueryRowContext(ctx, q, args...).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// trailingMonths sums each of the last n calendar months (current month
// inclusive), oldest first. Months without any report are omitted. Month
// boundaries are computed here and bound as plain range parameters, so the
// SQL needs no dialect-specific date functions.
func (s *Store) trailingMonths(ctx context.Context, now time.Time, n int) ([]MonthTotal, error) {
	out := make([]MonthTotal, 0, n)
	for i := n - 1; i >= 0; i-- {
		start, end := monthRange(now, -i)

		var sum float64
		var count int64
		err := s.DB.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(amount), 0), COUNT(*)
			FROM expense_reports
			WHERE date >= $1 AND date < $2
		`, start, end).Scan(&sum, &count)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}
		out = append(out, MonthTotal{
			Month: start.Format("2006-01"),
			Total: round2(sum),
		})
	}
	return out, nil
}

// monthRange returns [start, end) of the calendar month offset months away
// from now, in UTC.
func monthRange(now time.Time, offset int) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	return start, start.AddDate(0, 1, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
