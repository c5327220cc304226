package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the read-side boundary the report service runs its aggregate
// queries through.
type Store interface {
	ProfitLoss(ctx context.Context, businessID string, from, to time.Time) ([]PLRow, error)
	StatusCounts(ctx context.Context, businessID string) ([]StatusCount, error)
	TopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]TopCustomer, error)
	TaxSummary(ctx context.Context, businessID string, from, to time.Time) (*TaxSummary, error)
}

type store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

func (s *store) ProfitLoss(ctx context.Context, businessID string, from, to time.Time) ([]PLRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', transaction_date), 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE business_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		GROUP BY 1
		ORDER BY 1`,
		businessID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PLRow
	for rows.Next() {
		var r PLRow
		var income, expense pgtype.Numeric
		if err := rows.Scan(&r.Month, &income, &expense); err != nil {
			return nil, err
		}
		r.Income = numericFloat(income)
		r.Expense = numericFloat(expense)
		r.Net = r.Income - r.Expense
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *store) StatusCounts(ctx context.Context, businessID string) ([]StatusCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT type, status, COUNT(*)
		FROM sales_documents
		WHERE business_id = $1
		GROUP BY type, status
		ORDER BY type, status`,
		businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Type, &c.Status, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *store) TopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]TopCustomer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT customer_name, COALESCE(SUM(grand_total), 0), COUNT(*)
		FROM sales_documents
		WHERE business_id = $1 AND type = 'receipt' AND status != 'ยกเลิก'
			AND issue_date >= $2 AND issue_date <= $3
		GROUP BY customer_name
		ORDER BY 2 DESC
		LIMIT $4`,
		businessID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopCustomer
	for rows.Next() {
		var c TopCustomer
		var total pgtype.Numeric
		if err := rows.Scan(&c.Name, &total, &c.Count); err != nil {
			return nil, err
		}
		c.Total = numericFloat(total)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *store) TaxSummary(ctx context.Context, businessID string, from, to time.Time) (*TaxSummary, error) {
	var summary TaxSummary
	var output, input pgtype.Numeric
	err := s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(vat_amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(vat_amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE business_id = $1 AND transaction_date >= $2 AND transaction_date <= $3`,
		businessID, from, to).Scan(&output, &input)
	if err != nil {
		return nil, err
	}
	summary.OutputVAT = numericFloat(output)
	summary.InputVAT = numericFloat(input)
	summary.VATDue = summary.OutputVAT - summary.InputVAT

	var withheld pgtype.Numeric
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(tax_withheld), 0)
		FROM withholding_certificates
		WHERE business_id = $1 AND payment_date >= $2 AND payment_date <= $3`,
		businessID, from, to).Scan(&withheld)
	if err != nil {
		return nil, err
	}
	summary.WithholdingIssued = numericFloat(withheld)
	return &summary, nil
}

func numericFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
