package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error)
	Create(ctx context.Context, tx Transaction) (string, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	SummaryByMonth(ctx context.Context, businessID string, from, to time.Time) ([]MonthSummary, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const txColumns = `id, business_id, type, category, description, amount, has_vat,
	vat_amount, withholding_amount, transaction_date, contact_id, contact_name,
	document_id, notes, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM transactions WHERE id = $1", txColumns), id)
	return scanTransaction(row)
}

func (r *repository) List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	conditions := []string{"business_id = $1"}
	args := []any{req.BusinessID}
	argPos := 2

	if req.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *req.Type)
		argPos++
	}
	if req.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, *req.Category)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(description ILIKE $%d OR contact_name ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions %s
		ORDER BY transaction_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		txColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, *tx)
	}
	return txs, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, tx Transaction) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, business_id, type, category, description,
			amount, has_vat, vat_amount, withholding_amount, transaction_date,
			contact_id, contact_name, document_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())`,
		id, tx.BusinessID, tx.Type, tx.Category, tx.Description,
		tx.Amount, tx.HasVAT, tx.VATAmount, tx.WithholdingAmt, tx.TxDate,
		tx.ContactID, tx.ContactName, tx.DocumentID, tx.Notes)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	query := "UPDATE transactions SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"category", "description", "amount", "has_vat", "vat_amount",
		"withholding_amount", "transaction_date", "contact_id", "contact_name", "notes"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SummaryByMonth(ctx context.Context, businessID string, from, to time.Time) ([]MonthSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', transaction_date), 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COALESCE(SUM(vat_amount) FILTER (WHERE type = 'expense'), 0),
			COALESCE(SUM(vat_amount) FILTER (WHERE type = 'income'), 0)
		FROM transactions
		WHERE business_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		GROUP BY 1
		ORDER BY 1`,
		businessID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthSummary
	for rows.Next() {
		var m MonthSummary
		var income, expense, vatPaid, vatReceived pgtype.Numeric
		if err := rows.Scan(&m.Month, &income, &expense, &vatPaid, &vatReceived); err != nil {
			return nil, err
		}
		m.Income = numericFloat(income)
		m.Expense = numericFloat(expense)
		m.VATPaid = numericFloat(vatPaid)
		m.VATReceived = numericFloat(vatReceived)
		m.Net = m.Income - m.Expense
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	var amount, vatAmount, whAmount pgtype.Numeric
	var txDate pgtype.Date
	var contactID, contactName, documentID, notes pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&t.ID, &t.BusinessID, &t.Type, &t.Category, &t.Description,
		&amount, &t.HasVAT, &vatAmount, &whAmount, &txDate,
		&contactID, &contactName, &documentID, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	t.Amount = numericFloat(amount)
	t.VATAmount = numericFloat(vatAmount)
	t.WithholdingAmt = numericFloat(whAmount)
	if txDate.Valid {
		t.TxDate = txDate.Time
	}
	if contactID.Valid {
		t.ContactID = &contactID.String
	}
	if contactName.Valid {
		t.ContactName = &contactName.String
	}
	if documentID.Valid {
		t.DocumentID = &documentID.String
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if createdAt.Valid {
		t.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		t.UpdatedAt = updatedAt.Time
	}
	return &t, nil
}

func numericFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
