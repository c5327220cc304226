package withholding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accountee/accountee/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id string) (*Certificate, error)
	List(ctx context.Context, businessID string, year int, limit, offset int) ([]Certificate, int, error)
	// CreateNumbered assigns the next sequence number for the business and
	// Buddhist-era year, then inserts the certificate in one transaction.
	CreateNumbered(ctx context.Context, cert Certificate, yearBE int) (*Certificate, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const certColumns = `id, business_id, cert_number, sequence_no, pnd_form, payee_type,
	payee_name, payee_tax_id, payee_address, income_type, income_description,
	payment_date, base_amount, rate, tax_withheld, transaction_id, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id string) (*Certificate, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM withholding_certificates WHERE id = $1", certColumns), id)
	return scanCertificate(row)
}

func (r *repository) List(ctx context.Context, businessID string, year int, limit, offset int) ([]Certificate, int, error) {
	conditions := "business_id = $1"
	args := []any{businessID}
	argPos := 2

	if year > 0 {
		conditions += fmt.Sprintf(" AND EXTRACT(YEAR FROM payment_date) = $%d", argPos)
		args = append(args, year)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM withholding_certificates WHERE %s", conditions), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM withholding_certificates WHERE %s
		ORDER BY sequence_no DESC LIMIT $%d OFFSET $%d`, certColumns, conditions, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var certs []Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, 0, err
		}
		certs = append(certs, *c)
	}
	return certs, total, rows.Err()
}

func (r *repository) CreateNumbered(ctx context.Context, cert Certificate, yearBE int) (*Certificate, error) {
	cert.ID = uuid.NewString()

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var seq int
		err := tx.QueryRow(ctx, `
			INSERT INTO withholding_sequences (business_id, year, last_number)
			VALUES ($1, $2, 1)
			ON CONFLICT (business_id, year) DO UPDATE SET last_number = withholding_sequences.last_number + 1
			RETURNING last_number`,
			cert.BusinessID, yearBE).Scan(&seq)
		if err != nil {
			return fmt.Errorf("advance certificate sequence: %w", err)
		}

		cert.SequenceNo = seq
		cert.CertNumber = fmt.Sprintf("WHT-%d-%04d", yearBE, seq)

		_, err = tx.Exec(ctx, `
			INSERT INTO withholding_certificates (id, business_id, cert_number, sequence_no,
				pnd_form, payee_type, payee_name, payee_tax_id, payee_address,
				income_type, income_description, payment_date, base_amount, rate,
				tax_withheld, transaction_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())`,
			cert.ID, cert.BusinessID, cert.CertNumber, cert.SequenceNo,
			cert.PNDForm, cert.PayeeType, cert.PayeeName, cert.PayeeTaxID, cert.PayeeAddress,
			cert.IncomeType, cert.IncomeDesc, cert.PaymentDate, cert.BaseAmount, cert.Rate,
			cert.TaxWithheld, cert.TransactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, cert.ID)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM withholding_certificates WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCertificate(row pgx.Row) (*Certificate, error) {
	var c Certificate
	var payeeAddress, incomeDesc, transactionID pgtype.Text
	var paymentDate pgtype.Date
	var baseAmount, rate, taxWithheld pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&c.ID, &c.BusinessID, &c.CertNumber, &c.SequenceNo, &c.PNDForm, &c.PayeeType,
		&c.PayeeName, &c.PayeeTaxID, &payeeAddress, &c.IncomeType, &incomeDesc,
		&paymentDate, &baseAmount, &rate, &taxWithheld, &transactionID, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if payeeAddress.Valid {
		c.PayeeAddress = &payeeAddress.String
	}
	if incomeDesc.Valid {
		c.IncomeDesc = &incomeDesc.String
	}
	if transactionID.Valid {
		c.TransactionID = &transactionID.String
	}
	if paymentDate.Valid {
		c.PaymentDate = paymentDate.Time
	}
	c.BaseAmount = numericFloat(baseAmount)
	c.Rate = numericFloat(rate)
	c.TaxWithheld = numericFloat(taxWithheld)
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}

func numericFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
