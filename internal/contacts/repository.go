package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type Repository interface {
	Get(ctx context.Context, id string) (*Contact, error)
	GetByCode(ctx context.Context, businessID, code string) (*Contact, error)
	List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error)
	Create(ctx context.Context, c Contact) (string, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	NextCode(ctx context.Context, businessID string) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const contactColumns = `id, business_id, code, name, email, phone, tax_id,
	branch_code, address, is_vendor, is_active, notes, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id string) (*Contact, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM contacts WHERE id = $1", contactColumns), id)
	return scanContact(row)
}

func (r *repository) GetByCode(ctx context.Context, businessID, code string) (*Contact, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM contacts WHERE business_id = $1 AND code = $2", contactColumns),
		businessID, code)
	return scanContact(row)
}

func (r *repository) List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error) {
	conditions := []string{"business_id = $1"}
	args := []any{req.BusinessID}
	argPos := 2

	if req.IsVendor != nil {
		conditions = append(conditions, fmt.Sprintf("is_vendor = $%d", argPos))
		args = append(args, *req.IsVendor)
		argPos++
	}
	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d OR tax_id ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM contacts %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM contacts %s ORDER BY code LIMIT $%d OFFSET $%d`,
		contactColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Contact) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contacts (id, business_id, code, name, email, phone, tax_id,
			branch_code, address, is_vendor, is_active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())`,
		id, c.BusinessID, c.Code, c.Name, c.Email, c.Phone, c.TaxID,
		c.BranchCode, c.Address, c.IsVendor, c.IsActive, c.Notes)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	query := "UPDATE contacts SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"name", "email", "phone", "tax_id", "branch_code", "address", "is_vendor", "is_active", "notes"} {
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
	tag, err := r.pool.Exec(ctx, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NextCode suggests the next contact code for the business. The value is a
// pre-fill suggestion, uniqueness is still enforced on insert.
func (r *repository) NextCode(ctx context.Context, businessID string) (string, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		"SELECT count(*) FROM contacts WHERE business_id = $1", businessID).Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CUST-%05d", count+1), nil
}

func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	var email, phone, taxID, branch, address, notes pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&c.ID, &c.BusinessID, &c.Code, &c.Name, &email, &phone, &taxID,
		&branch, &address, &c.IsVendor, &c.IsActive, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if taxID.Valid {
		c.TaxID = &taxID.String
	}
	if branch.Valid {
		c.BranchCode = &branch.String
	}
	if address.Valid {
		c.Address = &address.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}
