package contacts

import "time"

type Contact struct {
	ID         string    `json:"id" db:"id"`
	BusinessID string    `json:"business_id" db:"business_id"`
	Code       string    `json:"code" db:"code"`
	Name       string    `json:"name" db:"name"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	TaxID      *string   `json:"tax_id,omitempty" db:"tax_id"`
	BranchCode *string   `json:"branch_code,omitempty" db:"branch_code"`
	Address    *string   `json:"address,omitempty" db:"address"`
	IsVendor   bool      `json:"is_vendor" db:"is_vendor"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
