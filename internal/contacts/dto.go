package contacts

type CreateContactRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	TaxID      *string `json:"tax_id,omitempty" validate:"omitempty,max=13"`
	BranchCode *string `json:"branch_code,omitempty" validate:"omitempty,max=5"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	IsVendor   bool    `json:"is_vendor"`
	Notes      *string `json:"notes,omitempty"`
}

type UpdateContactRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	TaxID      *string `json:"tax_id,omitempty" validate:"omitempty,max=13"`
	BranchCode *string `json:"branch_code,omitempty" validate:"omitempty,max=5"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	IsVendor   *bool   `json:"is_vendor,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type ListContactsRequest struct {
	BusinessID string  `json:"business_id" validate:"required"`
	IsVendor   *bool   `json:"is_vendor,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	Search     *string `json:"search,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}
