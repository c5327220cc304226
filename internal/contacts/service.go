package contacts

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, businessID string, req CreateContactRequest) (*Contact, error) {
	code, err := s.repo.NextCode(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("generate contact code: %w", err)
	}

	existing, err := s.repo.GetByCode(ctx, businessID, code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing contact: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: contact code already exists", ErrAlreadyExists)
	}

	contact := Contact{
		BusinessID: businessID,
		Code:       code,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		TaxID:      req.TaxID,
		BranchCode: req.BranchCode,
		Address:    req.Address,
		IsVendor:   req.IsVendor,
		IsActive:   true,
		Notes:      req.Notes,
	}

	id, err := s.repo.Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id, businessID string, req UpdateContactRequest) (*Contact, error) {
	existing, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.TaxID != nil {
		updates["tax_id"] = *req.TaxID
	}
	if req.BranchCode != nil {
		updates["branch_code"] = *req.BranchCode
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.IsVendor != nil {
		updates["is_vendor"] = *req.IsVendor
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id, businessID string) (*Contact, error) {
	return s.getScoped(ctx, id, businessID)
}

// getScoped answers ErrNotFound for contacts owned by another business.
func (s *Service) getScoped(ctx context.Context, id, businessID string) (*Contact, error) {
	contact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return contact, nil
}

func (s *Service) List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id, businessID string) error {
	if _, err := s.getScoped(ctx, id, businessID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
