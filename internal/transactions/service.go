package transactions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/accountee/accountee/internal/shared"
)

// vatRate is the Thai VAT rate. Entered amounts are VAT-inclusive, so the
// tax portion is amount * rate / (100 + rate).
const vatRate = 7.0

type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

func (s *Service) Create(ctx context.Context, businessID string, req CreateTransactionRequest, actorID string) (*Transaction, error) {
	tx := Transaction{
		BusinessID:     businessID,
		Type:           req.Type,
		Category:       req.Category,
		Description:    req.Description,
		Amount:         req.Amount,
		HasVAT:         req.HasVAT,
		VATAmount:      vatPortion(req.Amount, req.HasVAT),
		WithholdingAmt: req.WithholdingAmt,
		TxDate:         req.TxDate,
		ContactID:      req.ContactID,
		ContactName:    req.ContactName,
		DocumentID:     req.DocumentID,
		Notes:          req.Notes,
	}

	id, err := s.repo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.recordAudit(ctx, actorID, businessID, "transaction.create", id)
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id, businessID string, req UpdateTransactionRequest, actorID string) (*Transaction, error) {
	existing, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TxDate != nil {
		updates["transaction_date"] = *req.TxDate
	}
	if req.ContactID != nil {
		updates["contact_id"] = *req.ContactID
	}
	if req.ContactName != nil {
		updates["contact_name"] = *req.ContactName
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.WithholdingAmt != nil {
		updates["withholding_amount"] = *req.WithholdingAmt
	}

	// Amount and VAT flag move together so the derived tax stays in step.
	if req.Amount != nil || req.HasVAT != nil {
		amount := existing.Amount
		if req.Amount != nil {
			amount = *req.Amount
		}
		hasVAT := existing.HasVAT
		if req.HasVAT != nil {
			hasVAT = *req.HasVAT
		}
		updates["amount"] = amount
		updates["has_vat"] = hasVAT
		updates["vat_amount"] = vatPortion(amount, hasVAT)
	}

	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	s.recordAudit(ctx, actorID, existing.BusinessID, "transaction.update", id)
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id, businessID string) (*Transaction, error) {
	return s.getScoped(ctx, id, businessID)
}

// getScoped refuses to surface records belonging to another business;
// a cross-business id looks exactly like a missing one.
func (s *Service) getScoped(ctx context.Context, id, businessID string) (*Transaction, error) {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return tx, nil
}

func (s *Service) List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id, businessID string, actorID string) error {
	existing, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, existing.BusinessID, "transaction.delete", id)
	return nil
}

func (s *Service) SummaryByMonth(ctx context.Context, businessID string, from, to time.Time) ([]MonthSummary, error) {
	return s.repo.SummaryByMonth(ctx, businessID, from, to)
}

func (s *Service) recordAudit(ctx context.Context, actorID, businessID, action, entityID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:    actorID,
		BusinessID: businessID,
		Action:     action,
		Entity:     "transaction",
		EntityID:   entityID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func vatPortion(amount float64, hasVAT bool) float64 {
	if !hasVAT {
		return 0
	}
	return amount * vatRate / (100 + vatRate)
}
