package withholding

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/accountee/accountee/internal/shared"
)

// Renderer turns certificate HTML into a PDF. Satisfied by report.Client.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

type Service struct {
	repo     Repository
	renderer Renderer
	audit    *shared.AuditLogger
	logger   *slog.Logger
}

func NewService(repo Repository, renderer Renderer, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, renderer: renderer, audit: audit, logger: logger}
}

// Create issues a certificate: classifies the PND form, applies the
// statutory rate unless overridden, and numbers it within the payee
// business and Buddhist-era year of the payment date.
func (s *Service) Create(ctx context.Context, businessID string, req CreateCertificateRequest, actorID string) (*Certificate, error) {
	rate := RateFor(req.IncomeType)
	if req.Rate != nil {
		rate = *req.Rate
	}

	cert := Certificate{
		BusinessID:    businessID,
		PNDForm:       ClassifyPNDForm(req.PayeeType, req.PayeeTaxID),
		PayeeType:     req.PayeeType,
		PayeeName:     req.PayeeName,
		PayeeTaxID:    req.PayeeTaxID,
		PayeeAddress:  req.PayeeAddress,
		IncomeType:    req.IncomeType,
		IncomeDesc:    req.IncomeDesc,
		PaymentDate:   req.PaymentDate,
		BaseAmount:    req.BaseAmount,
		Rate:          rate,
		TaxWithheld:   round2(req.BaseAmount * rate / 100),
		TransactionID: req.TransactionID,
	}

	yearBE := req.PaymentDate.Year() + 543
	created, err := s.repo.CreateNumbered(ctx, cert, yearBE)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}

	s.recordAudit(ctx, actorID, businessID, "withholding.create", created.ID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id, businessID string) (*Certificate, error) {
	return s.getScoped(ctx, id, businessID)
}

// getScoped hides certificates of other businesses behind ErrNotFound.
func (s *Service) getScoped(ctx context.Context, id, businessID string) (*Certificate, error) {
	cert, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return cert, nil
}

func (s *Service) List(ctx context.Context, businessID string, year, limit, offset int) ([]Certificate, int, error) {
	return s.repo.List(ctx, businessID, year, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id, businessID string, actorID string) error {
	cert, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, cert.BusinessID, "withholding.delete", id)
	return nil
}

// RenderPDF produces the printable หนังสือรับรองหักภาษี ณ ที่จ่าย.
func (s *Service) RenderPDF(ctx context.Context, id, businessID string) ([]byte, error) {
	cert, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	html := certificateHTML(cert)
	pdf, err := s.renderer.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return pdf, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID, businessID, action, entityID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:    actorID,
		BusinessID: businessID,
		Action:     action,
		Entity:     "withholding_certificate",
		EntityID:   entityID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
