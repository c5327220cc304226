package withholding

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	certs map[string]*Certificate
	seqs  map[string]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{certs: make(map[string]*Certificate), seqs: make(map[string]int)}
}

func (m *mockRepo) Get(ctx context.Context, id string) (*Certificate, error) {
	c, ok := m.certs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context, businessID string, year, limit, offset int) ([]Certificate, int, error) {
	var out []Certificate
	for _, c := range m.certs {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) CreateNumbered(ctx context.Context, cert Certificate, yearBE int) (*Certificate, error) {
	key := fmt.Sprintf("%s/%d", cert.BusinessID, yearBE)
	m.seqs[key]++
	cert.ID = fmt.Sprintf("cert-%d", len(m.certs)+1)
	cert.SequenceNo = m.seqs[key]
	cert.CertNumber = fmt.Sprintf("WHT-%d-%04d", yearBE, cert.SequenceNo)
	m.certs[cert.ID] = &cert
	return m.Get(ctx, cert.ID)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.certs[id]; !ok {
		return ErrNotFound
	}
	delete(m.certs, id)
	return nil
}

type fakeRenderer struct {
	lastHTML string
}

func (f *fakeRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	f.lastHTML = html
	return []byte("%PDF-1.4 fake"), nil
}

func TestCreateCertificateNumbersPerBuddhistYear(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &fakeRenderer{}, nil, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, "biz-1", CreateCertificateRequest{
		PayeeType:   PayeeCompany,
		PayeeName:   "บริษัท ผู้รับจ้าง จำกัด",
		PayeeTaxID:  "0105558000001",
		IncomeType:  IncomeService,
		PaymentDate: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		BaseAmount:  10000,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "WHT-2567-0001", first.CertNumber)
	assert.Equal(t, PND53, first.PNDForm)
	assert.InDelta(t, 300.0, first.TaxWithheld, 0.001)

	second, err := svc.Create(ctx, "biz-1", CreateCertificateRequest{
		PayeeType:   PayeeIndividual,
		PayeeName:   "สมชาย ใจดี",
		PayeeTaxID:  "1100500000001",
		IncomeType:  IncomeRent,
		PaymentDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		BaseAmount:  20000,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "WHT-2567-0002", second.CertNumber)
	assert.Equal(t, PND3, second.PNDForm)
	assert.InDelta(t, 1000.0, second.TaxWithheld, 0.001)

	// A new Buddhist year restarts the sequence.
	next, err := svc.Create(ctx, "biz-1", CreateCertificateRequest{
		PayeeType:   PayeeCompany,
		PayeeName:   "บริษัท ผู้รับจ้าง จำกัด",
		PayeeTaxID:  "0105558000001",
		IncomeType:  IncomeService,
		PaymentDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		BaseAmount:  5000,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "WHT-2568-0001", next.CertNumber)
}

func TestCreateCertificateRateOverride(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &fakeRenderer{}, nil, nil)

	rate := 1.5
	cert, err := svc.Create(context.Background(), "biz-1", CreateCertificateRequest{
		PayeeType:   PayeeCompany,
		PayeeName:   "บริษัท ขนส่ง จำกัด",
		PayeeTaxID:  "0105558000002",
		IncomeType:  IncomeTransport,
		PaymentDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		BaseAmount:  10000,
		Rate:        &rate,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1.5, cert.Rate)
	assert.InDelta(t, 150.0, cert.TaxWithheld, 0.001)
}

func TestRenderPDFIncludesCertNumber(t *testing.T) {
	repo := newMockRepo()
	renderer := &fakeRenderer{}
	svc := NewService(repo, renderer, nil, nil)
	ctx := context.Background()

	cert, err := svc.Create(ctx, "biz-1", CreateCertificateRequest{
		PayeeType:   PayeeCompany,
		PayeeName:   "บริษัท ผู้รับจ้าง จำกัด",
		PayeeTaxID:  "0105558000001",
		IncomeType:  IncomeService,
		PaymentDate: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		BaseAmount:  10000,
	}, "user-1")
	require.NoError(t, err)

	pdf, err := svc.RenderPDF(ctx, cert.ID, "biz-1")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.True(t, strings.Contains(renderer.lastHTML, cert.CertNumber))
	assert.True(t, strings.Contains(renderer.lastHTML, "หนังสือรับรองการหักภาษี"))
}

func TestCertificatesScopedToBusiness(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &fakeRenderer{}, nil, nil)
	ctx := context.Background()

	cert, err := svc.Create(ctx, "biz-1", CreateCertificateRequest{
		PayeeType:   PayeeCompany,
		PayeeName:   "บริษัท ผู้รับจ้าง จำกัด",
		PayeeTaxID:  "0105558000001",
		IncomeType:  IncomeService,
		PaymentDate: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		BaseAmount:  10000,
	}, "user-1")
	require.NoError(t, err)

	_, err = svc.Get(ctx, cert.ID, "biz-2")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RenderPDF(ctx, cert.ID, "biz-2")
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, cert.ID, "biz-2", "user-9")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, repo.certs, cert.ID)
}
