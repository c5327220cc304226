package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

type Service struct {
	store Store
	cache *Cache
	group singleflight.Group
}

func NewService(store Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ProfitLoss returns the monthly P&L for the range, cached and collapsed so
// concurrent dashboard loads share one database pass.
func (s *Service) ProfitLoss(ctx context.Context, businessID string, from, to time.Time) (*PLReport, error) {
	fromStr, toStr := from.Format("2006-01-02"), to.Format("2006-01-02")
	key, err := s.cache.BuildKey(ctx, keyPL(businessID, fromStr, toStr))
	if err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		var report PLReport
		err := s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (any, error) {
			rows, err := s.store.ProfitLoss(ctx, businessID, from, to)
			if err != nil {
				return nil, err
			}
			return buildPLReport(rows), nil
		})
		if err != nil {
			return nil, err
		}
		return &report, nil
	})
	if err != nil {
		return nil, fmt.Errorf("profit loss report: %w", err)
	}
	return v.(*PLReport), nil
}

func (s *Service) StatusCounts(ctx context.Context, businessID string) ([]StatusCount, error) {
	key, err := s.cache.BuildKey(ctx, keyStatusCounts(businessID))
	if err != nil {
		return nil, err
	}
	var counts []StatusCount
	err = s.cache.FetchJSON(ctx, key, &counts, func(ctx context.Context) (any, error) {
		return s.store.StatusCounts(ctx, businessID)
	})
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	return counts, nil
}

func (s *Service) TopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]TopCustomer, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	fromStr, toStr := from.Format("2006-01-02"), to.Format("2006-01-02")
	key, err := s.cache.BuildKey(ctx, keyTopCustomers(businessID, fromStr, toStr))
	if err != nil {
		return nil, err
	}
	var customers []TopCustomer
	err = s.cache.FetchJSON(ctx, key, &customers, func(ctx context.Context) (any, error) {
		return s.store.TopCustomers(ctx, businessID, from, to, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	return customers, nil
}

func (s *Service) TaxSummary(ctx context.Context, businessID string, from, to time.Time) (*TaxSummary, error) {
	fromStr, toStr := from.Format("2006-01-02"), to.Format("2006-01-02")
	key, err := s.cache.BuildKey(ctx, keyTaxSummary(businessID, fromStr, toStr))
	if err != nil {
		return nil, err
	}
	var summary TaxSummary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (any, error) {
		return s.store.TaxSummary(ctx, businessID, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("tax summary: %w", err)
	}
	return &summary, nil
}

// Invalidate bumps the cache version after ledger or document mutations.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func buildPLReport(rows []PLRow) *PLReport {
	report := &PLReport{Months: rows}
	for _, r := range rows {
		report.TotalIncome += r.Income
		report.TotalExpense += r.Expense
	}
	report.TotalNet = report.TotalIncome - report.TotalExpense
	return report
}
