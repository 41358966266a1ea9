package eco4

import (
	"context"
	"errors"
	"time"

	"go-salesdash/internal/features/access"
	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/expense"
	"go-salesdash/internal/features/metrics"
	"go-salesdash/internal/features/user"

	"go.uber.org/zap"
)

// Service is the ECO4 business line's metrics provider.
//
// Known limitation: the ECO4 store carries no field-rep or account-manager
// attribution. Non-admin roles therefore get empty results (fail-closed, no
// synthetic identity mapping), and both leaderboards are empty.
//
// KPI semantics: fully cohort-based. Paid count and revenue are attributed
// to the creation cohort, unlike Solar's paid-date attribution. Both
// behaviors exist in production reporting and are deliberately not unified.
type Service struct {
	repo        Eco4Repository
	expenseRepo expense.ExpenseRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(repo Eco4Repository, expenseRepo expense.ExpenseRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		expenseRepo: expenseRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// fetchCreatedIn wraps the paged read, downgrading a ceiling hit to a
// warning with the partial set.
func (s *Service) fetchCreatedIn(ctx context.Context, op string, rng daterange.Range) ([]metrics.Lead, error) {
	leads, err := s.repo.FindCreatedIn(ctx, rng)
	return s.handleTruncation(op, leads, err)
}

func (s *Service) fetchAll(ctx context.Context, op string) ([]metrics.Lead, error) {
	leads, err := s.repo.FindAll(ctx)
	return s.handleTruncation(op, leads, err)
}

func (s *Service) handleTruncation(op string, leads []metrics.Lead, err error) ([]metrics.Lead, error) {
	var truncated *TruncatedError
	if errors.As(err, &truncated) {
		s.logger.Warn("eco4 fetch hit row ceiling, continuing with partial set",
			zap.String("line", string(metrics.LineEco4)),
			zap.String("op", op),
			zap.Int("rows", truncated.Rows),
		)
		return leads, nil
	}
	return leads, err
}

func (s *Service) FetchLeads(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) ([]metrics.Lead, error) {
	scope := access.ScopeFilter(u, nameFilter, false)
	if scope.Deny {
		// Denial surfaces as such; an empty slice would read as an
		// empty store.
		return nil, metrics.ErrAccessDenied
	}

	leads, err := s.fetchCreatedIn(ctx, "fetchLeads", rng)
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *Service) FetchKPIMetrics(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) (metrics.KPIBundle, error) {
	scope := access.ScopeFilter(u, nameFilter, false)
	if scope.Deny {
		return metrics.KPIBundle{}, nil
	}

	cohort, err := s.fetchCreatedIn(ctx, "fetchKPIMetrics", rng)
	if err != nil {
		s.warn("fetchKPIMetrics", err)
		return metrics.KPIBundle{}, nil
	}

	// Paid stays inside the creation cohort here.
	paid := make([]metrics.Lead, 0)
	for _, l := range cohort {
		if l.Status == metrics.StatusPaid {
			paid = append(paid, l)
		}
	}

	return metrics.CountKPIs(cohort, paid), nil
}

// FetchLeaderboardStats is always empty: the store has no rep identity.
func (s *Service) FetchLeaderboardStats(ctx context.Context) ([]metrics.LeaderboardEntry, error) {
	return []metrics.LeaderboardEntry{}, nil
}

// FetchAccountManagerLeaderboard is always empty: the store has no
// account-manager identity.
func (s *Service) FetchAccountManagerLeaderboard(ctx context.Context, rng *daterange.Range) ([]metrics.LeaderboardEntry, error) {
	return []metrics.LeaderboardEntry{}, nil
}

func (s *Service) FetchSixMonthTrend(ctx context.Context) ([]metrics.MonthlyActivity, error) {
	window := metrics.SixMonthWindow(s.now())
	leads, err := s.fetchAll(ctx, "fetchSixMonthTrend")
	if err != nil {
		s.warn("fetchSixMonthTrend", err)
		return metrics.BucketActivity(nil, window), nil
	}
	return metrics.BucketActivity(leads, window), nil
}

func (s *Service) FetchRevenueTrend(ctx context.Context) ([]metrics.RevenuePoint, error) {
	window := metrics.SixMonthWindow(s.now())
	leads, err := s.fetchAll(ctx, "fetchRevenueTrend")
	if err != nil {
		s.warn("fetchRevenueTrend", err)
		return metrics.BucketRevenue(nil, window), nil
	}
	return metrics.BucketRevenue(leads, window), nil
}

func (s *Service) FetchLeadSourceStats(ctx context.Context, rng daterange.Range) ([]metrics.LeadSourceStat, error) {
	leads, err := s.fetchCreatedIn(ctx, "fetchLeadSourceStats", rng)
	if err != nil {
		s.warn("fetchLeadSourceStats", err)
		return []metrics.LeadSourceStat{}, nil
	}
	return metrics.BuildSourceStats(leads), nil
}

func (s *Service) FetchInstallerPerformance(ctx context.Context, rng daterange.Range) ([]metrics.InstallerStat, error) {
	leads, err := s.fetchCreatedIn(ctx, "fetchInstallerPerformance", rng)
	if err != nil {
		s.warn("fetchInstallerPerformance", err)
		return []metrics.InstallerStat{}, nil
	}
	return metrics.BuildInstallerStats(leads), nil
}

func (s *Service) FetchFinancialData(ctx context.Context, rng daterange.Range) (metrics.FinancialReport, error) {
	cohort, err := s.fetchCreatedIn(ctx, "fetchFinancialData", rng)
	if err != nil {
		s.warn("fetchFinancialData", err)
		return metrics.BuildFinancialReport(nil, nil, nil), nil
	}

	// Revenue attribution follows the cohort here too: paid records from
	// the in-range cohort, not paid-dated records.
	paid := make([]metrics.Lead, 0)
	for _, l := range cohort {
		if l.Status == metrics.StatusPaid {
			paid = append(paid, l)
		}
	}

	entries, err := s.expenseRepo.FindInRange(ctx, rng)
	if err != nil {
		s.warn("fetchFinancialData", err)
		entries = nil
	}

	return metrics.BuildFinancialReport(cohort, paid, expense.Lines(entries)), nil
}

func (s *Service) FetchFinancialTrend(ctx context.Context) ([]metrics.FinancialTrend, error) {
	window := metrics.SixMonthWindow(s.now())

	leads, err := s.fetchAll(ctx, "fetchFinancialTrend")
	if err != nil {
		s.warn("fetchFinancialTrend", err)
		leads = nil
	}

	entries, err := s.expenseRepo.FindSince(ctx, window[0])
	if err != nil {
		s.warn("fetchFinancialTrend", err)
		entries = nil
	}

	return metrics.BuildFinancialTrend(leads, expense.Lines(entries), window), nil
}

func (s *Service) warn(op string, err error) {
	s.logger.Warn("eco4 store fetch failed, returning empty result",
		zap.String("line", string(metrics.LineEco4)),
		zap.String("op", op),
		zap.Error(err),
	)
}
