package solar

import (
	"context"
	"time"

	"go-salesdash/internal/features/access"
	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/expense"
	"go-salesdash/internal/features/metrics"
	"go-salesdash/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Service is the Solar business line's metrics provider. The Solar store
// carries full rep/manager/installer attribution, so every access scope
// translates to a native column match.
//
// KPI semantics: leads, surveys and installs are cohort counts over the
// records created in range. Paid count and revenue are event counts over
// the records whose paid date fell in range — money is attributed to the
// month it moved, not the month the lead arrived.
type Service struct {
	repo        SolarRepository
	expenseRepo expense.ExpenseRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(repo SolarRepository, expenseRepo expense.ExpenseRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		expenseRepo: expenseRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// scopeFilter translates the access scope into Solar's native columns.
func scopeFilter(scope access.Scope) bson.M {
	if scope.Name == "" {
		return bson.M{}
	}
	switch scope.Field {
	case access.ByAccountManager:
		return bson.M{"accountManager": scope.Name}
	default:
		return bson.M{"fieldRep": scope.Name}
	}
}

func (s *Service) FetchLeads(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) ([]metrics.Lead, error) {
	scope := access.ScopeFilter(u, nameFilter, true)
	if scope.Deny {
		// Denial surfaces as such; an empty slice would read as an
		// empty store.
		return nil, metrics.ErrAccessDenied
	}

	leads, err := s.repo.FindCreatedIn(ctx, rng, scopeFilter(scope))
	if err != nil {
		// The one read path where a silent zero would mislead; propagate.
		return nil, err
	}
	return leads, nil
}

func (s *Service) FetchKPIMetrics(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) (metrics.KPIBundle, error) {
	scope := access.ScopeFilter(u, nameFilter, true)
	if scope.Deny {
		return metrics.KPIBundle{}, nil
	}
	filter := scopeFilter(scope)

	cohort, err := s.repo.FindCreatedIn(ctx, rng, filter)
	if err != nil {
		s.warn("fetchKPIMetrics", err)
		return metrics.KPIBundle{}, nil
	}

	paid, err := s.repo.FindPaidIn(ctx, rng, filter)
	if err != nil {
		s.warn("fetchKPIMetrics", err)
		return metrics.KPIBundle{}, nil
	}

	return metrics.CountKPIs(cohort, paid), nil
}

func (s *Service) FetchLeaderboardStats(ctx context.Context) ([]metrics.LeaderboardEntry, error) {
	leads, err := s.repo.FindAll(ctx)
	if err != nil {
		s.warn("fetchLeaderboardStats", err)
		return []metrics.LeaderboardEntry{}, nil
	}

	board := metrics.BuildLeaderboard(leads, func(l metrics.Lead) string { return l.FieldRep })
	if len(board) > 10 {
		board = board[:10]
	}
	return board, nil
}

func (s *Service) FetchAccountManagerLeaderboard(ctx context.Context, rng *daterange.Range) ([]metrics.LeaderboardEntry, error) {
	var leads []metrics.Lead
	var err error
	if rng != nil {
		leads, err = s.repo.FindCreatedIn(ctx, *rng, bson.M{})
	} else {
		leads, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		s.warn("fetchAccountManagerLeaderboard", err)
		return []metrics.LeaderboardEntry{}, nil
	}

	// Full ranking; truncation is the caller's call.
	return metrics.BuildLeaderboard(leads, func(l metrics.Lead) string { return l.AccountManager }), nil
}

func (s *Service) FetchSixMonthTrend(ctx context.Context) ([]metrics.MonthlyActivity, error) {
	window := metrics.SixMonthWindow(s.now())
	leads, err := s.repo.FindAll(ctx)
	if err != nil {
		s.warn("fetchSixMonthTrend", err)
		return metrics.BucketActivity(nil, window), nil
	}
	return metrics.BucketActivity(leads, window), nil
}

func (s *Service) FetchRevenueTrend(ctx context.Context) ([]metrics.RevenuePoint, error) {
	window := metrics.SixMonthWindow(s.now())
	leads, err := s.repo.FindAll(ctx)
	if err != nil {
		s.warn("fetchRevenueTrend", err)
		return metrics.BucketRevenue(nil, window), nil
	}
	return metrics.BucketRevenue(leads, window), nil
}

func (s *Service) FetchLeadSourceStats(ctx context.Context, rng daterange.Range) ([]metrics.LeadSourceStat, error) {
	leads, err := s.repo.FindCreatedIn(ctx, rng, bson.M{})
	if err != nil {
		s.warn("fetchLeadSourceStats", err)
		return []metrics.LeadSourceStat{}, nil
	}
	return metrics.BuildSourceStats(leads), nil
}

func (s *Service) FetchInstallerPerformance(ctx context.Context, rng daterange.Range) ([]metrics.InstallerStat, error) {
	leads, err := s.repo.FindCreatedIn(ctx, rng, bson.M{})
	if err != nil {
		s.warn("fetchInstallerPerformance", err)
		return []metrics.InstallerStat{}, nil
	}
	return metrics.BuildInstallerStats(leads), nil
}

func (s *Service) FetchFinancialData(ctx context.Context, rng daterange.Range) (metrics.FinancialReport, error) {
	cohort, err := s.repo.FindCreatedIn(ctx, rng, bson.M{})
	if err != nil {
		s.warn("fetchFinancialData", err)
		return metrics.BuildFinancialReport(nil, nil, nil), nil
	}

	paid, err := s.repo.FindPaidIn(ctx, rng, bson.M{})
	if err != nil {
		s.warn("fetchFinancialData", err)
		return metrics.BuildFinancialReport(nil, nil, nil), nil
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

	leads, err := s.repo.FindAll(ctx)
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
	s.logger.Warn("solar store fetch failed, returning empty result",
		zap.String("line", string(metrics.LineSolar)),
		zap.String("op", op),
		zap.Error(err),
	)
}
