package report

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/metrics"
	"go-salesdash/internal/features/user"
)

// ErrStale means the same caller switched to a different selection while
// this load was in flight; the result must be discarded, not rendered.
var ErrStale = errors.New("overview load superseded by a newer selection")

// Overview is the admin landing view: every tile fetched for one selection.
// It is only returned once all fetches settled, never partially.
type Overview struct {
	KPIs            metrics.KPIBundle          `json:"kpis"`
	Trend           []metrics.MonthlyActivity  `json:"trend"`
	RevenueTrend    []metrics.RevenuePoint     `json:"revenueTrend"`
	Leaderboard     []metrics.LeaderboardEntry `json:"leaderboard"`
	AccountManagers []metrics.LeaderboardEntry `json:"accountManagers"`
	Sources         []metrics.LeadSourceStat   `json:"sources"`
}

// OverviewService fans one selection out into parallel fetches. Every load
// is tagged with the filter state it was issued for, per caller: when the
// same caller asks for a different selection, the older in-flight load
// reports ErrStale on completion instead of handing back data the caller no
// longer wants. Loads by other callers, and repeats of the identical
// selection, never interfere.
type OverviewService struct {
	registry *metrics.Registry

	mu     sync.Mutex
	latest map[string]string // caller id -> filter state of their newest load
}

func NewOverviewService(registry *metrics.Registry) *OverviewService {
	return &OverviewService{
		registry: registry,
		latest:   make(map[string]string),
	}
}

// loadKey flattens one filter state so two loads compare by what they were
// asked for, not by when they started.
func loadKey(line metrics.BusinessLine, rng daterange.Range, nameFilter string) string {
	return fmt.Sprintf("%s|%d|%d|%s", line, rng.Start.UnixNano(), rng.End.UnixNano(), nameFilter)
}

func callerID(u *user.Profile) string {
	if u == nil {
		return ""
	}
	return u.ID.Hex()
}

func (s *OverviewService) Load(ctx context.Context, u *user.Profile, line metrics.BusinessLine, rng daterange.Range, nameFilter string) (*Overview, error) {
	provider, err := s.registry.Get(line)
	if err != nil {
		return nil, err
	}

	caller := callerID(u)
	key := loadKey(line, rng, nameFilter)
	s.mu.Lock()
	s.latest[caller] = key
	s.mu.Unlock()

	var (
		ov   Overview
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		kpis, err := provider.FetchKPIMetrics(ctx, u, rng, nameFilter)
		ov.KPIs = kpis
		return err
	})
	run(func() error {
		trend, err := provider.FetchSixMonthTrend(ctx)
		ov.Trend = trend
		return err
	})
	run(func() error {
		trend, err := provider.FetchRevenueTrend(ctx)
		ov.RevenueTrend = trend
		return err
	})
	run(func() error {
		board, err := provider.FetchLeaderboardStats(ctx)
		ov.Leaderboard = board
		return err
	})
	run(func() error {
		board, err := provider.FetchAccountManagerLeaderboard(ctx, &rng)
		// Admin overview shows the podium only.
		if len(board) > 5 {
			board = board[:5]
		}
		ov.AccountManagers = board
		return err
	})
	run(func() error {
		sources, err := provider.FetchLeadSourceStats(ctx, rng)
		ov.Sources = sources
		return err
	})

	wg.Wait()

	s.mu.Lock()
	current := s.latest[caller]
	s.mu.Unlock()
	if current != key {
		return nil, ErrStale
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &ov, nil
}
