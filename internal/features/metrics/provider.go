package metrics

import (
	"context"
	"errors"
	"fmt"

	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/user"
)

// ErrAccessDenied is returned by FetchLeads when the access policy denies
// the caller, keeping "no access" distinguishable from an empty store.
var ErrAccessDenied = errors.New("access denied for this selection")

// BusinessLine tags which backing store a fetch targets. Selection is
// always an explicit tag from the caller, never inferred.
type BusinessLine string

const (
	LineSolar BusinessLine = "solar"
	LineEco4  BusinessLine = "eco4"
)

// Provider is the one contract both business lines implement. Every
// operation takes a resolved date range where dates matter; user-facing
// operations take the caller so the access policy can scope the query.
//
// Error behavior: FetchLeads propagates store faults so the caller can show
// an explicit error state, and returns ErrAccessDenied when the policy
// denies the caller. Every other operation logs the fault and returns a
// safe zero default, because a dashboard tile showing zero beats a
// dashboard that refuses to render.
type Provider interface {
	FetchLeads(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) ([]Lead, error)
	FetchKPIMetrics(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) (KPIBundle, error)
	FetchLeaderboardStats(ctx context.Context) ([]LeaderboardEntry, error)
	FetchAccountManagerLeaderboard(ctx context.Context, rng *daterange.Range) ([]LeaderboardEntry, error)
	FetchSixMonthTrend(ctx context.Context) ([]MonthlyActivity, error)
	FetchRevenueTrend(ctx context.Context) ([]RevenuePoint, error)
	FetchLeadSourceStats(ctx context.Context, rng daterange.Range) ([]LeadSourceStat, error)
	FetchInstallerPerformance(ctx context.Context, rng daterange.Range) ([]InstallerStat, error)
	FetchFinancialData(ctx context.Context, rng daterange.Range) (FinancialReport, error)
	FetchFinancialTrend(ctx context.Context) ([]FinancialTrend, error)
}

// Registry resolves a business-line tag to its provider.
type Registry struct {
	providers map[BusinessLine]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[BusinessLine]Provider)}
}

func (r *Registry) Register(line BusinessLine, p Provider) {
	r.providers[line] = p
}

func (r *Registry) Get(line BusinessLine) (Provider, error) {
	p, ok := r.providers[line]
	if !ok {
		return nil, fmt.Errorf("unknown business line %q", line)
	}
	return p, nil
}
