package report

import (
	"errors"
	"strconv"

	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/metrics"
	"go-salesdash/internal/features/preference"
	"go-salesdash/internal/features/user"
	"go-salesdash/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	Registry          *metrics.Registry
	UserService       user.UserService
	PreferenceService preference.PreferenceService
	Overview          *OverviewService
	Exporter          *FinancialExporter
	Logger            *zap.Logger
}

func NewReportController(
	registry *metrics.Registry,
	userService user.UserService,
	preferenceService preference.PreferenceService,
	overview *OverviewService,
	exporter *FinancialExporter,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{
		Registry:          registry,
		UserService:       userService,
		PreferenceService: preferenceService,
		Overview:          overview,
		Exporter:          exporter,
		Logger:            logger,
	}
}

// selection is one fully-resolved filter state: who is asking, which line,
// which window, which optional rep narrowing.
type selection struct {
	user       *user.Profile
	line       metrics.BusinessLine
	provider   metrics.Provider
	rng        daterange.Range
	nameFilter string
}

// currentUser resolves the signed-in email to a directory profile. A
// missing profile is an authorization failure, not an empty lookup.
func (ctrl *ReportController) currentUser(c *fiber.Ctx) (*user.Profile, error) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := ctrl.UserService.GetByEmail(c.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "no profile for this account, sign out required")
		}
		return nil, err
	}
	return profile, nil
}

// resolveSelection reads the shared query parameters: line (falling back to
// the persisted preference), period with optional custom bounds, and the
// admin rep filter.
func (ctrl *ReportController) resolveSelection(c *fiber.Ctx) (*selection, error) {
	profile, err := ctrl.currentUser(c)
	if err != nil {
		return nil, err
	}

	line := metrics.BusinessLine(c.Query("line"))
	if line == "" {
		line, err = ctrl.PreferenceService.ActiveBusinessLine(c.Context(), profile.ID)
		if err != nil {
			ctrl.Logger.Warn("failed to load business line preference", zap.Error(err))
			line = metrics.LineSolar
		}
	}

	provider, err := ctrl.Registry.Get(line)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	period := daterange.Period(c.Query("period", string(daterange.PeriodThisMonth)))
	rng := daterange.Resolve(period, c.Query("start"), c.Query("end"))

	return &selection{
		user:       profile,
		line:       line,
		provider:   provider,
		rng:        rng,
		nameFilter: c.Query("rep"),
	}, nil
}

// GetLeads returns the canonical records for the selection
// @Summary List leads
// @Tags reports
// @Produce json
// @Success 200 {array} metrics.Lead
// @Router /api/reports/leads [get]
func (ctrl *ReportController) GetLeads(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	leads, err := sel.provider.FetchLeads(c.Context(), sel.user, sel.rng, sel.nameFilter)
	if err != nil {
		if errors.Is(err, metrics.ErrAccessDenied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no access to these records"})
		}
		// The one operation that surfaces store faults to the caller.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to load leads"})
	}
	return c.JSON(leads)
}

// GetKPIs returns the funnel KPI bundle
// @Summary KPI bundle
// @Tags reports
// @Produce json
// @Success 200 {object} metrics.KPIBundle
// @Router /api/reports/kpis [get]
func (ctrl *ReportController) GetKPIs(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	kpis, err := sel.provider.FetchKPIMetrics(c.Context(), sel.user, sel.rng, sel.nameFilter)
	if err != nil {
		ctrl.Logger.Warn("kpi fetch failed, rendering zero values", zap.Error(err))
	}
	return c.JSON(kpis)
}

// GetLeaderboard returns the all-time top-10 field rep ranking
// @Summary Field rep leaderboard
// @Tags reports
// @Produce json
// @Success 200 {array} metrics.LeaderboardEntry
// @Router /api/reports/leaderboard [get]
func (ctrl *ReportController) GetLeaderboard(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	board, err := sel.provider.FetchLeaderboardStats(c.Context())
	if err != nil {
		ctrl.Logger.Warn("leaderboard fetch failed, rendering empty board", zap.Error(err))
	}
	return c.JSON(board)
}

// GetAccountManagerLeaderboard returns the account manager ranking
// @Summary Account manager leaderboard
// @Tags reports
// @Produce json
// @Param take query int false "Truncate to top N"
// @Success 200 {array} metrics.LeaderboardEntry
// @Router /api/reports/account-managers [get]
func (ctrl *ReportController) GetAccountManagerLeaderboard(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	var rng *daterange.Range
	if c.Query("period") != "" {
		rng = &sel.rng
	}

	board, err := sel.provider.FetchAccountManagerLeaderboard(c.Context(), rng)
	if err != nil {
		ctrl.Logger.Warn("account manager leaderboard fetch failed, rendering empty board", zap.Error(err))
	}

	// Truncation is the caller's concern, not the adapter's.
	if takeStr := c.Query("take"); takeStr != "" {
		if take, err := strconv.Atoi(takeStr); err == nil && take >= 0 && take < len(board) {
			board = board[:take]
		}
	}
	return c.JSON(board)
}

// GetSixMonthTrend returns the trailing six-month activity buckets
// @Summary Six month activity trend
// @Tags reports
// @Produce json
// @Success 200 {array} metrics.MonthlyActivity
// @Router /api/reports/trend [get]
func (ctrl *ReportController) GetSixMonthTrend(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	trend, err := sel.provider.FetchSixMonthTrend(c.Context())
	if err != nil {
		ctrl.Logger.Warn("activity trend fetch failed, rendering empty buckets", zap.Error(err))
	}
	return c.JSON(trend)
}

// GetRevenueTrend returns the trailing six-month revenue buckets
// @Summary Six month revenue trend
// @Tags reports
// @Produce json
// @Success 200 {array} metrics.RevenuePoint
// @Router /api/reports/revenue-trend [get]
func (ctrl *ReportController) GetRevenueTrend(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	trend, err := sel.provider.FetchRevenueTrend(c.Context())
	if err != nil {
		ctrl.Logger.Warn("revenue trend fetch failed, rendering empty buckets", zap.Error(err))
	}
	return c.JSON(trend)
}

// GetLeadSourceStats returns the per-source breakdown
// @Summary Lead source stats
// @Tags reports
// @Produce json
// @Success 200 {array} metrics.LeadSourceStat
// @Router /api/reports/sources [get]
func (ctrl *ReportController) GetLeadSourceStats(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	stats, err := sel.provider.FetchLeadSourceStats(c.Context(), sel.rng)
	if err != nil {
		ctrl.Logger.Warn("source stats fetch failed, rendering empty breakdown", zap.Error(err))
	}
	return c.JSON(stats)
}

// GetInstallerPerformance returns the per-installer funnel
// @Summary Installer performance
// @Tags reports
// @Produce json
// @Success 200 {array} metrics.InstallerStat
// @Router /api/reports/installers [get]
func (ctrl *ReportController) GetInstallerPerformance(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	stats, err := sel.provider.FetchInstallerPerformance(c.Context(), sel.rng)
	if err != nil {
		ctrl.Logger.Warn("installer stats fetch failed, rendering empty breakdown", zap.Error(err))
	}
	return c.JSON(stats)
}

// GetFinancialData returns the financial report for the range
// @Summary Financial report
// @Tags reports
// @Produce json
// @Success 200 {object} metrics.FinancialReport
// @Router /api/reports/financials [get]
func (ctrl *ReportController) GetFinancialData(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	report, err := sel.provider.FetchFinancialData(c.Context(), sel.rng)
	if err != nil {
		ctrl.Logger.Warn("financial fetch failed, rendering zero report", zap.Error(err))
	}
	return c.JSON(report)
}

// GetFinancialTrend returns the six-month financial trend
// @Summary Financial trend
// @Tags reports
// @Produce json
// @Success 200 {array} metrics.FinancialTrend
// @Router /api/reports/financial-trend [get]
func (ctrl *ReportController) GetFinancialTrend(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	trend, err := sel.provider.FetchFinancialTrend(c.Context())
	if err != nil {
		ctrl.Logger.Warn("financial trend fetch failed, rendering empty buckets", zap.Error(err))
	}
	return c.JSON(trend)
}

// GetOverview returns every overview tile for one settled selection
// @Summary Overview
// @Tags reports
// @Produce json
// @Success 200 {object} Overview
// @Router /api/reports/overview [get]
func (ctrl *ReportController) GetOverview(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	ov, err := ctrl.Overview.Load(c.Context(), sel.user, sel.line, sel.rng, sel.nameFilter)
	if err != nil {
		if errors.Is(err, ErrStale) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "superseded by a newer request"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ov)
}

// ExportFinancials streams the financial report as a spreadsheet
// @Summary Export financials
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/reports/financials/export [get]
func (ctrl *ReportController) ExportFinancials(c *fiber.Ctx) error {
	sel, err := ctrl.resolveSelection(c)
	if err != nil {
		return err
	}

	report, err := sel.provider.FetchFinancialData(c.Context(), sel.rng)
	if err != nil {
		ctrl.Logger.Warn("financial fetch failed, exporting zero report", zap.Error(err))
	}

	buf, err := ctrl.Exporter.Workbook(sel.line, sel.rng, report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="financials.xlsx"`)
	return c.Send(buf.Bytes())
}

// GetBusinessLine returns the caller's persisted business line selection
// @Summary Get active business line
// @Tags preferences
// @Produce json
// @Router /api/preferences/business-line [get]
func (ctrl *ReportController) GetBusinessLine(c *fiber.Ctx) error {
	profile, err := ctrl.currentUser(c)
	if err != nil {
		return err
	}

	line, err := ctrl.PreferenceService.ActiveBusinessLine(c.Context(), profile.ID)
	if err != nil {
		ctrl.Logger.Warn("failed to load business line preference", zap.Error(err))
		line = metrics.LineSolar
	}
	return c.JSON(fiber.Map{"line": line})
}

// SetBusinessLine persists the caller's business line selection
// @Summary Set active business line
// @Tags preferences
// @Accept json
// @Router /api/preferences/business-line [put]
func (ctrl *ReportController) SetBusinessLine(c *fiber.Ctx) error {
	profile, err := ctrl.currentUser(c)
	if err != nil {
		return err
	}

	var body struct {
		Line metrics.BusinessLine `json:"line"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if _, err := ctrl.Registry.Get(body.Line); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.PreferenceService.SetActiveBusinessLine(c.Context(), profile.ID, body.Line); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"line": body.Line})
}
