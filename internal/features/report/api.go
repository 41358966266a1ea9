package report

import (
	"go-salesdash/internal/config"
	"go-salesdash/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
}

func NewReportApi(controller *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers the reporting routes
func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth))

	reports.Get("/leads", h.controller.GetLeads)
	reports.Get("/kpis", h.controller.GetKPIs)
	reports.Get("/leaderboard", h.controller.GetLeaderboard)
	reports.Get("/account-managers", h.controller.GetAccountManagerLeaderboard)
	reports.Get("/trend", h.controller.GetSixMonthTrend)
	reports.Get("/revenue-trend", h.controller.GetRevenueTrend)
	reports.Get("/sources", h.controller.GetLeadSourceStats)
	reports.Get("/installers", h.controller.GetInstallerPerformance)
	reports.Get("/financials", h.controller.GetFinancialData)
	reports.Get("/financials/export", h.controller.ExportFinancials)
	reports.Get("/financial-trend", h.controller.GetFinancialTrend)
	reports.Get("/overview", h.controller.GetOverview)

	prefs := app.Group("/api/preferences", middleware.AuthMiddleware(h.config.SkipAuth))
	prefs.Get("/business-line", h.controller.GetBusinessLine)
	prefs.Put("/business-line", h.controller.SetBusinessLine)
}
