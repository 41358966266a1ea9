package metrics

import (
	"time"
)

// Lead is the canonical record both adapters map their native rows into.
// Funnel-stage dates are independently nullable: a paid date does not imply
// the earlier stage dates exist (some sources never backfill them).
type Lead struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	PropertyType string `json:"propertyType,omitempty"`
	Source       string `json:"source,omitempty"`

	FieldRep       string `json:"fieldRep,omitempty"`
	AccountManager string `json:"accountManager,omitempty"`
	Installer      string `json:"installer,omitempty"`

	Status string `json:"status"`

	CreatedAt       time.Time  `json:"createdAt"`
	SurveyBooked    *time.Time `json:"surveyBooked,omitempty"`
	SurveyCompleted *time.Time `json:"surveyCompleted,omitempty"`
	InstallBooked   *time.Time `json:"installBooked,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`

	LeadCost   float64 `json:"leadCost"`
	Revenue    float64 `json:"revenue"`
	Commission float64 `json:"commission"`

	CommissionPaid   string     `json:"commissionPaid,omitempty"`
	CommissionPaidAt *time.Time `json:"commissionPaidAt,omitempty"`
}

// Status labels the stores actually use. The vocabulary is open-ended;
// these are the ones the metrics care about.
const (
	StatusPaid    = "Paid"
	StatusFallOff = "Fall Off"
)

// Source labels used for channel bucketing in the financials. Exact match,
// not a pattern.
const (
	SourceField  = "Field"
	SourceOnline = "Online"
)

// KPIBundle is the headline funnel for one date range and scope.
type KPIBundle struct {
	LeadsCount    int     `json:"leadsCount"`
	SurveysCount  int     `json:"surveysCount"`
	InstallsCount int     `json:"installsCount"`
	PaidCount     int     `json:"paidCount"`
	Revenue       float64 `json:"revenue"`
}

// LeaderboardEntry is recomputed from scratch on every fetch.
type LeaderboardEntry struct {
	Name       string  `json:"name"`
	Leads      int     `json:"leads"`
	Installs   int     `json:"installs"`
	Paid       int     `json:"paid"`
	Conversion float64 `json:"conversion"`
}

// MonthlyActivity is one bucket of the trailing six-month trend. Leads
// bucket by creation month; the funnel events bucket by their own event
// month, which can differ from the lead's creation month.
type MonthlyActivity struct {
	Month    string `json:"month"`
	Leads    int    `json:"leads"`
	Surveys  int    `json:"surveys"`
	Installs int    `json:"installs"`
	Paid     int    `json:"paid"`
}

// RevenuePoint is one bucket of the six-month revenue trend.
type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// LeadSourceStat breaks the in-range records down by source label.
// Percentage is the share of the in-range total; Conversion is paid/count
// within that source alone.
type LeadSourceStat struct {
	Source     string  `json:"source"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Conversion float64 `json:"conversion"`
}

// InstallerStat is the per-installer funnel with stage-to-stage rates.
// Rates are clamped to [0, 100]; source data with double bookings can
// otherwise push them past 100.
type InstallerStat struct {
	Installer    string  `json:"installer"`
	Leads        int     `json:"leads"`
	Surveys      int     `json:"surveys"`
	Installs     int     `json:"installs"`
	Paid         int     `json:"paid"`
	Revenue      float64 `json:"revenue"`
	LeadToSurvey float64 `json:"leadToSurvey"`
	SurveyToInst float64 `json:"surveyToInstall"`
	InstToPaid   float64 `json:"installToPaid"`
	LeadToPaid   float64 `json:"leadToPaid"`
}

// FinancialSummary is the top-line money view for a range.
type FinancialSummary struct {
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	NetProfit float64 `json:"netProfit"`
	Margin    float64 `json:"margin"`
}

// ChannelMetrics is cost efficiency for one acquisition channel.
type ChannelMetrics struct {
	Leads          int     `json:"leads"`
	Surveys        int     `json:"surveys"`
	Installs       int     `json:"installs"`
	Expenses       float64 `json:"expenses"`
	CostPerLead    float64 `json:"costPerLead"`
	CostPerSurvey  float64 `json:"costPerSurvey"`
	CostPerInstall float64 `json:"costPerInstall"`
}

// CategoryAmount is one slice of the expense breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// SourceRevenue is revenue attributed to one lead source.
type SourceRevenue struct {
	Source  string  `json:"source"`
	Revenue float64 `json:"revenue"`
}

// FinancialReport is the full financials payload for a range.
type FinancialReport struct {
	Summary          FinancialSummary `json:"summary"`
	FieldMetrics     ChannelMetrics   `json:"fieldMetrics"`
	OnlineMetrics    ChannelMetrics   `json:"onlineMetrics"`
	ExpenseBreakdown []CategoryAmount `json:"expenseBreakdown"`
	SourceBreakdown  []SourceRevenue  `json:"sourceBreakdown"`
}

// FinancialTrend is one month of the revenue/expense trend.
type FinancialTrend struct {
	Month     string  `json:"month"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	NetProfit float64 `json:"netProfit"`
}
