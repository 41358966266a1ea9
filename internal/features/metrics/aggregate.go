package metrics

import (
	"sort"
	"strings"
	"time"
)

// Expense ledger categories. The ledger is shared across both business
// lines; "Split" spend is halved between the Field and Online channels when
// computing cost efficiency.
const (
	ExpenseField    = "Field"
	ExpenseOnline   = "Online"
	ExpenseSplit    = "Split"
	ExpenseSalaries = "Salaries"
	ExpenseSoftware = "Software"
	ExpenseOther    = "Other"
)

// ExpenseCategories is the fixed breakdown order.
var ExpenseCategories = []string{
	ExpenseField, ExpenseOnline, ExpenseSplit, ExpenseSalaries, ExpenseSoftware, ExpenseOther,
}

// ExpenseLine is a ledger row as the aggregator sees it.
type ExpenseLine struct {
	Date     time.Time
	Category string
	Amount   float64
}

// Rate returns num/denom as a percentage, 0 when the denominator is 0.
func Rate(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom) * 100
}

// ClampedRate is Rate capped at 100. Double bookings and re-opened deals in
// the source data can push raw stage rates past 100%.
func ClampedRate(num, denom int) float64 {
	r := Rate(num, denom)
	if r > 100 {
		return 100
	}
	return r
}

// Margin returns netProfit/revenue as a percentage, 0 when revenue is 0.
func Margin(netProfit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return netProfit / revenue * 100
}

// CostPer returns expenses/count, 0 when count is 0.
func CostPer(expenses float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return expenses / float64(count)
}

// CountKPIs reduces two pre-scoped record sets into the KPI bundle. The
// cohort carries the creation-dated records; paid carries whatever set the
// adapter attributes paid money to, which differs per business line and
// must stay that way.
func CountKPIs(cohort, paid []Lead) KPIBundle {
	b := KPIBundle{
		LeadsCount: len(cohort),
		PaidCount:  len(paid),
	}
	for _, l := range cohort {
		if l.SurveyBooked != nil {
			b.SurveysCount++
		}
		if l.InstallBooked != nil {
			b.InstallsCount++
		}
	}
	for _, l := range paid {
		b.Revenue += l.Revenue
	}
	return b
}

// BuildLeaderboard groups records by the given identity key and ranks the
// groups by paid count, descending. Records with an empty key are skipped.
// Ties keep first-seen order, so repeated calls over unchanged input never
// reorder.
func BuildLeaderboard(leads []Lead, key func(Lead) string) []LeaderboardEntry {
	index := make(map[string]int)
	entries := make([]LeaderboardEntry, 0)

	for _, l := range leads {
		name := strings.TrimSpace(key(l))
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(entries)
			index[name] = i
			entries = append(entries, LeaderboardEntry{Name: name})
		}
		entries[i].Leads++
		if l.InstallBooked != nil {
			entries[i].Installs++
		}
		if l.Status == StatusPaid {
			entries[i].Paid++
		}
	}

	for i := range entries {
		entries[i].Conversion = Rate(entries[i].Paid, entries[i].Leads)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Paid > entries[b].Paid
	})

	return entries
}

// SixMonthWindow returns the first instant of each of the trailing six
// calendar months, chronological, ending at now's month.
func SixMonthWindow(now time.Time) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	window := make([]time.Time, 6)
	for i := 0; i < 6; i++ {
		window[i] = first.AddDate(0, i-5, 0)
	}
	return window
}

// MonthLabel returns the short month name used as the bucket key.
func MonthLabel(t time.Time) string {
	return t.Format("Jan")
}

// bucketIndex maps an event date onto the window by month name alone. The
// name is not unique across calendar years, so an event from a same-named
// month outside the window will land in its bucket; tolerable while the
// window stays at six months, and pinned by a test.
func bucketIndex(window []time.Time, t *time.Time) int {
	if t == nil {
		return -1
	}
	label := MonthLabel(*t)
	for i, m := range window {
		if MonthLabel(m) == label {
			return i
		}
	}
	return -1
}

// BucketActivity fills the six-month activity trend. Leads bucket by
// creation month; surveys, installs and paid bucket by their own event
// month. Every month in the window is emitted even with zero activity.
func BucketActivity(leads []Lead, window []time.Time) []MonthlyActivity {
	out := make([]MonthlyActivity, len(window))
	for i, m := range window {
		out[i].Month = MonthLabel(m)
	}

	for _, l := range leads {
		created := l.CreatedAt
		if i := bucketIndex(window, &created); i >= 0 {
			out[i].Leads++
		}
		if i := bucketIndex(window, l.SurveyBooked); i >= 0 {
			out[i].Surveys++
		}
		if i := bucketIndex(window, l.InstallBooked); i >= 0 {
			out[i].Installs++
		}
		if i := bucketIndex(window, l.PaidAt); i >= 0 {
			out[i].Paid++
		}
	}

	return out
}

// BucketRevenue fills the six-month revenue trend, summing revenue into the
// month the paid event landed in.
func BucketRevenue(leads []Lead, window []time.Time) []RevenuePoint {
	out := make([]RevenuePoint, len(window))
	for i, m := range window {
		out[i].Month = MonthLabel(m)
	}

	for _, l := range leads {
		if i := bucketIndex(window, l.PaidAt); i >= 0 {
			out[i].Revenue += l.Revenue
		}
	}

	return out
}

// BuildSourceStats breaks in-range records down by source label. Labels are
// trimmed; empty becomes "Unknown". Percentage is the share of the in-range
// total; conversion is paid/count within the source alone.
func BuildSourceStats(leads []Lead) []LeadSourceStat {
	index := make(map[string]int)
	stats := make([]LeadSourceStat, 0)
	paid := make([]int, 0)

	for _, l := range leads {
		source := strings.TrimSpace(l.Source)
		if source == "" {
			source = "Unknown"
		}
		i, ok := index[source]
		if !ok {
			i = len(stats)
			index[source] = i
			stats = append(stats, LeadSourceStat{Source: source})
			paid = append(paid, 0)
		}
		stats[i].Count++
		if l.Status == StatusPaid {
			paid[i]++
		}
	}

	total := len(leads)
	for i := range stats {
		stats[i].Percentage = Rate(stats[i].Count, total)
		stats[i].Conversion = Rate(paid[i], stats[i].Count)
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Count > stats[b].Count
	})

	return stats
}

// BuildInstallerStats computes the per-installer funnel. Missing installer
// becomes "Unassigned". Each stage rate has its own denominator and is
// clamped to [0, 100].
func BuildInstallerStats(leads []Lead) []InstallerStat {
	index := make(map[string]int)
	stats := make([]InstallerStat, 0)

	for _, l := range leads {
		installer := strings.TrimSpace(l.Installer)
		if installer == "" {
			installer = "Unassigned"
		}
		i, ok := index[installer]
		if !ok {
			i = len(stats)
			index[installer] = i
			stats = append(stats, InstallerStat{Installer: installer})
		}
		stats[i].Leads++
		if l.SurveyBooked != nil {
			stats[i].Surveys++
		}
		if l.InstallBooked != nil {
			stats[i].Installs++
		}
		if l.Status == StatusPaid {
			stats[i].Paid++
			stats[i].Revenue += l.Revenue
		}
	}

	for i := range stats {
		stats[i].LeadToSurvey = ClampedRate(stats[i].Surveys, stats[i].Leads)
		stats[i].SurveyToInst = ClampedRate(stats[i].Installs, stats[i].Surveys)
		stats[i].InstToPaid = ClampedRate(stats[i].Paid, stats[i].Installs)
		stats[i].LeadToPaid = ClampedRate(stats[i].Paid, stats[i].Leads)
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Installs > stats[b].Installs
	})

	return stats
}

// BuildFinancialReport joins the ledger against revenue. cohort carries the
// records created in range (channel lead counting), paidInRange the records
// whose paid date fell in range (revenue attribution).
func BuildFinancialReport(cohort, paidInRange []Lead, expenses []ExpenseLine) FinancialReport {
	byCategory := make(map[string]float64)
	var totalExpenses float64
	for _, e := range expenses {
		cat := e.Category
		if !knownCategory(cat) {
			cat = ExpenseOther
		}
		byCategory[cat] += e.Amount
		totalExpenses += e.Amount
	}

	var revenue float64
	sourceRevenue := make(map[string]float64)
	sourceOrder := make([]string, 0)
	for _, l := range paidInRange {
		revenue += l.Revenue
		source := strings.TrimSpace(l.Source)
		if source == "" {
			source = "Unknown"
		}
		if _, ok := sourceRevenue[source]; !ok {
			sourceOrder = append(sourceOrder, source)
		}
		sourceRevenue[source] += l.Revenue
	}

	netProfit := revenue - totalExpenses

	report := FinancialReport{
		Summary: FinancialSummary{
			Revenue:   revenue,
			Expenses:  totalExpenses,
			NetProfit: netProfit,
			Margin:    Margin(netProfit, revenue),
		},
	}

	// Split spend is halved across the two channels.
	split := byCategory[ExpenseSplit] / 2
	report.FieldMetrics = channelMetrics(cohort, SourceField, byCategory[ExpenseField]+split)
	report.OnlineMetrics = channelMetrics(cohort, SourceOnline, byCategory[ExpenseOnline]+split)

	report.ExpenseBreakdown = make([]CategoryAmount, 0, len(ExpenseCategories))
	for _, cat := range ExpenseCategories {
		report.ExpenseBreakdown = append(report.ExpenseBreakdown, CategoryAmount{
			Category: cat,
			Amount:   byCategory[cat],
		})
	}

	report.SourceBreakdown = make([]SourceRevenue, 0, len(sourceOrder))
	for _, source := range sourceOrder {
		report.SourceBreakdown = append(report.SourceBreakdown, SourceRevenue{
			Source:  source,
			Revenue: sourceRevenue[source],
		})
	}
	sort.SliceStable(report.SourceBreakdown, func(a, b int) bool {
		return report.SourceBreakdown[a].Revenue > report.SourceBreakdown[b].Revenue
	})

	return report
}

func channelMetrics(cohort []Lead, sourceLabel string, expenses float64) ChannelMetrics {
	m := ChannelMetrics{Expenses: expenses}
	for _, l := range cohort {
		if strings.TrimSpace(l.Source) != sourceLabel {
			continue
		}
		m.Leads++
		if l.SurveyBooked != nil {
			m.Surveys++
		}
		if l.InstallBooked != nil {
			m.Installs++
		}
	}
	m.CostPerLead = CostPer(expenses, m.Leads)
	m.CostPerSurvey = CostPer(expenses, m.Surveys)
	m.CostPerInstall = CostPer(expenses, m.Installs)
	return m
}

func knownCategory(cat string) bool {
	for _, c := range ExpenseCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// BuildFinancialTrend fills the six-month revenue/expense trend. Revenue
// buckets by paid-event month, expenses by transaction month.
func BuildFinancialTrend(leads []Lead, expenses []ExpenseLine, window []time.Time) []FinancialTrend {
	out := make([]FinancialTrend, len(window))
	for i, m := range window {
		out[i].Month = MonthLabel(m)
	}

	for _, l := range leads {
		if i := bucketIndex(window, l.PaidAt); i >= 0 {
			out[i].Revenue += l.Revenue
		}
	}
	for _, e := range expenses {
		date := e.Date
		if i := bucketIndex(window, &date); i >= 0 {
			out[i].Expenses += e.Amount
		}
	}

	for i := range out {
		out[i].NetProfit = out[i].Revenue - out[i].Expenses
	}

	return out
}
