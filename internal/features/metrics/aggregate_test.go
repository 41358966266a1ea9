package metrics

import (
	"reflect"
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.Local)
	return &t
}

func TestRate(t *testing.T) {
	tests := []struct {
		num, denom int
		want       float64
	}{
		{3, 10, 30},
		{0, 10, 0},
		{10, 10, 100},
		{5, 0, 0},  // zero denominator never divides
		{5, -1, 0},
	}

	for _, tt := range tests {
		if got := Rate(tt.num, tt.denom); got != tt.want {
			t.Errorf("Rate(%d, %d) = %v, want %v", tt.num, tt.denom, got, tt.want)
		}
	}
}

func TestClampedRate(t *testing.T) {
	// Double bookings can make the numerator exceed the denominator.
	if got := ClampedRate(12, 10); got != 100 {
		t.Errorf("ClampedRate(12, 10) = %v, want 100", got)
	}
	if got := ClampedRate(5, 10); got != 50 {
		t.Errorf("ClampedRate(5, 10) = %v, want 50", got)
	}
}

func TestCostPerZeroCount(t *testing.T) {
	if got := CostPer(1000, 0); got != 0 {
		t.Errorf("CostPer(1000, 0) = %v, want 0", got)
	}
	if got := CostPer(1000, 4); got != 250 {
		t.Errorf("CostPer(1000, 4) = %v, want 250", got)
	}
}

func TestCountKPIsIdempotent(t *testing.T) {
	cohort := []Lead{
		{CreatedAt: time.Now(), SurveyBooked: datePtr(2026, time.January, 5)},
		{CreatedAt: time.Now(), InstallBooked: datePtr(2026, time.January, 9)},
		{CreatedAt: time.Now()},
	}
	paid := []Lead{{Status: StatusPaid, Revenue: 4200}}

	first := CountKPIs(cohort, paid)
	second := CountKPIs(cohort, paid)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recomputation over frozen input diverged: %+v vs %+v", first, second)
	}
	if first.LeadsCount != 3 || first.SurveysCount != 1 || first.InstallsCount != 1 {
		t.Errorf("unexpected funnel counts: %+v", first)
	}
	if first.PaidCount != 1 || first.Revenue != 4200 {
		t.Errorf("unexpected paid figures: %+v", first)
	}
}

func TestBuildLeaderboardOrdering(t *testing.T) {
	leads := []Lead{
		{FieldRep: "Carol", Status: StatusPaid},
		{FieldRep: "Alice", Status: StatusPaid},
		{FieldRep: "Alice", Status: StatusPaid},
		{FieldRep: "Bob", Status: StatusPaid},
		{FieldRep: "Bob"},
		{FieldRep: "  "}, // unattributed, skipped
	}

	key := func(l Lead) string { return l.FieldRep }

	board := BuildLeaderboard(leads, key)
	if len(board) != 3 {
		t.Fatalf("got %d entries, want 3", len(board))
	}
	if board[0].Name != "Alice" {
		t.Errorf("top entry = %s, want Alice", board[0].Name)
	}
	// Carol and Bob tie on paid=1; first-seen order must hold.
	if board[1].Name != "Carol" || board[2].Name != "Bob" {
		t.Errorf("tie order = %s, %s; want Carol, Bob", board[1].Name, board[2].Name)
	}

	// Repeated calls with unchanged input must not reorder.
	again := BuildLeaderboard(leads, key)
	if !reflect.DeepEqual(board, again) {
		t.Error("repeated call reordered entries")
	}
}

func TestBuildLeaderboardConversion(t *testing.T) {
	board := BuildLeaderboard([]Lead{
		{FieldRep: "Alice", Status: StatusPaid},
		{FieldRep: "Alice"},
		{FieldRep: "Bob"},
	}, func(l Lead) string { return l.FieldRep })

	if board[0].Conversion != 50 {
		t.Errorf("Alice conversion = %v, want 50", board[0].Conversion)
	}
	if board[1].Conversion != 0 {
		t.Errorf("Bob conversion = %v, want 0 (no paid, nonzero leads)", board[1].Conversion)
	}
}

func TestSixMonthWindow(t *testing.T) {
	now := time.Date(2026, time.July, 15, 10, 0, 0, 0, time.Local)
	window := SixMonthWindow(now)

	if len(window) != 6 {
		t.Fatalf("window length = %d, want 6", len(window))
	}
	wantLabels := []string{"Feb", "Mar", "Apr", "May", "Jun", "Jul"}
	for i, m := range window {
		if MonthLabel(m) != wantLabels[i] {
			t.Errorf("window[%d] = %s, want %s", i, MonthLabel(m), wantLabels[i])
		}
		if m.Day() != 1 {
			t.Errorf("window[%d] not first of month: %v", i, m)
		}
	}
}

func TestBucketActivitySixBuckets(t *testing.T) {
	now := time.Date(2026, time.July, 15, 10, 0, 0, 0, time.Local)
	window := SixMonthWindow(now)

	leads := []Lead{
		{
			CreatedAt:     time.Date(2026, time.March, 3, 0, 0, 0, 0, time.Local),
			SurveyBooked:  datePtr(2026, time.April, 10),
			InstallBooked: datePtr(2026, time.June, 2),
			PaidAt:        datePtr(2026, time.July, 1),
		},
		{CreatedAt: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.Local)},
	}

	trend := BucketActivity(leads, window)
	if len(trend) != 6 {
		t.Fatalf("got %d buckets, want 6", len(trend))
	}

	byMonth := map[string]MonthlyActivity{}
	for _, b := range trend {
		byMonth[b.Month] = b
	}

	if byMonth["Mar"].Leads != 2 {
		t.Errorf("Mar leads = %d, want 2", byMonth["Mar"].Leads)
	}
	// Events land in their own month, not the lead's creation month.
	if byMonth["Apr"].Surveys != 1 || byMonth["Jun"].Installs != 1 || byMonth["Jul"].Paid != 1 {
		t.Errorf("event buckets wrong: %+v", byMonth)
	}
	// Zero-activity months are still present.
	if byMonth["Feb"].Leads != 0 || byMonth["May"].Leads != 0 {
		t.Errorf("zero months missing or nonzero: %+v", byMonth)
	}
}

// Month name alone keys the buckets, so an event from a same-named month in
// a different calendar year lands in the window's bucket. Documented
// limitation while the window stays at six months.
func TestBucketActivityMonthNameCollision(t *testing.T) {
	now := time.Date(2026, time.July, 15, 10, 0, 0, 0, time.Local)
	window := SixMonthWindow(now) // Feb..Jul 2026

	stale := []Lead{
		{CreatedAt: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.Local)},
	}

	trend := BucketActivity(stale, window)
	for _, b := range trend {
		if b.Month == "Mar" && b.Leads != 1 {
			t.Errorf("expected the 2024 March lead to collide into the Mar bucket, got %d", b.Leads)
		}
	}
}

func TestBucketRevenue(t *testing.T) {
	now := time.Date(2026, time.July, 15, 10, 0, 0, 0, time.Local)
	window := SixMonthWindow(now)

	leads := []Lead{
		{Revenue: 5000, PaidAt: datePtr(2026, time.June, 20)},
		{Revenue: 2500, PaidAt: datePtr(2026, time.June, 25)},
		{Revenue: 9999}, // never paid
	}

	trend := BucketRevenue(leads, window)
	for _, b := range trend {
		switch b.Month {
		case "Jun":
			if b.Revenue != 7500 {
				t.Errorf("Jun revenue = %v, want 7500", b.Revenue)
			}
		default:
			if b.Revenue != 0 {
				t.Errorf("%s revenue = %v, want 0", b.Month, b.Revenue)
			}
		}
	}
}

func TestBuildSourceStats(t *testing.T) {
	leads := []Lead{
		{Source: "Field", Status: StatusPaid},
		{Source: "Field"},
		{Source: " Online "},
		{Source: ""},
	}

	stats := BuildSourceStats(leads)
	if len(stats) != 3 {
		t.Fatalf("got %d sources, want 3", len(stats))
	}

	if stats[0].Source != "Field" || stats[0].Count != 2 {
		t.Errorf("top source = %+v, want Field x2", stats[0])
	}
	if stats[0].Percentage != 50 {
		t.Errorf("Field percentage = %v, want 50", stats[0].Percentage)
	}
	// Conversion is per-source, not against the grand total.
	if stats[0].Conversion != 50 {
		t.Errorf("Field conversion = %v, want 50", stats[0].Conversion)
	}

	var sawUnknown, sawOnline bool
	for _, s := range stats {
		if s.Source == "Unknown" {
			sawUnknown = true
		}
		if s.Source == "Online" {
			sawOnline = true
		}
	}
	if !sawUnknown {
		t.Error("empty source label not normalized to Unknown")
	}
	if !sawOnline {
		t.Error("source label not trimmed")
	}
}

func TestBuildInstallerStats(t *testing.T) {
	leads := []Lead{
		{Installer: "NorthFit", SurveyBooked: datePtr(2026, time.May, 1), InstallBooked: datePtr(2026, time.May, 8), Status: StatusPaid, Revenue: 6000},
		{Installer: "NorthFit", SurveyBooked: datePtr(2026, time.May, 2)},
		{Installer: ""},
	}

	stats := BuildInstallerStats(leads)
	if len(stats) != 2 {
		t.Fatalf("got %d installers, want 2", len(stats))
	}

	north := stats[0]
	if north.Installer != "NorthFit" {
		t.Fatalf("top installer = %s", north.Installer)
	}
	if north.LeadToSurvey != 100 || north.SurveyToInst != 50 || north.InstToPaid != 100 || north.LeadToPaid != 50 {
		t.Errorf("rates = %+v", north)
	}
	if north.Revenue != 6000 {
		t.Errorf("revenue = %v, want 6000", north.Revenue)
	}

	var sawUnassigned bool
	for _, s := range stats {
		if s.Installer == "Unassigned" {
			sawUnassigned = true
		}
		if s.LeadToSurvey > 100 || s.SurveyToInst > 100 || s.InstToPaid > 100 || s.LeadToPaid > 100 {
			t.Errorf("rate over 100 escaped the clamp: %+v", s)
		}
	}
	if !sawUnassigned {
		t.Error("missing installer not normalized to Unassigned")
	}
}

func TestBuildFinancialReportSplitAllocation(t *testing.T) {
	expenses := []ExpenseLine{
		{Category: ExpenseSplit, Amount: 1000},
	}

	report := BuildFinancialReport(nil, nil, expenses)
	if report.FieldMetrics.Expenses != 500 || report.OnlineMetrics.Expenses != 500 {
		t.Errorf("split allocation = %v / %v, want 500 / 500",
			report.FieldMetrics.Expenses, report.OnlineMetrics.Expenses)
	}
	// No leads: cost-per figures must be 0, never Inf or NaN.
	if report.FieldMetrics.CostPerLead != 0 || report.FieldMetrics.CostPerInstall != 0 {
		t.Errorf("zero-count cost figures: %+v", report.FieldMetrics)
	}
}

func TestBuildFinancialReportSummary(t *testing.T) {
	cohort := []Lead{
		{Source: SourceField, SurveyBooked: datePtr(2026, time.May, 1)},
		{Source: SourceField},
		{Source: SourceOnline, InstallBooked: datePtr(2026, time.May, 9)},
		{Source: "Referral"},
	}
	paid := []Lead{
		{Source: SourceField, Revenue: 8000},
		{Source: "Referral", Revenue: 2000},
	}
	expenses := []ExpenseLine{
		{Category: ExpenseField, Amount: 1500},
		{Category: ExpenseSplit, Amount: 1000},
		{Category: ExpenseSalaries, Amount: 2500},
		{Category: "Stationery", Amount: 100}, // unknown category folds into Other
	}

	report := BuildFinancialReport(cohort, paid, expenses)

	if report.Summary.Revenue != 10000 {
		t.Errorf("revenue = %v, want 10000", report.Summary.Revenue)
	}
	if report.Summary.Expenses != 5100 {
		t.Errorf("expenses = %v, want 5100", report.Summary.Expenses)
	}
	if report.Summary.NetProfit != 4900 {
		t.Errorf("net profit = %v, want 4900", report.Summary.NetProfit)
	}
	if report.Summary.Margin != 49 {
		t.Errorf("margin = %v, want 49", report.Summary.Margin)
	}

	// Field carries its direct spend plus half the split.
	if report.FieldMetrics.Expenses != 2000 {
		t.Errorf("field expenses = %v, want 2000", report.FieldMetrics.Expenses)
	}
	if report.FieldMetrics.Leads != 2 || report.FieldMetrics.CostPerLead != 1000 {
		t.Errorf("field channel = %+v", report.FieldMetrics)
	}
	if report.OnlineMetrics.Expenses != 500 || report.OnlineMetrics.Leads != 1 {
		t.Errorf("online channel = %+v", report.OnlineMetrics)
	}

	if len(report.ExpenseBreakdown) != len(ExpenseCategories) {
		t.Fatalf("breakdown has %d categories, want %d", len(report.ExpenseBreakdown), len(ExpenseCategories))
	}
	for _, cat := range report.ExpenseBreakdown {
		if cat.Category == ExpenseOther && cat.Amount != 100 {
			t.Errorf("Other = %v, want the folded 100", cat.Amount)
		}
	}

	if report.SourceBreakdown[0].Source != SourceField || report.SourceBreakdown[0].Revenue != 8000 {
		t.Errorf("top revenue source = %+v", report.SourceBreakdown[0])
	}
}

func TestBuildFinancialReportZeroRevenue(t *testing.T) {
	report := BuildFinancialReport(nil, nil, []ExpenseLine{{Category: ExpenseOther, Amount: 300}})
	if report.Summary.Margin != 0 {
		t.Errorf("margin with zero revenue = %v, want 0", report.Summary.Margin)
	}
	if report.Summary.NetProfit != -300 {
		t.Errorf("net profit = %v, want -300", report.Summary.NetProfit)
	}
}

func TestBuildFinancialTrend(t *testing.T) {
	now := time.Date(2026, time.July, 15, 10, 0, 0, 0, time.Local)
	window := SixMonthWindow(now)

	leads := []Lead{
		{Revenue: 4000, PaidAt: datePtr(2026, time.May, 12)},
	}
	expenses := []ExpenseLine{
		{Date: time.Date(2026, time.May, 2, 0, 0, 0, 0, time.Local), Category: ExpenseField, Amount: 1000},
		{Date: time.Date(2026, time.June, 2, 0, 0, 0, 0, time.Local), Category: ExpenseField, Amount: 700},
	}

	trend := BuildFinancialTrend(leads, expenses, window)
	if len(trend) != 6 {
		t.Fatalf("got %d buckets, want 6", len(trend))
	}
	for _, b := range trend {
		switch b.Month {
		case "May":
			if b.Revenue != 4000 || b.Expenses != 1000 || b.NetProfit != 3000 {
				t.Errorf("May = %+v", b)
			}
		case "Jun":
			if b.NetProfit != -700 {
				t.Errorf("Jun net profit = %v, want -700", b.NetProfit)
			}
		default:
			if b.Revenue != 0 || b.Expenses != 0 {
				t.Errorf("%s should be zero-filled: %+v", b.Month, b)
			}
		}
	}
}
