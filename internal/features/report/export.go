package report

import (
	"bytes"
	"fmt"

	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/metrics"

	"github.com/xuri/excelize/v2"
)

// FinancialExporter renders a financial report into a spreadsheet for the
// accounts team. Values stay plain numbers; formatting belongs to the
// consumer.
type FinancialExporter struct{}

func NewFinancialExporter() *FinancialExporter {
	return &FinancialExporter{}
}

func (e *FinancialExporter) Workbook(line metrics.BusinessLine, rng daterange.Range, report metrics.FinancialReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Financials"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]interface{}{
		{"Business line", string(line)},
		{"From", rng.Start.Format("2006-01-02")},
		{"To", rng.End.Format("2006-01-02")},
		{},
		{"Summary"},
		{"Revenue", report.Summary.Revenue},
		{"Expenses", report.Summary.Expenses},
		{"Net profit", report.Summary.NetProfit},
		{"Margin %", report.Summary.Margin},
		{},
		{"Channel", "Leads", "Surveys", "Installs", "Expenses", "Cost/lead", "Cost/survey", "Cost/install"},
		channelRow("Field", report.FieldMetrics),
		channelRow("Online", report.OnlineMetrics),
		{},
		{"Expense category", "Amount"},
	}
	for _, cat := range report.ExpenseBreakdown {
		rows = append(rows, []interface{}{cat.Category, cat.Amount})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Lead source", "Revenue"})
	for _, src := range report.SourceBreakdown {
		rows = append(rows, []interface{}{src.Source, src.Revenue})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	return buf, nil
}

func channelRow(name string, m metrics.ChannelMetrics) []interface{} {
	return []interface{}{
		name, m.Leads, m.Surveys, m.Installs, m.Expenses,
		m.CostPerLead, m.CostPerSurvey, m.CostPerInstall,
	}
}
