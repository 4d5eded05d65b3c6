package excel

import (
	"fmt"
	"io"

	"churnboard/domain/modelmetrics"
	"churnboard/internal/analysis"
	"churnboard/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetOverview  = "Overview"
	SheetGroups    = "Customer Groups"
	SheetHistogram = "CLV Distribution"
	SheetSegment   = "Segment"
	SheetModels    = "Model Metrics"
)

// Report is everything the dashboard shows, ready to export.
type Report struct {
	Source    string
	Overview  analysis.Overview
	Summary   analysis.Summary
	Groups    []analysis.GroupCount
	Histogram analysis.Histogram
	Segment   *analysis.SegmentView
	Models    []modelmetrics.Model
}

// BuildReport collects the dashboard data from q. A non-empty segment adds
// the filtered customer rows.
func BuildReport(q *analysis.Queries, segment string) (Report, error) {
	summary, err := q.CLVSummary()
	if err != nil {
		return Report{}, errors.Wrap(err, "failed to summarize EstimatedCLV")
	}

	report := Report{
		Source:    q.Table().Source(),
		Overview:  q.Overview(),
		Summary:   summary,
		Groups:    q.GroupDistribution(),
		Histogram: q.CLVHistogram(),
		Models:    modelmetrics.All(),
	}
	if segment != "" {
		view := q.FilterBySegment(segment)
		report.Segment = &view
	}
	return report, nil
}

type sheetRows struct {
	name string
	rows [][]interface{}
}

// WriteReport renders report as an XLSX workbook to w. The Segment sheet is
// only written when report.Segment is set.
func WriteReport(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}

	sheets := []sheetRows{
		{SheetOverview, overviewRows(report)},
		{SheetGroups, groupRows(report.Groups)},
		{SheetHistogram, histogramRows(report.Histogram)},
	}
	if report.Segment != nil {
		sheets = append(sheets, sheetRows{SheetSegment, segmentRows(*report.Segment)})
	}
	sheets = append(sheets, sheetRows{SheetModels, modelRows(report.Models)})

	for _, sheet := range sheets {
		if sheet.name != SheetOverview {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
			}
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func overviewRows(r Report) [][]interface{} {
	return [][]interface{}{
		{"Metric", "Value"},
		{"Source", r.Source},
		{"Total Customers", r.Overview.TotalCustomers},
		{"Churn Rate (%)", r.Overview.ChurnRate},
		{"High Value Churners", r.Overview.HighValueChurners},
		{"CLV Mean", r.Summary.Mean},
		{"CLV Median", r.Summary.Median},
		{"CLV Std Dev", r.Summary.StdDev},
		{"CLV Min", r.Summary.Min},
		{"CLV Max", r.Summary.Max},
	}
}

func groupRows(groups []analysis.GroupCount) [][]interface{} {
	rows := [][]interface{}{{"CustomerGroup", "Count", "Share"}}
	for _, g := range groups {
		rows = append(rows, []interface{}{g.Group, g.Count, g.Share})
	}
	return rows
}

func histogramRows(h analysis.Histogram) [][]interface{} {
	rows := [][]interface{}{{"Lower", "Upper", "Count"}}
	for _, b := range h.Bins {
		rows = append(rows, []interface{}{b.Lower, b.Upper, b.Count})
	}
	return rows
}

func segmentRows(v analysis.SegmentView) [][]interface{} {
	rows := [][]interface{}{{"CustomerID", "EstimatedCLV", "CLVSegment", "Churn", "CustomerGroup"}}
	for _, p := range v.Rows {
		rows = append(rows, []interface{}{p.CustomerID, p.EstimatedCLV, p.CLVSegment, p.Churn, p.CustomerGroup})
	}
	return rows
}

func modelRows(models []modelmetrics.Model) [][]interface{} {
	header := []interface{}{"Model"}
	for _, m := range modelmetrics.AllMetrics() {
		header = append(header, string(m))
	}
	rows := [][]interface{}{header}
	for _, model := range models {
		row := []interface{}{model.Name}
		for _, m := range modelmetrics.AllMetrics() {
			v, _ := model.Scores.Value(m)
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows
}
