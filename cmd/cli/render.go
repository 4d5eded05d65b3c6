package main

import (
	"fmt"
	"io"
	"strconv"

	"churnboard/domain/modelmetrics"
	"churnboard/internal/analysis"

	"github.com/olekukonko/tablewriter"
)

func renderOverview(w io.Writer, o analysis.Overview, s analysis.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total Customers", o.TotalCustomersDisplay})
	table.Append([]string{"Churn Rate", o.ChurnRateDisplay})
	table.Append([]string{"High Value Churners", o.HighValueDisplay})
	table.Append([]string{"CLV Mean", fmt.Sprintf("%.2f", s.Mean)})
	table.Append([]string{"CLV Median", fmt.Sprintf("%.2f", s.Median)})
	table.Render()
}

func renderGroups(w io.Writer, groups []analysis.GroupCount) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"CustomerGroup", "Count", "Share"})
	for _, g := range groups {
		table.Append([]string{
			g.Group,
			analysis.FormatCount(g.Count),
			analysis.FormatPercent(g.Share * 100),
		})
	}
	table.Render()
}

func renderSegment(w io.Writer, view analysis.SegmentView) {
	if view.Matched == 0 {
		fmt.Fprintf(w, "No customers in %q\n", view.Segment)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"CustomerID", "EstimatedCLV", "CLVSegment", "Churn", "CustomerGroup"})
	for _, p := range view.Rows {
		table.Append([]string{
			p.CustomerID,
			strconv.FormatFloat(p.EstimatedCLV, 'f', 2, 64),
			p.CLVSegment,
			strconv.Itoa(p.Churn),
			p.CustomerGroup,
		})
	}
	table.Render()
	fmt.Fprintf(w, "Showing %d of %d customers\n", len(view.Rows), view.Matched)
}

func renderHistogram(w io.Writer, h analysis.Histogram) {
	if len(h.Bins) == 0 {
		fmt.Fprintln(w, "No EstimatedCLV values")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"EstimatedCLV", "Count"})
	for _, b := range h.Bins {
		table.Append([]string{
			fmt.Sprintf("%.2f - %.2f", b.Lower, b.Upper),
			strconv.Itoa(b.Count),
		})
	}
	table.Render()
}

func renderModels(w io.Writer) {
	header := []string{"Model"}
	for _, m := range modelmetrics.AllMetrics() {
		header = append(header, string(m))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, model := range modelmetrics.All() {
		row := []string{model.Name}
		for _, m := range modelmetrics.AllMetrics() {
			v, _ := model.Scores.Value(m)
			row = append(row, modelmetrics.FormatScore(v))
		}
		table.Append(row)
	}
	table.Render()

	for _, l := range modelmetrics.Leaders() {
		fmt.Fprintf(w, "%-10s %s (+%s)\n", string(l.Metric)+":", l.Model, modelmetrics.FormatScore(l.Margin))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, modelmetrics.Conclusion)
}
