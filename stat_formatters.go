package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/telecom_charts/marketshare"
	"github.com/pivolan/telecom_charts/metrics"
)

// GenerateShareTable renders the filtered share rows, smallest first.
func GenerateShareTable(res marketshare.Result) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Company", "Share, %"})
	for _, r := range res.Rows {
		t.AppendRow(table.Row{r.Company, fmt.Sprintf("%.2f", r.Share)})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func formatChange(v metrics.Value) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", v.V)
}

// GenerateComparisonTable renders one row per company followed by the
// companies that were skipped and why.
func GenerateComparisonTable(cmp metrics.Comparison) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Company", cmp.Previous.String(), cmp.Current.String(), "Change"})
	for _, r := range cmp.Rows {
		t.AppendRow(table.Row{r.Entity, r.Previous.String(), r.Current.String(), formatChange(r.Change)})
	}
	t.SetStyle(table.StyleDefault)

	var sb strings.Builder
	sb.WriteString(cmp.Metric)
	if cmp.Percent {
		sb.WriteString(", %")
	}
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	for _, f := range cmp.Failures {
		sb.WriteString(fmt.Sprintf("\nskipped %s: %s", f.Entity, metrics.UserMessage(f.Err)))
	}
	return sb.String()
}
