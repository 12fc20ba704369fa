package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// dataComparisonForGraph holds two periods per company. NaN marks a missing value.
type dataComparisonForGraph struct {
	companies     []string
	previous      []float64
	current       []float64
	change        []float64
	previousLabel string
	currentLabel  string
	nameYAxis     string
	nameGraph     string
	percent       bool
	showChange    bool
	showGrid      bool
}

type ComparisonOptions struct {
	PreviousLabel string
	CurrentLabel  string
	Metric        string
	Title         string
	Percent       bool
	ShowChange    bool
	ShowGrid      bool
}

func NewDataComparisonForGraph(companies []string, previous, current, change []float64, o ComparisonOptions) dataComparisonForGraph {
	return dataComparisonForGraph{
		companies:     companies,
		previous:      previous,
		current:       current,
		change:        change,
		previousLabel: o.PreviousLabel,
		currentLabel:  o.CurrentLabel,
		nameYAxis:     o.Metric,
		nameGraph:     o.Title,
		percent:       o.Percent,
		showChange:    o.ShowChange,
		showGrid:      o.ShowGrid,
	}
}

func (d dataComparisonForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataComparisonForGraph) getNameYAxis() string {
	return d.nameYAxis
}

// getYValues returns the drawable values with gaps removed.
func (d dataComparisonForGraph) getYValues() []float64 {
	var out []float64
	for i := range d.companies {
		for _, v := range []float64{d.previous[i], d.current[i]} {
			if !math.IsNaN(v) {
				out = append(out, v)
			}
		}
	}
	return out
}

func (d dataComparisonForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	n := 2 * len(d.companies)
	return chartDimensions(n, n, minBarWidth)
}

func (d dataComparisonForGraph) formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	if d.percent {
		return fmt.Sprintf("%.1f%%", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// generateBarValues interleaves previous and current bars per company.
// When the change line is requested the current bar carries the % change.
// A missing value keeps its slot and label but draws no bar.
func (d dataComparisonForGraph) generateBarValues(theme Theme) []chart.Value {
	var bars []chart.Value
	for i, company := range d.companies {
		prev, curr := d.previous[i], d.current[i]
		bars = append(bars, chart.Value{
			Value: zeroIfNaN(prev),
			Label: fmt.Sprintf("%s %s: %s", company, d.previousLabel, d.formatValue(prev)),
			Style: barStyle(previousColor, prev, theme),
		})
		label := fmt.Sprintf("%s %s: %s", company, d.currentLabel, d.formatValue(curr))
		if d.showChange {
			if ch := d.change[i]; !math.IsNaN(ch) {
				label += fmt.Sprintf(" (%+.1f%%)", ch)
			}
		}
		bars = append(bars, chart.Value{
			Value: zeroIfNaN(curr),
			Label: label,
			Style: barStyle(currentColor, curr, theme),
		})
	}
	return bars
}

func barStyle(hex string, v float64, theme Theme) chart.Style {
	color := drawing.ColorFromHex(hex[1:])
	if math.IsNaN(v) {
		color = drawing.ColorTransparent
	}
	return chart.Style{
		FillColor:   color,
		StrokeColor: color,
		FontColor:   theme.Text,
	}
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
