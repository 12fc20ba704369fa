package plot

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

type dataSharesForGraph struct {
	companies []string
	shares    []float64
	nameYAxis string
	nameGraph string
}

func NewDataSharesForGraph(companies []string, shares []float64, nameYAxis, nameGraph string) dataSharesForGraph {
	return dataSharesForGraph{
		companies: companies,
		shares:    shares,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}
func (d dataSharesForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataSharesForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataSharesForGraph) getYValues() []float64 {
	return d.shares
}

func (d dataSharesForGraph) lenXValues() int {
	return len(d.companies)
}

func (d dataSharesForGraph) total() float64 {
	sum := 0.0
	for _, v := range d.shares {
		sum += v
	}
	return sum
}

func (d dataSharesForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	return chartDimensions(d.lenXValues(), len(d.shares), minBarWidth)
}

// generateBarValues labels every bar with its share, one palette colour per company.
func (d dataSharesForGraph) generateBarValues(theme Theme) []chart.Value {
	var bars []chart.Value
	for i := 0; i < d.lenXValues(); i++ {
		bars = append(bars, chart.Value{
			Value: d.shares[i],
			Label: fmt.Sprintf("%s %.1f%%", d.companies[i], d.shares[i]),
			Style: chart.Style{
				FillColor:   paletteColor(i),
				StrokeColor: paletteColor(i),
				FontColor:   theme.Text,
			},
		})
	}
	return bars
}

// generatePieValues prints the slice percentage only when it is at least 3% of the pie.
func (d dataSharesForGraph) generatePieValues(theme Theme) []chart.Value {
	total := d.total()
	var slices []chart.Value
	for i := 0; i < d.lenXValues(); i++ {
		label := d.companies[i]
		if total > 0 {
			if pct := d.shares[i] / total * 100; pct >= 3 {
				label = fmt.Sprintf("%s %.1f%%", d.companies[i], pct)
			}
		}
		slices = append(slices, chart.Value{
			Value: d.shares[i],
			Label: label,
			Style: chart.Style{
				FillColor:   paletteColor(i),
				StrokeColor: theme.Background,
				StrokeWidth: 2,
				FontColor:   theme.SliceText,
			},
		})
	}
	return slices
}
