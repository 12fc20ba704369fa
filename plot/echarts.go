package plot

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/marketshare"
	"github.com/pivolan/telecom_charts/metrics"
)

// echarts draws a gap for "-"
const gap = "-"

func initOpts(title string, theme Theme) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle:       title,
		Width:           "1100px",
		Height:          "650px",
		BackgroundColor: theme.BackgroundHex,
	})
}

func titleOpts(title string, theme Theme) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:      title,
		TitleStyle: &opts.TextStyle{Color: theme.TextHex},
	})
}

// RenderShareHTML writes an interactive pie or bar page for the selection.
func RenderShareHTML(w io.Writer, res marketshare.Result, sel models.MarketSelection) error {
	data := shareData(res, sel)
	theme := ThemeFor(sel.Background)
	title := data.GetNameGraph()

	if sel.Chart == models.ChartBar {
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			initOpts(title, theme),
			titleOpts(title, theme),
			charts.WithColorsOpts(opts.Colors(set3)),
			charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
			charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Color: theme.TextHex}}),
			charts.WithYAxisOpts(opts.YAxis{
				Name:      data.getNameYAxis(),
				AxisLabel: &opts.AxisLabel{Formatter: "{value}%", Color: theme.TextHex},
			}),
		)
		items := make([]opts.BarData, len(data.shares))
		for i, v := range data.shares {
			items[i] = opts.BarData{Name: data.companies[i], Value: v}
		}
		bar.SetXAxis(data.companies).AddSeries("Share", items)
		return bar.Render(w)
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(title, theme),
		titleOpts(title, theme),
		charts.WithColorsOpts(opts.Colors(set3)),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{
			Orient:    "vertical",
			Right:     "10",
			Top:       "middle",
			TextStyle: &opts.TextStyle{Color: theme.TextHex},
		}),
	)
	items := make([]opts.PieData, len(data.shares))
	for i, v := range data.shares {
		items[i] = opts.PieData{Name: data.companies[i], Value: v}
	}
	pie.AddSeries("Share", items,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}),
	)
	return pie.Render(w)
}

func barItems(values []float64) []opts.BarData {
	items := make([]opts.BarData, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			items[i] = opts.BarData{Value: gap}
			continue
		}
		items[i] = opts.BarData{Value: v}
	}
	return items
}

// RenderComparisonHTML writes grouped previous/current bars with an optional
// % change line on a second axis.
func RenderComparisonHTML(w io.Writer, cmp metrics.Comparison, sel models.ProfileSelection) error {
	data := comparisonData(cmp, sel)
	theme := ThemeFor(models.BackgroundWhite)
	title := data.GetNameGraph()

	yLabel := &opts.AxisLabel{}
	if data.percent {
		yLabel.Formatter = "{value}%"
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title, theme),
		titleOpts(title, theme),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Left: "left", Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      data.getNameYAxis(),
			AxisLabel: yLabel,
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(data.showGrid),
				LineStyle: &opts.LineStyle{Type: "dashed", Opacity: opts.Float(0.3), Width: 0.5},
			},
		}),
	)
	bar.SetXAxis(data.companies).
		AddSeries(data.previousLabel, barItems(data.previous),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: previousColor})).
		AddSeries(data.currentLabel, barItems(data.current),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: currentColor}))

	if data.showChange {
		bar.ExtendYAxis(opts.YAxis{
			Name:      "% Change",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}%"},
		})
		points := make([]opts.LineData, len(data.change))
		for i, v := range data.change {
			if math.IsNaN(v) {
				points[i] = opts.LineData{Value: gap}
				continue
			}
			points[i] = opts.LineData{Value: v, YAxisIndex: 1}
		}
		line := charts.NewLine()
		line.SetXAxis(data.companies).AddSeries("% Change", points,
			charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: changeColor}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: changeColor}),
		)
		bar.Overlap(line)
	}
	return bar.Render(w)
}
