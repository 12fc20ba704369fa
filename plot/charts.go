package plot

import (
	"fmt"
	"math"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/marketshare"
	"github.com/pivolan/telecom_charts/metrics"
)

// ShareTitle is "{country} – {metric}({year}{quarter})".
func ShareTitle(res marketshare.Result, sel models.MarketSelection) string {
	return fmt.Sprintf("%s – %s(%d%s)", res.Country, sel.Metric, sel.Year, sel.Quarter)
}

// ComparisonTitle names the corporation, metric and compared periods.
func ComparisonTitle(corp string, cmp metrics.Comparison) string {
	return fmt.Sprintf("%s — %s %s vs %s", corp, cmp.Metric, cmp.Current, cmp.Previous)
}

func shareData(res marketshare.Result, sel models.MarketSelection) dataSharesForGraph {
	companies := make([]string, len(res.Rows))
	shares := make([]float64, len(res.Rows))
	for i, r := range res.Rows {
		companies[i] = r.Company
		shares[i] = r.Share
	}
	return NewDataSharesForGraph(companies, shares, "Market Share (%)", ShareTitle(res, sel))
}

// DrawShareChart renders the market share selection as a pie or bar PNG.
func DrawShareChart(res marketshare.Result, sel models.MarketSelection) ([]byte, error) {
	data := shareData(res, sel)
	theme := ThemeFor(sel.Background)
	if sel.Chart == models.ChartBar {
		return DrawPlotBar(data, BarOptions{Theme: theme, Percent: true})
	}
	return DrawPlotPie(data, theme)
}

func floats(rows []metrics.ComparisonRow, pick func(metrics.ComparisonRow) metrics.Value) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		v := pick(r)
		if v.Valid {
			out[i] = v.V
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func comparisonData(cmp metrics.Comparison, sel models.ProfileSelection) dataComparisonForGraph {
	companies := make([]string, len(cmp.Rows))
	for i, r := range cmp.Rows {
		companies[i] = r.Entity
	}
	return NewDataComparisonForGraph(companies,
		floats(cmp.Rows, func(r metrics.ComparisonRow) metrics.Value { return r.Previous }),
		floats(cmp.Rows, func(r metrics.ComparisonRow) metrics.Value { return r.Current }),
		floats(cmp.Rows, func(r metrics.ComparisonRow) metrics.Value { return r.Change }),
		ComparisonOptions{
			PreviousLabel: cmp.Previous.String(),
			CurrentLabel:  cmp.Current.String(),
			Metric:        cmp.Metric,
			Title:         ComparisonTitle(sel.Corporation, cmp),
			Percent:       cmp.Percent,
			ShowChange:    sel.ShowTrend,
			ShowGrid:      sel.ShowGrid,
		})
}

// DrawComparisonChart renders previous/current bars per company as a PNG.
func DrawComparisonChart(cmp metrics.Comparison, sel models.ProfileSelection) ([]byte, error) {
	return DrawPlotBar(comparisonData(cmp, sel), BarOptions{
		Theme:    ThemeFor(models.BackgroundWhite),
		ShowGrid: sel.ShowGrid,
		Percent:  cmp.Percent,
	})
}
