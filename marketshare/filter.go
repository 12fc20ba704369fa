package marketshare

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/metrics"
)

const (
	CountryColumn = "Country/Territory"
	CompanyColumn = "Company"
)

// MetricOptions are the market share measures offered to the user.
// Both read the same sheet column.
var MetricOptions = []string{"Subscription Market Share", "Revenue Market Share"}

var (
	Years    = []int{2020, 2021, 2022, 2023, 2024, 2025, 2026}
	Quarters = []string{"Q4", "Q3", "Q2", "Q1"}
)

// ShareColumn composes the sheet column for a metric, quarter and year.
func ShareColumn(metric, quarter string, year int) string {
	return fmt.Sprintf("Market Share %s %d", quarter, year)
}

type ShareRow struct {
	Company string
	Share   float64
}

type Result struct {
	Country string // as written in the sheet
	Column  string
	Rows    []ShareRow
}

// FillDown copies each non-blank value into the blank cells below it.
func FillDown(col []models.Cell) []models.Cell {
	out := make([]models.Cell, len(col))
	last := models.Absent()
	for i, c := range col {
		if isBlank(c) {
			out[i] = last
			continue
		}
		out[i] = c
		last = c
	}
	return out
}

func isBlank(c models.Cell) bool {
	return c.IsAbsent() || (c.Kind == models.CellText && strings.TrimSpace(c.Text) == "")
}

// Filter selects one country's rows from a market share table and returns
// them parsed and sorted by share, smallest first.
func Filter(t models.Table, country, column string) (Result, error) {
	countryIdx := t.ColumnIndex(CountryColumn)
	if countryIdx < 0 {
		return Result{}, metrics.MissingColumn(CountryColumn)
	}

	countries := make([]models.Cell, len(t.Rows))
	for i := range t.Rows {
		countries[i] = t.Cell(i, countryIdx)
	}
	countries = FillDown(countries)

	want := strings.TrimSpace(country)
	var matched []int
	for i, c := range countries {
		if !c.IsAbsent() && strings.EqualFold(strings.TrimSpace(c.String()), want) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return Result{}, metrics.NoMatch(want)
	}

	shareIdx := t.ColumnIndex(column)
	if shareIdx < 0 {
		return Result{}, metrics.MissingColumn(column)
	}
	companyIdx := t.ColumnIndex(CompanyColumn)
	if companyIdx < 0 {
		return Result{}, metrics.MissingColumn(CompanyColumn)
	}

	res := Result{
		Country: strings.TrimSpace(countries[matched[0]].String()),
		Column:  column,
	}
	for _, i := range matched {
		share, ok, err := parseShare(t.Cell(i, shareIdx))
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		res.Rows = append(res.Rows, ShareRow{
			Company: strings.TrimSpace(t.Cell(i, companyIdx).String()),
			Share:   share,
		})
	}
	sort.SliceStable(res.Rows, func(a, b int) bool {
		return res.Rows[a].Share < res.Rows[b].Share
	})
	return res, nil
}

// FilterSelection composes the column from the selection and filters.
func FilterSelection(t models.Table, sel models.MarketSelection) (Result, error) {
	return Filter(t, sel.Country, ShareColumn(sel.Metric, sel.Quarter, sel.Year))
}

// parseShare reads "23.4%" as 23.4. Numeric cells come from percent-formatted
// cells and hold fractions, so 0.234 is 23.4.
func parseShare(c models.Cell) (float64, bool, error) {
	switch c.Kind {
	case models.CellAbsent:
		return 0, false, nil
	case models.CellNumber:
		if math.IsNaN(c.Number) {
			return 0, false, nil
		}
		return c.Number * 100, true, nil
	}
	s := strings.TrimSpace(c.Text)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimRight(s, "%")), 64)
	if err != nil {
		return 0, false, &metrics.Failure{Kind: metrics.KindMalformedValue, Subject: c.Text, Err: err}
	}
	return v, true, nil
}
