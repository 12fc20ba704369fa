package metrics

import (
	"strings"

	"github.com/pivolan/telecom_charts/domain/models"
)

// MetricSheet is one company profile: metric rows by period columns.
type MetricSheet struct {
	Entity string
	cells  map[string]map[string]models.Cell
}

func NewMetricSheet(entity string) *MetricSheet {
	return &MetricSheet{Entity: entity, cells: map[string]map[string]models.Cell{}}
}

// Set stores a raw cell. Metric and period labels are trimmed.
func (s *MetricSheet) Set(metric, period string, c models.Cell) {
	metric = strings.TrimSpace(metric)
	row, ok := s.cells[metric]
	if !ok {
		row = map[string]models.Cell{}
		s.cells[metric] = row
	}
	row[strings.TrimSpace(period)] = c
}

// Lookup never fails: a missing row or column reads as an absent cell.
func (s *MetricSheet) Lookup(metric, period string) models.Cell {
	row, ok := s.cells[metric]
	if !ok {
		return models.Absent()
	}
	c, ok := row[period]
	if !ok {
		return models.Absent()
	}
	return c
}

func (s *MetricSheet) HasMetric(metric string) bool {
	_, ok := s.cells[metric]
	return ok
}

type ComparisonRow struct {
	Entity   string
	Previous Value
	Current  Value
	Change   Value
}

type SheetFailure struct {
	Entity string
	Err    error
}

type Comparison struct {
	Metric   string
	Current  Period
	Previous Period
	Percent  bool
	Rows     []ComparisonRow
	Failures []SheetFailure
}

// PercentChange is undefined unless both sides are present and previous is nonzero.
func PercentChange(prev, curr Value) Value {
	if !prev.Valid || !curr.Valid || prev.V == 0 {
		return Missing
	}
	return Some((curr.V - prev.V) / prev.V * 100)
}

// Compare builds one row per sheet, in input order. A sheet whose cells cannot
// be parsed is reported in Failures and does not stop the others.
func Compare(sheets []*MetricSheet, metric string, current, previous Period, percent bool) Comparison {
	res := Comparison{
		Metric:   metric,
		Current:  current,
		Previous: previous,
		Percent:  percent,
	}
	for _, s := range sheets {
		row, err := compareSheet(s, metric, current, previous, percent)
		if err != nil {
			res.Failures = append(res.Failures, SheetFailure{Entity: s.Entity, Err: err})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func compareSheet(s *MetricSheet, metric string, current, previous Period, percent bool) (ComparisonRow, error) {
	curr, err := ParseValue(s.Lookup(metric, current.String()), percent)
	if err != nil {
		return ComparisonRow{}, err
	}
	prev, err := ParseValue(s.Lookup(metric, previous.String()), percent)
	if err != nil {
		return ComparisonRow{}, err
	}
	return ComparisonRow{
		Entity:   s.Entity,
		Previous: prev,
		Current:  curr,
		Change:   PercentChange(prev, curr),
	}, nil
}

// CompareSelection resolves the previous period from the mode and the percent
// flag from the catalog before comparing.
func CompareSelection(sheets []*MetricSheet, metric, currentLabel string, mode CompareMode) (Comparison, error) {
	current, err := ParsePeriod(currentLabel)
	if err != nil {
		return Comparison{}, err
	}
	return Compare(sheets, metric, current, current.Previous(mode), IsPercentMetric(metric)), nil
}
