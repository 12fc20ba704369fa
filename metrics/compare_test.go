package metrics

import (
	"testing"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetWith(entity, metric string, cells map[string]models.Cell) *MetricSheet {
	s := NewMetricSheet(entity)
	for period, c := range cells {
		s.Set(metric, period, c)
	}
	return s
}

func TestPercentChange(t *testing.T) {
	v := PercentChange(Some(50), Some(75))
	require.True(t, v.Valid)
	assert.Equal(t, 50.0, v.V)

	assert.False(t, PercentChange(Some(0), Some(10)).Valid)
	assert.False(t, PercentChange(Missing, Some(10)).Valid)
	assert.False(t, PercentChange(Some(10), Missing).Valid)
}

func TestCompareBatchIsolation(t *testing.T) {
	q1 := Period{Quarter: 1, Year: 2024}
	q4 := Period{Quarter: 4, Year: 2023}
	sheets := []*MetricSheet{
		sheetWith("Alpha", "ARPU", map[string]models.Cell{"Q4 2023": models.Number(10), "Q1 2024": models.Number(12)}),
		sheetWith("Beta", "ARPU", map[string]models.Cell{"Q4 2023": models.Text("oops"), "Q1 2024": models.Number(5)}),
		sheetWith("Gamma", "ARPU", map[string]models.Cell{"Q4 2023": models.Text("1,000"), "Q1 2024": models.Text("1,500")}),
	}

	res := Compare(sheets, "ARPU", q1, q4, false)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Alpha", res.Rows[0].Entity)
	assert.InDelta(t, 20.0, res.Rows[0].Change.V, 1e-9)
	assert.Equal(t, "Gamma", res.Rows[1].Entity)
	assert.Equal(t, 1000.0, res.Rows[1].Previous.V)
	assert.Equal(t, 1500.0, res.Rows[1].Current.V)
	assert.InDelta(t, 50.0, res.Rows[1].Change.V, 1e-9)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "Beta", res.Failures[0].Entity)
	assert.ErrorIs(t, res.Failures[0].Err, ErrMalformedValue)
}

func TestCompareMissingMetricOrPeriod(t *testing.T) {
	cur := Period{Quarter: 2, Year: 2024}
	prev := Period{Quarter: 2, Year: 2023}
	sheets := []*MetricSheet{
		sheetWith("NoMetric", "CAPEX", map[string]models.Cell{"Q2 2024": models.Number(1)}),
		sheetWith("NoPrev", "ARPU", map[string]models.Cell{"Q2 2024": models.Number(7)}),
	}

	res := Compare(sheets, "ARPU", cur, prev, false)

	assert.Empty(t, res.Failures)
	require.Len(t, res.Rows, 2)
	assert.False(t, res.Rows[0].Current.Valid)
	assert.False(t, res.Rows[0].Previous.Valid)
	assert.False(t, res.Rows[0].Change.Valid)

	assert.True(t, res.Rows[1].Current.Valid)
	assert.False(t, res.Rows[1].Previous.Valid)
	assert.False(t, res.Rows[1].Change.Valid)
}

func TestComparePercentMetric(t *testing.T) {
	sheets := []*MetricSheet{
		sheetWith("Alpha", "5G penetration", map[string]models.Cell{"Q1 2024": models.Number(0.3), "Q4 2023": models.Text("20%")}),
	}
	res, err := CompareSelection(sheets, "5G penetration", "Q1 2024", QoQ)
	require.NoError(t, err)
	assert.True(t, res.Percent)
	assert.Equal(t, "Q4 2023", res.Previous.String())
	require.Len(t, res.Rows, 1)
	assert.InDelta(t, 30.0, res.Rows[0].Current.V, 1e-9)
	assert.Equal(t, 20.0, res.Rows[0].Previous.V)
	assert.InDelta(t, 50.0, res.Rows[0].Change.V, 1e-9)
}

func TestCompareSelectionBadPeriod(t *testing.T) {
	_, err := CompareSelection(nil, "ARPU", "2024 Q1", QoQ)
	assert.ErrorIs(t, err, ErrMalformedPeriod)
}

func TestAvailableMetrics(t *testing.T) {
	s := NewMetricSheet("Alpha")
	s.Set("CAPEX", "Q1 2024", models.Number(1))
	s.Set("Employees", "Q1 2024", models.Number(1))
	s.Set("ARPU", "Q1 2024", models.Number(1))

	got, err := AvailableMetrics(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"ARPU", "CAPEX"}, got)

	_, err = AvailableMetrics(NewMetricSheet("Empty"))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestEntityFromFileName(t *testing.T) {
	assert.Equal(t, "Vodafone", EntityFromFileName("uploads/x/Company Profile Sheet Vodafone.xlsx"))
	assert.Equal(t, "Orange FR", EntityFromFileName("Orange FR.xlsx"))
}

func TestCatalog(t *testing.T) {
	assert.Len(t, KnownMetrics, 15)
	assert.True(t, IsKnownMetric("ARPU"))
	assert.False(t, IsKnownMetric("arpu"))
	assert.True(t, IsPercentMetric("CAPEX to revenue ratio"))
	assert.False(t, IsPercentMetric("CAPEX"))
}
