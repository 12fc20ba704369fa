package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/telecom_charts/domain/models"
)

func TestParseSelectionArgs(t *testing.T) {
	assert.Equal(t, map[string]string{"country": "Germany", "year": "2024"},
		parseSelectionArgs("Country: Germany\nyear=2024"))
	assert.Equal(t, map[string]string{"chart": "bar", "quarter": "q1"},
		parseSelectionArgs("chart: bar; quarter: q1; nonsense"))
}

func TestApplyMarketArgsYear(t *testing.T) {
	sel := defaultMarketSelection()
	require.NoError(t, applyMarketArgs(&sel, map[string]string{"country": "Germany", "year": "2024"}))
	assert.Equal(t, 2024, sel.Year)

	for _, year := range []string{"1999", "2027", "abc", ""} {
		sel := defaultMarketSelection()
		err := applyMarketArgs(&sel, map[string]string{"country": "Germany", "year": year})
		require.Error(t, err, year)
		assert.Contains(t, err.Error(), "year must be between 2020 and 2026")
		assert.Equal(t, 2026, sel.Year)
	}
}

func TestApplyMarketArgsKeepsUnsetKeys(t *testing.T) {
	sel := defaultMarketSelection()
	sel.Country = "France"
	require.NoError(t, applyMarketArgs(&sel, map[string]string{"quarter": "q2", "chart": "BAR"}))
	assert.Equal(t, "France", sel.Country)
	assert.Equal(t, "Q2", sel.Quarter)
	assert.Equal(t, models.ChartBar, sel.Chart)
	assert.Equal(t, models.BackgroundBlack, sel.Background)

	assert.Error(t, applyMarketArgs(&sel, map[string]string{"metric": "Revenue"}))
	assert.Error(t, applyMarketArgs(&sel, map[string]string{"background": "grey"}))

	empty := defaultMarketSelection()
	assert.EqualError(t, applyMarketArgs(&empty, nil), "country is required")
}
