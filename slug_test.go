package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReplaceSpecialSymbols(t *testing.T) {
	cases := map[string]string{
		"Côte d'Ivoire":    "cote_d_ivoire",
		"Deutsche Telekom": "deutsche_telekom",
		"  --Q1 2024--  ":  "q1_2024",
		"Market Share (%)": "market_share",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, replaceSpecialSymbols(in), in)
	}
}

func TestChartFileName(t *testing.T) {
	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "market_germany_20240102-150405.png", chartFileName("market", "Germany", "png", now))
	assert.Equal(t, "profile_chart_20240102-150405.html", chartFileName("profile", "%%", "html", now))
}
