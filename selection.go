package main

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/marketshare"
	"github.com/pivolan/telecom_charts/metrics"
)

// parseSelectionArgs reads "key: value" lines, or "key=value" pairs separated by ';'.
// Keys are lower-cased.
func parseSelectionArgs(text string) map[string]string {
	out := map[string]string{}
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == ';' })
	for _, f := range fields {
		sep := strings.IndexAny(f, ":=")
		if sep <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(f[:sep]))
		val := strings.TrimSpace(f[sep+1:])
		if key != "" {
			out[key] = val
		}
	}
	return out
}

func queryArgs(q url.Values) map[string]string {
	out := map[string]string{}
	for k, v := range q {
		if len(v) > 0 {
			out[strings.ToLower(k)] = strings.TrimSpace(v[0])
		}
	}
	return out
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "yes", "on", "true", "y":
		return true, nil
	case "0", "no", "off", "false", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("%q is not yes/no", s)
}

func defaultMarketSelection() models.MarketSelection {
	return models.MarketSelection{
		Metric:     marketshare.MetricOptions[0],
		Year:       marketshare.Years[len(marketshare.Years)-1],
		Quarter:    marketshare.Quarters[0],
		Chart:      models.ChartPie,
		Background: models.BackgroundBlack,
	}
}

// applyMarketArgs updates only the keys present in args.
func applyMarketArgs(sel *models.MarketSelection, args map[string]string) error {
	if v, ok := args["country"]; ok {
		sel.Country = v
	}
	if v, ok := args["metric"]; ok {
		if !go_utils.InArray(v, marketshare.MetricOptions) {
			return fmt.Errorf("metric must be one of: %s", strings.Join(marketshare.MetricOptions, ", "))
		}
		sel.Metric = v
	}
	if v, ok := args["year"]; ok {
		year, err := strconv.Atoi(v)
		if err != nil || !slices.Contains(marketshare.Years, year) {
			return fmt.Errorf("year must be between %d and %d", marketshare.Years[0], marketshare.Years[len(marketshare.Years)-1])
		}
		sel.Year = year
	}
	if v, ok := args["quarter"]; ok {
		q := strings.ToUpper(v)
		if !go_utils.InArray(q, marketshare.Quarters) {
			return fmt.Errorf("quarter must be one of: %s", strings.Join(marketshare.Quarters, ", "))
		}
		sel.Quarter = q
	}
	if v, ok := args["chart"]; ok {
		switch models.ChartType(strings.ToLower(v)) {
		case models.ChartPie, models.ChartBar:
			sel.Chart = models.ChartType(strings.ToLower(v))
		default:
			return fmt.Errorf("chart must be pie or bar")
		}
	}
	if v, ok := args["background"]; ok {
		switch models.Background(strings.ToLower(v)) {
		case models.BackgroundBlack, models.BackgroundWhite:
			sel.Background = models.Background(strings.ToLower(v))
		default:
			return fmt.Errorf("background must be black or white")
		}
	}
	if strings.TrimSpace(sel.Country) == "" {
		return fmt.Errorf("country is required")
	}
	return nil
}

func defaultProfileSelection() models.ProfileSelection {
	return models.ProfileSelection{Mode: string(metrics.QoQ)}
}

// applyProfileArgs updates only the keys present in args.
func applyProfileArgs(sel *models.ProfileSelection, args map[string]string) error {
	if v, ok := args["corp"]; ok {
		sel.Corporation = v
	}
	if v, ok := args["corporation"]; ok {
		sel.Corporation = v
	}
	if v, ok := args["metric"]; ok {
		if !metrics.IsKnownMetric(v) {
			return metrics.NoMatch(v)
		}
		sel.Metric = v
	}
	if v, ok := args["period"]; ok {
		if _, err := metrics.ParsePeriod(v); err != nil {
			return err
		}
		sel.Period = v
	}
	if v, ok := args["mode"]; ok {
		mode, err := metrics.ParseMode(v)
		if err != nil {
			return err
		}
		sel.Mode = string(mode)
	}
	for key, dst := range map[string]*bool{"trend": &sel.ShowTrend, "grid": &sel.ShowGrid} {
		if v, ok := args[key]; ok {
			b, err := parseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}
	if sel.Metric == "" {
		return fmt.Errorf("metric is required")
	}
	if sel.Period == "" {
		return fmt.Errorf("period is required")
	}
	return nil
}

func marketUsage() string {
	return fmt.Sprintf(`/market
country: Germany
metric: %s
year: %d
quarter: %s
chart: pie|bar
background: black|white`,
		strings.Join(marketshare.MetricOptions, "|"),
		marketshare.Years[len(marketshare.Years)-1],
		strings.Join(marketshare.Quarters, "|"))
}

var profilePeriods = metrics.QuarterOptions(2019, 2026)

func profileUsage() string {
	return fmt.Sprintf(`/profile
corp: Vodafone
metric: Total subscriptions
period: Q2 2024 (%s .. %s)
mode: QoQ|YoY
trend: yes|no
grid: yes|no`, profilePeriods[0], profilePeriods[len(profilePeriods)-1])
}
