package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/marketshare"
	"github.com/pivolan/telecom_charts/metrics"
	"github.com/pivolan/telecom_charts/plot"
	"github.com/pivolan/telecom_charts/sheet"
)

type chartFormat string

const (
	formatPNG  chartFormat = "png"
	formatHTML chartFormat = "html"
)

func parseFormat(s string) (chartFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return formatPNG, nil
	case "html", "htm":
		return formatHTML, nil
	}
	return "", fmt.Errorf("unknown chart format %q", s)
}

func formatFromPath(path string) (chartFormat, error) {
	return parseFormat(filepath.Ext(path))
}

// marketTable picks the first readable workbook that has the country column.
func marketTable(files []string) (models.Table, error) {
	if len(files) == 0 {
		return models.Table{}, errors.New("no market share file uploaded")
	}
	var (
		first    models.Table
		firstErr error
		found    bool
	)
	for _, f := range files {
		t, err := sheet.ReadFile(f)
		if err != nil {
			log.Warn().Err(err).Str("file", f).Msg("cannot read workbook")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if t.ColumnIndex(marketshare.CountryColumn) >= 0 {
			return t, nil
		}
		if !found {
			first, found = t, true
		}
	}
	if found {
		// Filter reports the missing country column
		return first, nil
	}
	return models.Table{}, firstErr
}

type marketReport struct {
	Result marketshare.Result
	Chart  []byte
}

func buildMarketChart(files []string, sel models.MarketSelection, format chartFormat) (marketReport, error) {
	t, err := marketTable(files)
	if err != nil {
		return marketReport{}, err
	}
	res, err := marketshare.FilterSelection(t, sel)
	if err != nil {
		return marketReport{}, err
	}
	log.Info().
		Str("country", res.Country).
		Str("column", res.Column).
		Int("companies", len(res.Rows)).
		Msg("market share filtered")

	var chart []byte
	if format == formatHTML {
		var buf bytes.Buffer
		err = plot.RenderShareHTML(&buf, res, sel)
		chart = buf.Bytes()
	} else {
		chart, err = plot.DrawShareChart(res, sel)
	}
	if err != nil {
		return marketReport{}, fmt.Errorf("render market chart: %w", err)
	}
	return marketReport{Result: res, Chart: chart}, nil
}

type profileReport struct {
	Comparison metrics.Comparison
	Chart      []byte
}

func buildProfileChart(files []string, sel models.ProfileSelection, format chartFormat) (profileReport, error) {
	if len(files) == 0 {
		return profileReport{}, errors.New("no company profile files uploaded")
	}
	mode, err := metrics.ParseMode(sel.Mode)
	if err != nil {
		return profileReport{}, err
	}
	sheets, failures := sheet.ReadMetricSheets(files)
	cmp, err := metrics.CompareSelection(sheets, sel.Metric, sel.Period, mode)
	if err != nil {
		return profileReport{}, err
	}
	cmp.Failures = append(failures, cmp.Failures...)
	for _, f := range cmp.Failures {
		log.Warn().Err(f.Err).Str("entity", f.Entity).Str("metric", sel.Metric).Msg("sheet skipped")
	}
	if len(cmp.Rows) == 0 {
		if len(cmp.Failures) > 0 {
			return profileReport{Comparison: cmp}, cmp.Failures[0].Err
		}
		return profileReport{Comparison: cmp}, metrics.NoMatch(sel.Metric)
	}
	log.Info().
		Str("metric", cmp.Metric).
		Str("current", cmp.Current.String()).
		Str("previous", cmp.Previous.String()).
		Int("rows", len(cmp.Rows)).
		Msg("profiles compared")

	var chart []byte
	if format == formatHTML {
		var buf bytes.Buffer
		err = plot.RenderComparisonHTML(&buf, cmp, sel)
		chart = buf.Bytes()
	} else {
		chart, err = plot.DrawComparisonChart(cmp, sel)
	}
	if err != nil {
		return profileReport{}, fmt.Errorf("render comparison chart: %w", err)
	}
	return profileReport{Comparison: cmp, Chart: chart}, nil
}

// profileMetrics lists the known metrics found in any of the uploaded profiles.
func profileMetrics(files []string) ([]string, error) {
	sheets, failures := sheet.ReadMetricSheets(files)
	seen := map[string]bool{}
	for _, s := range sheets {
		names, err := metrics.AvailableMetrics(s)
		if err != nil {
			continue
		}
		for _, n := range names {
			seen[n] = true
		}
	}
	var out []string
	for _, m := range metrics.KnownMetrics {
		if seen[m] {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		if len(failures) > 0 {
			return nil, failures[0].Err
		}
		return nil, metrics.NoMatch("valid metrics")
	}
	return out, nil
}
