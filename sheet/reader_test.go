package sheet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/marketshare"
	"github.com/pivolan/telecom_charts/metrics"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSXMarketTable(t *testing.T) {
	buf := writeWorkbook(t, [][]interface{}{
		{"Country/Territory", "Company", "Market Share Q4 2024"},
		{"Kenya", "Safaricom", "65.2%"},
		{nil, "Airtel", "31.0%"},
	})

	tbl, err := ReadXLSX(buf, "share.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"Country/Territory", "Company", "Market Share Q4 2024"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.True(t, tbl.Cell(1, 0).IsAbsent())
	assert.Equal(t, models.Text("31.0%"), tbl.Cell(1, 2))
}

func TestMetricSheetFromXLSX(t *testing.T) {
	buf := writeWorkbook(t, [][]interface{}{
		{"", "Q1 2024", "Q2 2024"},
		{"ARPU", 7.5, 8},
		{"5G penetration", 0.12, "15%"},
		{"Total subscriptions", "1,200,000", 1250000},
		{"ARPU", 99, 99},
	})

	tbl, err := ReadXLSX(buf, "Company Profile Sheet Acme.xlsx")
	require.NoError(t, err)
	s := MetricSheet(tbl, "Acme")

	assert.Equal(t, models.Number(7.5), s.Lookup("ARPU", "Q1 2024"))
	assert.Equal(t, models.Number(8), s.Lookup("ARPU", "Q2 2024"))
	assert.Equal(t, models.Text("15%"), s.Lookup("5G penetration", "Q2 2024"))
	assert.True(t, s.Lookup("ARPU", "Q3 2024").IsAbsent())

	res := metrics.Compare([]*metrics.MetricSheet{s}, "Total subscriptions",
		metrics.Period{Quarter: 2, Year: 2024}, metrics.Period{Quarter: 1, Year: 2024}, false)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1200000.0, res.Rows[0].Previous.V)
	assert.Equal(t, 1250000.0, res.Rows[0].Current.V)
}

func TestReadMetricSheetsSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Company Profile Sheet Good.xlsx")
	buf := writeWorkbook(t, [][]interface{}{{"", "Q1 2024"}, {"CAPEX", 10}})
	require.NoError(t, os.WriteFile(good, buf.Bytes(), 0644))
	bad := filepath.Join(dir, "Company Profile Sheet Bad.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a workbook"), 0644))

	sheets, failures := ReadMetricSheets([]string{good, bad})
	require.Len(t, sheets, 1)
	assert.Equal(t, "Good", sheets[0].Entity)
	require.Len(t, failures, 1)
	assert.Equal(t, "Bad", failures[0].Entity)
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read(bytes.NewReader(nil), "data.csv")
	assert.Error(t, err)
}

func TestReadMetricSheetsKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"Zeta", "Alpha", "Mid", "Beta", "Omega", "Gamma"}
	var paths []string
	for i, n := range names {
		p := filepath.Join(dir, "Company Profile Sheet "+n+".xlsx")
		buf := writeWorkbook(t, [][]interface{}{{"", "Q1 2024"}, {"ARPU", i}})
		require.NoError(t, os.WriteFile(p, buf.Bytes(), 0644))
		paths = append(paths, p)
	}

	sheets, failures := ReadMetricSheets(paths)
	assert.Empty(t, failures)
	require.Len(t, sheets, len(names))
	for i, s := range sheets {
		assert.Equal(t, names[i], s.Entity)
	}
}

func TestPercentFormattedSharesReadAsPercent(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{marketshare.CountryColumn, marketshare.CompanyColumn, "Market Share Q4 2024"},
		{"Germany", "DT", 0.401},
		{nil, "Vodafone", 0.302},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	// 0.00%
	style, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C3", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := ReadXLSX(buf, "share.xlsx")
	require.NoError(t, err)
	res, err := marketshare.Filter(tbl, "germany", "Market Share Q4 2024")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Vodafone", res.Rows[0].Company)
	assert.InDelta(t, 30.2, res.Rows[0].Share, 1e-9)
	assert.Equal(t, "DT", res.Rows[1].Company)
	assert.InDelta(t, 40.1, res.Rows[1].Share, 1e-9)
}

func TestReadXLSRejectsCorruptFile(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("definitely not an OLE2 workbook")), "legacy.xls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open xls legacy.xls")

	path := filepath.Join(t.TempDir(), "legacy.xls")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	_, err = ReadFile(path)
	assert.Error(t, err)
}
