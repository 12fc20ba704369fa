package sheet

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/metrics"
)

const (
	maxXLSRows  = 100000
	readWorkers = 4
)

// ReadFile loads the first worksheet of an .xlsx/.xlsm or legacy .xls workbook.
func ReadFile(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()
	return Read(f, filepath.Base(path))
}

// Read picks the decoder by the file name extension.
func Read(r io.Reader, name string) (models.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, name)
	case ".xls":
		data, err := io.ReadAll(r)
		if err != nil {
			return models.Table{}, err
		}
		return ReadXLS(bytes.NewReader(data), name)
	}
	return models.Table{}, fmt.Errorf("unsupported spreadsheet %q, upload .xlsx or .xls", name)
}

func ReadXLSX(r io.Reader, name string) (models.Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open excel %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return models.Table{}, fmt.Errorf("%s: no worksheet found", name)
	}
	// raw values keep percent-formatted numbers as fractions
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Table{}, fmt.Errorf("%s: read rows: %w", name, err)
	}
	return tableFromRows(name, rows)
}

func ReadXLS(r io.ReadSeeker, name string) (models.Table, error) {
	workbook, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open xls %s: %w", name, err)
	}
	if workbook.NumSheets() == 0 {
		return models.Table{}, fmt.Errorf("%s: no worksheet found", name)
	}
	return tableFromRows(name, workbook.ReadAllCells(maxXLSRows))
}

func tableFromRows(name string, rows [][]string) (models.Table, error) {
	if len(rows) == 0 {
		return models.Table{}, fmt.Errorf("%s: worksheet is empty", name)
	}
	t := models.Table{Name: name, Columns: make([]string, len(rows[0]))}
	for i, h := range rows[0] {
		t.Columns[i] = strings.TrimSpace(h)
	}
	for _, row := range rows[1:] {
		cells := make([]models.Cell, len(row))
		for i, raw := range row {
			cells[i] = models.CellFromRaw(raw)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// MetricSheet treats the first column as the metric index and the remaining
// headers as period labels. The first row for a metric wins.
func MetricSheet(t models.Table, entity string) *metrics.MetricSheet {
	s := metrics.NewMetricSheet(entity)
	seen := map[string]bool{}
	for i := range t.Rows {
		metric := strings.TrimSpace(t.Cell(i, 0).String())
		if metric == "" || seen[metric] {
			continue
		}
		seen[metric] = true
		for j := 1; j < len(t.Columns); j++ {
			if t.Columns[j] == "" {
				continue
			}
			s.Set(metric, t.Columns[j], t.Cell(i, j))
		}
	}
	return s
}

// ReadMetricSheet loads a company profile file, naming the entity after the file.
func ReadMetricSheet(path string) (*metrics.MetricSheet, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return MetricSheet(t, metrics.EntityFromFileName(path)), nil
}

// ReadMetricSheets loads every file, a few at a time. Results keep the input
// order. A file that cannot be opened is reported and skipped so the remaining
// companies still compare.
func ReadMetricSheets(paths []string) ([]*metrics.MetricSheet, []metrics.SheetFailure) {
	loaded := make([]*metrics.MetricSheet, len(paths))
	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(readWorkers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			loaded[i], errs[i] = ReadMetricSheet(p)
			return nil
		})
	}
	_ = g.Wait()

	var sheets []*metrics.MetricSheet
	var failures []metrics.SheetFailure
	for i, p := range paths {
		if errs[i] != nil {
			failures = append(failures, metrics.SheetFailure{Entity: metrics.EntityFromFileName(p), Err: errs[i]})
			continue
		}
		sheets = append(sheets, loaded[i])
	}
	return sheets, failures
}
