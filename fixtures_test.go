package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
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
	return buf.Bytes()
}

func writeWorkbookFile(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, workbookBytes(t, rows), 0644))
	return path
}

func marketRows() [][]interface{} {
	return [][]interface{}{
		{"Country/Territory", "Company", "Market Share Q4 2024"},
		{"Germany", "Deutsche Telekom", "40.1%"},
		{nil, "Vodafone", "30.2%"},
		{nil, "Telefonica", "25.0%"},
		{"France", "Orange", "38%"},
	}
}

func acmeRows() [][]interface{} {
	return [][]interface{}{
		{"", "Q4 2023", "Q1 2024"},
		{"Total subscriptions", 100, 110},
		{"ARPU", 10, 11},
	}
}

func betaRows() [][]interface{} {
	return [][]interface{}{
		{"", "Q4 2023", "Q1 2024"},
		{"ARPU", 20, 18},
	}
}
