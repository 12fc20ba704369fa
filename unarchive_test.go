package main

import (
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Company Profile Sheet Acme.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	files, err := unpackArchive(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestUnpackZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"nested/Company Profile Sheet Acme.xlsx": "acme",
		"Company Profile Sheet Beta.xlsx":        "beta",
		"readme.txt":                             "skip",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	files, err := unpackArchive(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "Company Profile Sheet Acme.xlsx"),
		filepath.Join(dir, "Company Profile Sheet Beta.xlsx"),
	}, files)
	assert.NoFileExists(t, path)

	body, err := os.ReadFile(filepath.Join(dir, "Company Profile Sheet Acme.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "acme", string(body))
}

func TestUnpackZipWithoutSpreadsheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("notes.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = unpackArchive(path)
	assert.Error(t, err)
}

func TestUnpackGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "share.xlsx.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte("sheet"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	files, err := unpackArchive(path)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "share.xlsx")}, files)
	body, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(body))
}

func TestUnpackLZ4(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "share.xls.lz4")
	f, err := os.Create(path)
	require.NoError(t, err)
	lw := lz4.NewWriter(f)
	_, err = lw.Write([]byte("legacy"))
	require.NoError(t, err)
	require.NoError(t, lw.Close())
	require.NoError(t, f.Close())

	files, err := unpackArchive(path)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "share.xls")}, files)
	body, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "legacy", string(body))
}
