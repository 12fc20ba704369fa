package main

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/rs/zerolog/log"
)

var spreadsheetExts = []string{".xlsx", ".xlsm", ".xls"}

func isSpreadsheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range spreadsheetExts {
		if ext == e {
			return true
		}
	}
	return false
}

// unpackArchive replaces an uploaded archive by the spreadsheets inside it.
// Plain files are returned as is.
func unpackArchive(filePath string) ([]string, error) {
	var (
		out []string
		err error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".zip":
		out, err = unpackZipArchive(filePath)
	case ".gz":
		out, err = unpackStream(filePath, func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case ".lz4":
		out, err = unpackStream(filePath, func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		})
	default:
		return []string{filePath}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := os.Remove(filePath); err != nil {
		return nil, err
	}
	return out, nil
}

func unpackZipArchive(filePath string) ([]string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	dir := filepath.Dir(filePath)
	var out []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isSpreadsheet(f.Name) {
			continue
		}
		// members are flattened so nothing escapes the upload dir
		destPath := filepath.Join(dir, filepath.Base(f.Name))
		if err := extractZipFile(f, destPath); err != nil {
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		out = append(out, destPath)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no spreadsheets in %s", filepath.Base(filePath))
	}
	log.Debug().Str("archive", filePath).Int("files", len(out)).Msg("zip unpacked")
	return out, nil
}

func extractZipFile(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	_, err = io.Copy(outFile, rc)
	return err
}

func unpackStream(filePath string, open func(io.Reader) (io.Reader, error)) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r, err := open(file)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	destPath := filepath.Join(filepath.Dir(filePath), strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)))
	if !isSpreadsheet(destPath) {
		return nil, fmt.Errorf("%s does not contain a spreadsheet", filepath.Base(filePath))
	}
	outFile, err := os.Create(destPath)
	if err != nil {
		return nil, err
	}
	defer outFile.Close()
	if _, err := io.Copy(outFile, r); err != nil {
		return nil, err
	}
	return []string{destPath}, nil
}
