package models

import (
	"strconv"
	"strings"
)

type CellKind int

const (
	CellAbsent CellKind = iota
	CellNumber
	CellText
)

// Cell is one raw spreadsheet value before normalization.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

func Absent() Cell            { return Cell{Kind: CellAbsent} }
func Number(v float64) Cell   { return Cell{Kind: CellNumber, Number: v} }
func Text(s string) Cell      { return Cell{Kind: CellText, Text: s} }
func (c Cell) IsAbsent() bool { return c.Kind == CellAbsent }

// CellFromRaw classifies a raw cell string the way a spreadsheet reader
// reports it: empty is absent, anything strconv accepts is a number, the rest is text.
func CellFromRaw(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Absent()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(v)
	}
	return Text(raw)
}

// String renders the cell the way it would appear in the sheet.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Table is a sheet with named columns taken from its first row.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// ColumnIndex returns the position of the column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row/column, absent when the row is short.
func (t Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Absent()
	}
	return t.Rows[row][col]
}

type ViewMode string

const (
	ModeNone    ViewMode = ""
	ModeMarket  ViewMode = "market"
	ModeProfile ViewMode = "profile"
)

type ChartType string

const (
	ChartPie ChartType = "pie"
	ChartBar ChartType = "bar"
)

type Background string

const (
	BackgroundBlack Background = "black"
	BackgroundWhite Background = "white"
)

// MarketSelection holds the market-share choices made in the UI.
type MarketSelection struct {
	Country    string
	Metric     string
	Year       int
	Quarter    string
	Chart      ChartType
	Background Background
}

// ProfileSelection holds the company-profile comparator choices.
type ProfileSelection struct {
	Corporation string
	Metric      string
	Period      string
	Mode        string
	ShowTrend   bool
	ShowGrid    bool
}

// ViewState is owned by the interaction layer, one per session.
type ViewState struct {
	Mode    ViewMode
	Market  MarketSelection
	Profile ProfileSelection
	Files   []string
}
