package metrics

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is a calendar quarter, written "Q{1-4} {year}".
type Period struct {
	Quarter int
	Year    int
}

type CompareMode string

const (
	QoQ CompareMode = "QoQ"
	YoY CompareMode = "YoY"
)

func ParseMode(s string) (CompareMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qoq", "":
		return QoQ, nil
	case "yoy":
		return YoY, nil
	}
	return "", fmt.Errorf("unknown comparison mode %q, use QoQ or YoY", s)
}

// ParsePeriod reads a "Q2 2024" label.
func ParsePeriod(label string) (Period, error) {
	malformed := func(err error) (Period, error) {
		return Period{}, &Failure{Kind: KindMalformedPeriod, Subject: label, Err: err}
	}
	fields := strings.Fields(label)
	if len(fields) != 2 {
		return malformed(fmt.Errorf("expected 2 tokens, got %d", len(fields)))
	}
	q := fields[0]
	if len(q) < 2 || (q[0] != 'Q' && q[0] != 'q') {
		return malformed(fmt.Errorf("quarter %q must start with Q", q))
	}
	quarter, err := strconv.Atoi(q[1:])
	if err != nil {
		return malformed(err)
	}
	if quarter < 1 || quarter > 4 {
		return malformed(fmt.Errorf("quarter %d out of range", quarter))
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return malformed(err)
	}
	return Period{Quarter: quarter, Year: year}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
}

// Before orders periods by year, then quarter.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Quarter < o.Quarter
}

// Previous returns the period the current one is compared against.
func (p Period) Previous(mode CompareMode) Period {
	if mode == YoY {
		return Period{Quarter: p.Quarter, Year: p.Year - 1}
	}
	if p.Quarter == 1 {
		return Period{Quarter: 4, Year: p.Year - 1}
	}
	return Period{Quarter: p.Quarter - 1, Year: p.Year}
}

// PreviousLabel resolves the comparison label for a selected current label.
func PreviousLabel(current string, mode CompareMode) (string, error) {
	p, err := ParsePeriod(current)
	if err != nil {
		return "", err
	}
	return p.Previous(mode).String(), nil
}

// QuarterOptions lists every quarter label between the two years, inclusive.
func QuarterOptions(fromYear, toYear int) []string {
	var out []string
	for y := fromYear; y <= toYear; y++ {
		for q := 1; q <= 4; q++ {
			out = append(out, Period{Quarter: q, Year: y}.String())
		}
	}
	return out
}
