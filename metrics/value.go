package metrics

import (
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/telecom_charts/domain/models"
)

// Value is a normalized number or missing.
type Value struct {
	V     float64
	Valid bool
}

var Missing = Value{}

func Some(v float64) Value { return Value{V: v, Valid: true} }

func (v Value) String() string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.V, 'f', 2, 64)
}

// ParseValue normalizes one raw cell. Percent metrics come out on the 0-100 scale:
// "23.4%" is 23.4, while a number without a percent sign is a fraction (0.03 -> 3).
// Other metrics are plain numbers with thousands separators removed.
func ParseValue(c models.Cell, percent bool) (Value, error) {
	switch c.Kind {
	case models.CellAbsent:
		return Missing, nil
	case models.CellNumber:
		if math.IsNaN(c.Number) {
			return Missing, nil
		}
		if percent {
			return Some(c.Number * 100), nil
		}
		return Some(c.Number), nil
	}

	s := strings.TrimSpace(c.Text)
	if s == "" {
		return Missing, nil
	}
	if percent {
		if strings.Contains(s, "%") {
			return parseFloat(c.Text, strings.TrimSpace(strings.TrimRight(s, "%")), 1)
		}
		return parseFloat(c.Text, s, 100)
	}
	return parseFloat(c.Text, strings.ReplaceAll(s, ",", ""), 1)
}

func parseFloat(raw, s string, scale float64) (Value, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing, &Failure{Kind: KindMalformedValue, Subject: raw, Err: err}
	}
	if math.IsNaN(f) {
		return Missing, nil
	}
	return Some(f * scale), nil
}
