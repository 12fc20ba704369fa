package metrics

import (
	"path/filepath"
	"strings"

	"github.com/pivolan/go_utils"
)

// KnownMetrics is the allow-list of company profile rows, in display order.
var KnownMetrics = []string{
	"Total subscriptions",
	"4G penetration", "5G penetration",
	"4G subscriptions", "5G subscriptions",
	"Market share - subscriptions",
	"Service revenues", "Data revenues", "Data share of service revenues",
	"ARPU", "Data ARPU", "Data share of ARPU",
	"CAPEX", "CAPEX to revenue ratio", "CAPEX per subscriber",
}

// PercentMetrics are always normalized to the 0-100 scale.
var PercentMetrics = []string{
	"4G penetration", "5G penetration",
	"Market share - subscriptions",
	"Data share of service revenues",
	"Data share of ARPU",
	"CAPEX to revenue ratio",
}

const profileFilePrefix = "Company Profile Sheet "

func IsKnownMetric(name string) bool {
	return go_utils.InArray(name, KnownMetrics)
}

func IsPercentMetric(name string) bool {
	return go_utils.InArray(name, PercentMetrics)
}

// AvailableMetrics returns the known metrics present in the sheet, in catalog order.
func AvailableMetrics(s *MetricSheet) ([]string, error) {
	var out []string
	for _, m := range KnownMetrics {
		if s.HasMetric(m) {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, NoMatch("valid metrics in " + s.Entity)
	}
	return out, nil
}

// EntityFromFileName maps "Company Profile Sheet Vodafone.xlsx" to "Vodafone".
func EntityFromFileName(fileName string) string {
	base := filepath.Base(fileName)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if trimmed := strings.TrimPrefix(name, profileFilePrefix); trimmed != "" {
		return strings.TrimSpace(trimmed)
	}
	return name
}
