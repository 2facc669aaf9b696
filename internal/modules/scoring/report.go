package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNoColumns is returned when a percentage distribution is requested
// without any columns.
var ErrNoColumns = errors.New("no columns specified for the distribution")

// ColumnsPercentageDistribution returns the percentage distribution of the
// given columns over the rows, rounded to two decimals. Missing values are
// bucketed under "unknown"; multi-column keys join with "-".
func ColumnsPercentageDistribution(rows []*TargetRow, columns []string) (map[string]float64, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	if len(rows) == 0 {
		return map[string]float64{}, nil
	}

	counts := make(map[string]int)
	for _, row := range rows {
		parts := make([]string, len(columns))
		for i, column := range columns {
			parts[i] = row.columnValue(column)
		}
		counts[strings.Join(parts, "-")]++
	}

	distribution := make(map[string]float64, len(counts))
	total := float64(len(rows))
	for key, count := range counts {
		distribution[key] = math.Round(float64(count)/total*100*100) / 100
	}
	return distribution, nil
}

// AnonymizeDataDump strips identifying fields from the scored rows and
// replaces each distinct company name with a synthetic label in first-seen
// order. The input rows are not mutated.
func AnonymizeDataDump(rows []*TargetRow) []*TargetRow {
	anonymized := cloneRows(rows)

	labels := make(map[string]string)
	for _, row := range anonymized {
		label, ok := labels[row.CompanyName]
		if !ok {
			label = fmt.Sprintf("Company%d", len(labels)+1)
			labels[row.CompanyName] = label
		}
		row.CompanyName = label
		row.CompanyID = ""
		row.CompanyISIC = ""
	}
	return anonymized
}
