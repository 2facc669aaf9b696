package scoring

import (
	"errors"
	"fmt"
)

// ErrAmbiguousRegression signals a reference-data integrity violation: the
// regression table must hold at most one row per (variable, slope) pair.
var ErrAmbiguousRegression = errors.New("more than one potential regression parameter")

// RegressionEntry is one row of the regression model summary reference
// table: the slope and intercept of the warming regression for a pathway
// variable over a slope window.
type RegressionEntry struct {
	Model     int     `json:"model"`
	Variable  string  `json:"variable"`
	Slope     string  `json:"slope"`
	Param     float64 `json:"param"`
	Intercept float64 `json:"intercept"`
}

// RegressionTable holds the regression entries for a single model id.
type RegressionTable struct {
	entries []RegressionEntry
}

// NewRegressionTable filters the raw reference entries down to the given
// model id.
func NewRegressionTable(entries []RegressionEntry, model int) *RegressionTable {
	filtered := make([]RegressionEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Model == model {
			filtered = append(filtered, entry)
		}
	}
	return &RegressionTable{entries: filtered}
}

// Len returns the number of entries for the selected model
func (t *RegressionTable) Len() int {
	return len(t.entries)
}

// Lookup finds the regression parameter and intercept for a pathway variable
// and slope category. A nil variable or an absent combination yields
// (nil, nil); more than one match is a fatal data-integrity error.
func (t *RegressionTable) Lookup(variable *string, slope *string) (*float64, *float64, error) {
	if variable == nil || slope == nil {
		return nil, nil, nil
	}

	var match *RegressionEntry
	for i := range t.entries {
		entry := &t.entries[i]
		if entry.Variable != *variable || entry.Slope != *slope {
			continue
		}
		if match != nil {
			return nil, nil, fmt.Errorf("%w for pathway %q and slope %q", ErrAmbiguousRegression, *variable, *slope)
		}
		match = entry
	}
	if match == nil {
		return nil, nil, nil
	}

	param := match.Param
	intercept := match.Intercept
	return &param, &intercept, nil
}
