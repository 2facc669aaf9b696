package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSameStartTargetYear signals a malformed target whose start and target
// year coincide, leaving the annual reduction rate undefined.
var ErrSameStartTargetYear = errors.New("the start and target year are the same")

// targetPathway maps a target onto its reference decarbonization pathway
// variable. Intensity-based targets resolve through the configured intensity
// metric table (nil when the metric is unknown); absolute targets always map
// to the total Kyoto-gas emissions pathway.
func (ts *TemperatureScore) targetPathway(row *TargetRow) *string {
	reference := ""
	if row.TargetReferenceNumber != nil {
		reference = strings.TrimSpace(*row.TargetReferenceNumber)
	}
	if strings.HasPrefix(reference, ts.cfg.IntensityTagPrefix) {
		pathway, ok := ts.cfg.IntensityPathways[row.IntensityMetric]
		if !ok {
			return nil
		}
		return &pathway
	}
	pathway := ts.cfg.AbsolutePathway
	return &pathway
}

// annualReductionRate derives the annualized reduction rate implied by the
// target's ambition over its time window. A missing ambition yields nil; an
// empty time window is a fatal input error.
func (ts *TemperatureScore) annualReductionRate(row *TargetRow) (*float64, error) {
	if row.ReductionAmbition == nil {
		return nil, nil
	}
	if row.EndYear == row.StartYear {
		return nil, fmt.Errorf("couldn't calculate the annual reduction rate for company %q: %w",
			row.CompanyID, ErrSameStartTargetYear)
	}
	rate := *row.ReductionAmbition / float64(row.EndYear-row.StartYear)
	return &rate, nil
}
