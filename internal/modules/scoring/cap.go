package scoring

import "math"

// CapScores clamps temperature scores to the active scenario's ceiling.
// Which rows are clamped depends on the scenario type: approved targets caps
// every row scored off a reported target, highest contributors caps the top
// contributing companies per (time frame, scope category) cell, and highest
// contributors approved caps the rows flagged as engagement targets.
// Clamping never raises a score. The input rows are not mutated; the result
// is a capped copy.
func (ts *TemperatureScore) CapScores(rows []*TargetRow) ([]*TargetRow, error) {
	if ts.scenario == nil {
		return rows, nil
	}
	capValue, ok := ts.scenario.ScoreCap()
	if !ok {
		// No cap applies for this scenario and engagement combination.
		return rows, nil
	}

	capped := cloneRows(rows)
	switch ts.scenario.ScenarioType {
	case ScenarioApprovedTargets:
		for _, row := range capped {
			if row.TargetReferenceNumber != nil {
				row.TemperatureScore = math.Min(row.TemperatureScore, capValue)
			}
		}

	case ScenarioHighestContributors:
		if err := ts.capHighestContributors(capped, capValue); err != nil {
			return nil, err
		}

	case ScenarioHighestContributorsApproved:
		for _, row := range capped {
			if row.EngagementTarget {
				row.TemperatureScore = math.Min(row.TemperatureScore, capValue)
			}
		}
	}
	return capped, nil
}

// capHighestContributors clamps, per (time frame, scope category) cell, the
// scores of the companies contributing most to the cell's aggregate.
func (ts *TemperatureScore) capHighestContributors(rows []*TargetRow, capValue float64) error {
	aggregations, err := ts.AggregateScores(rows, nil, nil)
	if err != nil {
		return err
	}

	for timeFrame, scopes := range aggregations {
		for scopeCategory, cell := range scopes {
			if cell == nil || cell.All == nil {
				continue
			}
			top := len(cell.All.Contributions)
			if top > ts.cfg.TopContributors {
				top = ts.cfg.TopContributors
			}
			for i := 0; i < top; i++ {
				companyName := cell.All.Contributions[i].CompanyName
				for _, row := range rows {
					if row.CompanyName == companyName &&
						row.TimeFrame == timeFrame &&
						row.ScopeCategory == scopeCategory {
						row.TemperatureScore = math.Min(row.TemperatureScore, capValue)
					}
				}
			}
		}
	}
	return nil
}
