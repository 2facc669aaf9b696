package scoring

import "strings"

// ScenarioType selects which engagement scenario is run against the
// portfolio.
type ScenarioType int

const (
	// ScenarioTargets assumes all companies set reduction targets.
	ScenarioTargets ScenarioType = 1
	// ScenarioApprovedTargets assumes companies get their targets approved.
	ScenarioApprovedTargets ScenarioType = 2
	// ScenarioHighestContributors assumes the top contributing companies are
	// engaged.
	ScenarioHighestContributors ScenarioType = 3
	// ScenarioHighestContributorsApproved assumes the flagged engagement
	// targets are engaged.
	ScenarioHighestContributorsApproved ScenarioType = 4
)

// ScenarioTypeFromInt converts an integer code to a scenario type.
// Unrecognized codes return ok=false.
func ScenarioTypeFromInt(value int) (ScenarioType, bool) {
	switch value {
	case 1:
		return ScenarioTargets, true
	case 2:
		return ScenarioApprovedTargets, true
	case 3:
		return ScenarioHighestContributors, true
	case 4:
		return ScenarioHighestContributorsApproved, true
	default:
		return 0, false
	}
}

// EngagementType defines how the companies will be engaged.
type EngagementType int

const (
	EngagementSetTargets EngagementType = iota
	EngagementSetSBTiTargets
)

// EngagementTypeFromString converts a string to an engagement type. The
// comparison is case-insensitive and anything unrecognized falls back to
// EngagementSetTargets.
func EngagementTypeFromString(value string) EngagementType {
	if strings.EqualFold(strings.TrimSpace(value), "SET_SBTI_TARGETS") {
		return EngagementSetSBTiTargets
	}
	return EngagementSetTargets
}

// Scenario pairs the action a portfolio holder will take with the way the
// companies are engaged. It derives the score cap and fallback override the
// pipeline applies during a run.
type Scenario struct {
	ScenarioType   ScenarioType
	EngagementType EngagementType
}

// NewScenario builds a scenario from a raw scenario-type code and engagement
// type string. It returns nil when the code is not a recognized scenario
// type, meaning no capping is applied.
func NewScenario(number int, engagementType string) *Scenario {
	scenarioType, ok := ScenarioTypeFromInt(number)
	if !ok {
		return nil
	}
	return &Scenario{
		ScenarioType:   scenarioType,
		EngagementType: EngagementTypeFromString(engagementType),
	}
}

// ScoreCap returns the ceiling scores are clamped to under this scenario.
// ok is false when no cap applies; callers must treat that as a no-op rather
// than clamping against an undefined value.
func (s *Scenario) ScoreCap() (float64, bool) {
	if s.EngagementType == EngagementSetTargets {
		return 2.0, true
	}
	if s.ScenarioType == ScenarioApprovedTargets || s.EngagementType == EngagementSetSBTiTargets {
		return 1.75, true
	}
	return 0, false
}

// FallbackScore returns the fallback score to use under this scenario,
// overriding the configured default for the targets scenario.
func (s *Scenario) FallbackScore(fallbackScore float64) float64 {
	if s.ScenarioType == ScenarioTargets {
		return 2.0
	}
	return fallbackScore
}
