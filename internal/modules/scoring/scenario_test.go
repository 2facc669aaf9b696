package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioTypeFromInt(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		expected ScenarioType
		ok       bool
	}{
		{"targets", 1, ScenarioTargets, true},
		{"approved targets", 2, ScenarioApprovedTargets, true},
		{"highest contributors", 3, ScenarioHighestContributors, true},
		{"highest contributors approved", 4, ScenarioHighestContributorsApproved, true},
		{"zero is unrecognized", 0, 0, false},
		{"out of range", 5, 0, false},
		{"negative", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenarioType, ok := ScenarioTypeFromInt(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, scenarioType)
			}
		})
	}
}

func TestEngagementTypeFromString(t *testing.T) {
	assert.Equal(t, EngagementSetTargets, EngagementTypeFromString("SET_TARGETS"))
	assert.Equal(t, EngagementSetSBTiTargets, EngagementTypeFromString("SET_SBTI_TARGETS"))
	assert.Equal(t, EngagementSetSBTiTargets, EngagementTypeFromString("set_sbti_targets"))
	assert.Equal(t, EngagementSetSBTiTargets, EngagementTypeFromString("  Set_SBTi_Targets "))

	// Anything unrecognized falls back to setting targets.
	assert.Equal(t, EngagementSetTargets, EngagementTypeFromString(""))
	assert.Equal(t, EngagementSetTargets, EngagementTypeFromString("something else"))
}

func TestNewScenario(t *testing.T) {
	scenario := NewScenario(2, "set_sbti_targets")
	require.NotNil(t, scenario)
	assert.Equal(t, ScenarioApprovedTargets, scenario.ScenarioType)
	assert.Equal(t, EngagementSetSBTiTargets, scenario.EngagementType)

	// Unrecognized scenario codes resolve to no scenario at all.
	assert.Nil(t, NewScenario(0, "SET_TARGETS"))
	assert.Nil(t, NewScenario(99, ""))
}

func TestScenarioScoreCap(t *testing.T) {
	tests := []struct {
		name       string
		scenario   Scenario
		expected   float64
		applicable bool
	}{
		{
			name:       "set targets caps at 2.0",
			scenario:   Scenario{ScenarioTargets, EngagementSetTargets},
			expected:   2.0,
			applicable: true,
		},
		{
			name:       "approved targets with sbti engagement caps at 1.75",
			scenario:   Scenario{ScenarioApprovedTargets, EngagementSetSBTiTargets},
			expected:   1.75,
			applicable: true,
		},
		{
			name:       "sbti engagement caps at 1.75",
			scenario:   Scenario{ScenarioHighestContributorsApproved, EngagementSetSBTiTargets},
			expected:   1.75,
			applicable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capValue, ok := tt.scenario.ScoreCap()
			assert.Equal(t, tt.applicable, ok)
			assert.Equal(t, tt.expected, capValue)
		})
	}
}

func TestScenarioFallbackScore(t *testing.T) {
	targets := Scenario{ScenarioTargets, EngagementSetTargets}
	assert.Equal(t, 2.0, targets.FallbackScore(3.2))

	approved := Scenario{ScenarioApprovedTargets, EngagementSetTargets}
	assert.Equal(t, 3.2, approved.FallbackScore(3.2))
}
