package scoring

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonview/tempscore/internal/modules/aggregation"
)

func TestCapScoresWithoutScenario(t *testing.T) {
	engine := testEngine(nil, aggregation.WATS, nil)

	scored, err := engine.Calculate(fixtureRows())
	require.NoError(t, err)

	capped, err := engine.CapScores(scored)
	require.NoError(t, err)
	assert.Equal(t, scored, capped)
}

func TestScenarioTargetsOverridesFallback(t *testing.T) {
	engine := testEngine(NewScenario(1, "SET_TARGETS"), aggregation.WATS, nil)

	scored, err := engine.Calculate(fixtureRows())
	require.NoError(t, err)

	// Beta scores with the scenario's optimistic fallback instead of 3.2.
	beta := findRow(t, scored, "C2", TimeFrameShort, ScopeS1S2)
	assert.Equal(t, 2.0, beta.TemperatureScore)
	assert.Equal(t, 1.0, beta.TemperatureResult)

	// Regression-based scores are untouched.
	alpha := findRow(t, scored, "C1", TimeFrameShort, ScopeS1S2)
	assert.InDelta(t, 1.0, alpha.TemperatureScore, 1e-9)
}

func TestCapApprovedTargets(t *testing.T) {
	engine := testEngine(NewScenario(2, "SET_TARGETS"), aggregation.WATS, nil)

	scored, err := engine.Calculate(fixtureRows())
	require.NoError(t, err)

	// Missing reference numbers are replaced during preparation, so Beta's
	// fallback row is clamped too.
	beta := findRow(t, scored, "C2", TimeFrameShort, ScopeS1S2)
	assert.Equal(t, 2.0, beta.TemperatureScore)
	assert.Equal(t, 1.0, beta.TemperatureResult)

	gamma := findRow(t, scored, "C3", TimeFrameShort, ScopeS1S2)
	assert.InDelta(t, 1.5, gamma.TemperatureScore, 1e-9)
}

func TestCapApprovedTargetsSBTiEngagement(t *testing.T) {
	engine := testEngine(NewScenario(2, "SET_SBTI_TARGETS"), aggregation.WATS, nil)

	scored, err := engine.Calculate(fixtureRows())
	require.NoError(t, err)

	beta := findRow(t, scored, "C2", TimeFrameShort, ScopeS1S2)
	assert.Equal(t, 1.75, beta.TemperatureScore)
}

func TestCapHighestContributors(t *testing.T) {
	engine := testEngine(NewScenario(3, "SET_TARGETS"), aggregation.WATS, nil)

	scored, err := engine.Calculate(fixtureRows())
	require.NoError(t, err)

	// The default contributor budget covers all three companies, so every
	// score above the cap is clamped.
	beta := findRow(t, scored, "C2", TimeFrameShort, ScopeS1S2)
	assert.Equal(t, 2.0, beta.TemperatureScore)

	alpha := findRow(t, scored, "C1", TimeFrameShort, ScopeS1S2)
	assert.InDelta(t, 1.0, alpha.TemperatureScore, 1e-9)
}

func TestCapHighestContributorsBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopContributors = 1
	regression := NewRegressionTable(testRegressionEntries(), 4)
	engine := New(cfg, regression, NewScenario(3, "SET_TARGETS"),
		aggregation.WATS, nil, zerolog.Nop())

	// Two fallback-scored companies; only the larger holding is in the top
	// contributor budget and gets clamped.
	rows := []*TargetRow{
		{
			CompanyID: "C1", CompanyName: "Big Corp",
			ScopeCategory: ScopeS1S2, TimeFrame: TimeFrameShort,
			StartYear: 2020, EndYear: 2030,
			GHGScope12: 100, InvestmentValue: 300,
		},
		{
			CompanyID: "C2", CompanyName: "Small Corp",
			ScopeCategory: ScopeS1S2, TimeFrame: TimeFrameShort,
			StartYear: 2020, EndYear: 2030,
			GHGScope12: 100, InvestmentValue: 100,
		},
	}

	scored, err := engine.Calculate(rows)
	require.NoError(t, err)

	big := findRow(t, scored, "C1", TimeFrameShort, ScopeS1S2)
	assert.Equal(t, 2.0, big.TemperatureScore)

	small := findRow(t, scored, "C2", TimeFrameShort, ScopeS1S2)
	assert.Equal(t, 3.2, small.TemperatureScore)
}

func TestCapHighestContributorsApproved(t *testing.T) {
	engine := testEngine(NewScenario(4, "SET_SBTI_TARGETS"), aggregation.WATS, nil)

	scored, err := engine.Calculate(fixtureRows())
	require.NoError(t, err)

	// Beta is the only row flagged as an engagement target.
	beta := findRow(t, scored, "C2", TimeFrameShort, ScopeS1S2)
	assert.Equal(t, 1.75, beta.TemperatureScore)

	gamma := findRow(t, scored, "C3", TimeFrameShort, ScopeS1S2)
	assert.InDelta(t, 1.5, gamma.TemperatureScore, 1e-9)
}

func TestCapScoresNeverRaises(t *testing.T) {
	baseline, err := testEngine(nil, aggregation.WATS, nil).Calculate(fixtureRows())
	require.NoError(t, err)

	scenarios := []*Scenario{
		NewScenario(2, "SET_TARGETS"),
		NewScenario(2, "SET_SBTI_TARGETS"),
		NewScenario(3, "SET_TARGETS"),
		NewScenario(4, "SET_TARGETS"),
		NewScenario(4, "SET_SBTI_TARGETS"),
	}
	for _, scenario := range scenarios {
		engine := testEngine(scenario, aggregation.WATS, nil)
		capped, err := engine.CapScores(baseline)
		require.NoError(t, err)
		require.Len(t, capped, len(baseline))
		for i := range capped {
			assert.LessOrEqual(t, capped[i].TemperatureScore, baseline[i].TemperatureScore)
		}
	}
}
