// Package scoring computes implied temperature scores for company
// greenhouse-gas reduction targets and aggregates them into portfolio-level
// figures.
package scoring

// TimeFrame is the horizon bucket a target was assigned upstream based on
// its target year.
type TimeFrame string

const (
	TimeFrameShort TimeFrame = "short"
	TimeFrameMid   TimeFrame = "mid"
	TimeFrameLong  TimeFrame = "long"
)

// ScopeCategory describes which emission scopes a target covers.
type ScopeCategory string

const (
	ScopeS1S2   ScopeCategory = "s1s2"
	ScopeS3     ScopeCategory = "s3"
	ScopeS1S2S3 ScopeCategory = "s1s2s3"
)

// Config holds the constants used throughout the temperature scoring engine.
// It is passed explicitly at construction time; there is no ambient state.
type Config struct {
	// FallbackScore is assigned when a target lacks the data for a
	// regression-based score.
	FallbackScore float64
	// Model selects the regression model id in the reference table.
	Model int
	// SlopeMap maps a target's time frame to the slope column of the
	// regression reference table.
	SlopeMap map[TimeFrame]string
	// MaterialityCutoff is the minimum share of scope 3 emissions for scope 3
	// scores to take part in the combined s1s2s3 score.
	MaterialityCutoff float64
	// TopContributors is the number of companies capped per cell under the
	// highest-contributors scenario.
	TopContributors int
	// IntensityPathways maps an intensity metric to its reference
	// decarbonization pathway variable.
	IntensityPathways map[string]string
	// AbsolutePathway is the pathway variable for absolute targets.
	AbsolutePathway string
	// IntensityTagPrefix marks intensity-based target reference numbers.
	IntensityTagPrefix string
	// AbsoluteTag replaces a missing target reference number.
	AbsoluteTag string
}

// DefaultConfig returns the standard scoring configuration
func DefaultConfig() Config {
	return Config{
		FallbackScore: 3.2,
		Model:         4,
		SlopeMap: map[TimeFrame]string{
			TimeFrameShort: "slope5",
			TimeFrameMid:   "slope15",
			TimeFrameLong:  "slope30",
		},
		MaterialityCutoff: 0.4,
		TopContributors:   10,
		IntensityPathways: map[string]string{
			"Revenue":  "INT.emKyoto_gdp",
			"Product":  "INT.emKyoto_gdp",
			"Cement":   "INT.emKyoto_gdp",
			"Oil":      "INT.emCO2EI_PE",
			"Steel":    "INT.emKyoto_gdp",
			"Aluminum": "INT.emKyoto_gdp",
			"Power":    "INT.emCO2EI_elecGen",
		},
		AbsolutePathway:    "Emissions|Kyoto Gases",
		IntensityTagPrefix: "Int",
		AbsoluteTag:        "Abs",
	}
}
