package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonview/tempscore/internal/modules/aggregation"
)

func TestTargetPathway(t *testing.T) {
	engine := testEngine(nil, aggregation.WATS, nil)

	tests := []struct {
		name     string
		row      TargetRow
		expected *string
	}{
		{
			name:     "absolute target",
			row:      TargetRow{TargetReferenceNumber: sptr("Abs 1")},
			expected: sptr("Emissions|Kyoto Gases"),
		},
		{
			name:     "missing reference number is treated as absolute",
			row:      TargetRow{},
			expected: sptr("Emissions|Kyoto Gases"),
		},
		{
			name:     "revenue intensity",
			row:      TargetRow{TargetReferenceNumber: sptr("Int 1"), IntensityMetric: "Revenue"},
			expected: sptr("INT.emKyoto_gdp"),
		},
		{
			name:     "oil intensity",
			row:      TargetRow{TargetReferenceNumber: sptr("Int 2"), IntensityMetric: "Oil"},
			expected: sptr("INT.emCO2EI_PE"),
		},
		{
			name:     "power intensity",
			row:      TargetRow{TargetReferenceNumber: sptr("Int 3"), IntensityMetric: "Power"},
			expected: sptr("INT.emCO2EI_elecGen"),
		},
		{
			name:     "reference number is trimmed before matching",
			row:      TargetRow{TargetReferenceNumber: sptr("  Int 4 "), IntensityMetric: "Steel"},
			expected: sptr("INT.emKyoto_gdp"),
		},
		{
			name:     "unknown intensity metric has no pathway",
			row:      TargetRow{TargetReferenceNumber: sptr("Int 5"), IntensityMetric: "Basket Weaving"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pathway := engine.targetPathway(&tt.row)
			if tt.expected == nil {
				assert.Nil(t, pathway)
				return
			}
			require.NotNil(t, pathway)
			assert.Equal(t, *tt.expected, *pathway)
		})
	}
}

func TestAnnualReductionRate(t *testing.T) {
	engine := testEngine(nil, aggregation.WATS, nil)

	rate, err := engine.annualReductionRate(&TargetRow{
		ReductionAmbition: fptr(0.3), StartYear: 2020, EndYear: 2030,
	})
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.InDelta(t, 0.03, *rate, 1e-12)

	rate, err = engine.annualReductionRate(&TargetRow{StartYear: 2020, EndYear: 2030})
	require.NoError(t, err)
	assert.Nil(t, rate)

	_, err = engine.annualReductionRate(&TargetRow{
		CompanyID: "C1", ReductionAmbition: fptr(0.3), StartYear: 2030, EndYear: 2030,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSameStartTargetYear))
}
