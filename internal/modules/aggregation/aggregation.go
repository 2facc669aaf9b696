package aggregation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Position carries the financial and emissions figures a weighting method
// may draw on for one portfolio row.
type Position struct {
	InvestmentValue float64
	MarketCap       float64
	EnterpriseValue float64
	EVPlusCash      float64
	TotalAssets     float64
	Revenue         float64
	GHGScope12      float64
	GHGScope3       float64
}

var (
	// ErrZeroInvestment is returned when the summed investment value of the
	// rows is zero, so investment-weighted contributions are undefined.
	ErrZeroInvestment = errors.New("the total portfolio investment value is zero")
	// ErrZeroEmissions is returned when the summed emissions of the rows are
	// zero, so emissions-weighted contributions are undefined.
	ErrZeroEmissions = errors.New("the total portfolio emissions are zero")
	// ErrZeroOwnedEmissions is returned when the summed owned emissions of
	// the rows are zero, so ownership-weighted contributions are undefined.
	ErrZeroOwnedEmissions = errors.New("the total owned emissions are zero")
)

// WeightedScores computes the per-row weighted contribution of values under
// the given method. The contributions sum to the portfolio-level weighted
// value. positions and values must be the same length.
func WeightedScores(method Method, positions []Position, values []float64) ([]float64, error) {
	if len(positions) != len(values) {
		return nil, fmt.Errorf("positions and values length mismatch: %d != %d", len(positions), len(values))
	}

	switch method {
	case WATS:
		return investmentWeighted(positions, values)
	case TETS:
		return emissionsWeighted(positions, values)
	case MOTS, EOTS, ECOTS, AOTS, ROTS:
		return ownershipWeighted(method, positions, values)
	default:
		return nil, fmt.Errorf("unknown aggregation method %q", method)
	}
}

func investmentWeighted(positions []Position, values []float64) ([]float64, error) {
	weights := make([]float64, len(positions))
	for i, pos := range positions {
		weights[i] = pos.InvestmentValue
	}
	total := floats.Sum(weights)
	if total == 0 {
		return nil, ErrZeroInvestment
	}

	weighted := make([]float64, len(values))
	for i, value := range values {
		weighted[i] = weights[i] * value / total
	}
	return weighted, nil
}

func emissionsWeighted(positions []Position, values []float64) ([]float64, error) {
	weights := make([]float64, len(positions))
	for i, pos := range positions {
		weights[i] = pos.GHGScope12 + pos.GHGScope3
	}
	total := floats.Sum(weights)
	if total == 0 {
		return nil, ErrZeroEmissions
	}

	weighted := make([]float64, len(values))
	for i, value := range values {
		weighted[i] = weights[i] / total * value
	}
	return weighted, nil
}

// ownershipWeighted weights each row by the share of the company's emissions
// the investment owns, where ownership is investment value over a
// method-specific company valuation figure.
func ownershipWeighted(method Method, positions []Position, values []float64) ([]float64, error) {
	owned := make([]float64, len(positions))
	for i, pos := range positions {
		companyValue, err := companyValue(method, pos)
		if err != nil {
			return nil, err
		}
		owned[i] = pos.InvestmentValue / companyValue * (pos.GHGScope12 + pos.GHGScope3)
	}

	total := floats.Sum(owned)
	if total == 0 {
		return nil, ErrZeroOwnedEmissions
	}

	weighted := make([]float64, len(values))
	for i, value := range values {
		weighted[i] = owned[i] / total * value
	}
	return weighted, nil
}

func companyValue(method Method, pos Position) (float64, error) {
	var value float64
	switch method {
	case MOTS:
		value = pos.MarketCap
	case EOTS:
		value = pos.EnterpriseValue
	case ECOTS:
		value = pos.EVPlusCash
	case AOTS:
		value = pos.TotalAssets
	case ROTS:
		value = pos.Revenue
	}
	if value == 0 {
		return 0, fmt.Errorf("the company value used for %s weighting is zero", method)
	}
	return value, nil
}
