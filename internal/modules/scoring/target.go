package scoring

// TargetRow is one company's decarbonization commitment, flattened with the
// company's financial and emissions figures. The pipeline enriches the
// derived fields in place on its own working copy.
type TargetRow struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	CompanyISIC string `json:"company_isic,omitempty"`
	Industry    string `json:"industry,omitempty"`

	// TargetReferenceNumber tags the target as intensity ("Int ...") or
	// absolute ("Abs ..."); nil means not reported and is replaced with the
	// absolute tag during preparation.
	TargetReferenceNumber *string       `json:"target_reference_number,omitempty"`
	IntensityMetric       string        `json:"intensity_metric,omitempty"`
	Scope                 string        `json:"scope,omitempty"`
	ScopeCategory         ScopeCategory `json:"scope_category"`
	BaseYear              int           `json:"base_year,omitempty"`
	StartYear             int           `json:"start_year"`
	EndYear               int           `json:"end_year"`
	ReductionAmbition     *float64      `json:"reduction_ambition,omitempty"`
	TimeFrame             TimeFrame     `json:"time_frame"`

	GHGScope12 float64 `json:"s1s2_emissions"`
	GHGScope3  float64 `json:"s3_emissions"`

	MarketCap       float64 `json:"market_cap,omitempty"`
	InvestmentValue float64 `json:"investment_value,omitempty"`
	EnterpriseValue float64 `json:"company_enterprise_value,omitempty"`
	EVPlusCash      float64 `json:"company_ev_plus_cash,omitempty"`
	TotalAssets     float64 `json:"company_total_assets,omitempty"`
	Revenue         float64 `json:"company_revenue,omitempty"`

	EngagementTarget bool `json:"engagement_target,omitempty"`

	// Derived by the pipeline.
	SR15                *string  `json:"sr15,omitempty"`
	AnnualReductionRate *float64 `json:"annual_reduction_rate,omitempty"`
	Slope               *string  `json:"slope,omitempty"`
	Param               *float64 `json:"param,omitempty"`
	Intercept           *float64 `json:"intercept,omitempty"`
	TemperatureScore    float64  `json:"temperature_score"`
	// TemperatureResult is 1 when the score is the fallback, 0 when it is
	// regression-based, and a weighted fraction after scope blending.
	TemperatureResult float64 `json:"temperature_result"`
}

// Clone returns a deep copy of the row, including pointer fields
func (r *TargetRow) Clone() *TargetRow {
	clone := *r
	clone.TargetReferenceNumber = clonePtr(r.TargetReferenceNumber)
	clone.ReductionAmbition = clonePtr(r.ReductionAmbition)
	clone.SR15 = clonePtr(r.SR15)
	clone.AnnualReductionRate = clonePtr(r.AnnualReductionRate)
	clone.Slope = clonePtr(r.Slope)
	clone.Param = clonePtr(r.Param)
	clone.Intercept = clonePtr(r.Intercept)
	return &clone
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

func cloneRows(rows []*TargetRow) []*TargetRow {
	cloned := make([]*TargetRow, len(rows))
	for i, row := range rows {
		cloned[i] = row.Clone()
	}
	return cloned
}

// columnValue returns the row's value for a named column as used by grouping
// and percentage distributions. Missing values surface as "unknown".
func (r *TargetRow) columnValue(column string) string {
	var value string
	switch column {
	case "company_id":
		value = r.CompanyID
	case "company_name":
		value = r.CompanyName
	case "company_isic":
		value = r.CompanyISIC
	case "industry":
		value = r.Industry
	case "target_reference_number":
		if r.TargetReferenceNumber != nil {
			value = *r.TargetReferenceNumber
		}
	case "intensity_metric":
		value = r.IntensityMetric
	case "scope":
		value = r.Scope
	case "scope_category":
		value = string(r.ScopeCategory)
	case "time_frame":
		value = string(r.TimeFrame)
	case "sr15":
		if r.SR15 != nil {
			value = *r.SR15
		}
	case "slope":
		if r.Slope != nil {
			value = *r.Slope
		}
	}
	if value == "" {
		return "unknown"
	}
	return value
}
