// Package provider supplies company and target records to the scoring
// pipeline from pluggable backing stores.
package provider

import (
	"github.com/carbonview/tempscore/internal/modules/scoring"
)

// Company is one company's financial and emissions record.
type Company struct {
	CompanyID        string  `json:"company_id"`
	CompanyName      string  `json:"company_name"`
	CompanyISIC      string  `json:"company_isic,omitempty"`
	Industry         string  `json:"industry,omitempty"`
	GHGScope12       float64 `json:"s1s2_emissions"`
	GHGScope3        float64 `json:"s3_emissions"`
	MarketCap        float64 `json:"market_cap,omitempty"`
	InvestmentValue  float64 `json:"investment_value,omitempty"`
	EnterpriseValue  float64 `json:"company_enterprise_value,omitempty"`
	EVPlusCash       float64 `json:"company_ev_plus_cash,omitempty"`
	TotalAssets      float64 `json:"company_total_assets,omitempty"`
	Revenue          float64 `json:"company_revenue,omitempty"`
	SBTiTargetStatus string  `json:"sbti_target_status,omitempty"`
}

// Target is one company's reported decarbonization commitment.
type Target struct {
	CompanyID             string                `json:"company_id"`
	TargetReferenceNumber *string               `json:"target_reference_number,omitempty"`
	IntensityMetric       string                `json:"intensity_metric,omitempty"`
	Scope                 string                `json:"scope,omitempty"`
	ScopeCategory         scoring.ScopeCategory `json:"scope_category"`
	BaseYear              int                   `json:"base_year,omitempty"`
	StartYear             int                   `json:"start_year"`
	EndYear               int                   `json:"target_year"`
	ReductionAmbition     *float64              `json:"reduction_ambition,omitempty"`
	AchievedReduction     *float64              `json:"achieved_reduction,omitempty"`
	TimeFrame             scoring.TimeFrame     `json:"time_frame"`
	EngagementTarget      bool                  `json:"engagement_target,omitempty"`
}

// DataProvider exposes company and target records filtered to a company-id
// set.
type DataProvider interface {
	// GetCompanyData returns the company records for the requested ids.
	GetCompanyData(companyIDs []string) ([]Company, error)
	// GetTargets returns the target records for the requested ids.
	GetTargets(companyIDs []string) ([]Target, error)
	// GetSBTiTargets returns the requested companies whose targets are known
	// to the SBTi, with their target status populated.
	GetSBTiTargets(companyIDs []string) ([]Company, error)
}

// BuildRows flattens company and target records into the scoring pipeline's
// row shape, joining on company id. Targets without a matching company are
// skipped.
func BuildRows(companies []Company, targets []Target) []*scoring.TargetRow {
	byID := make(map[string]Company, len(companies))
	for _, company := range companies {
		byID[company.CompanyID] = company
	}

	rows := make([]*scoring.TargetRow, 0, len(targets))
	for _, target := range targets {
		company, ok := byID[target.CompanyID]
		if !ok {
			continue
		}
		rows = append(rows, &scoring.TargetRow{
			CompanyID:             company.CompanyID,
			CompanyName:           company.CompanyName,
			CompanyISIC:           company.CompanyISIC,
			Industry:              company.Industry,
			TargetReferenceNumber: target.TargetReferenceNumber,
			IntensityMetric:       target.IntensityMetric,
			Scope:                 target.Scope,
			ScopeCategory:         target.ScopeCategory,
			BaseYear:              target.BaseYear,
			StartYear:             target.StartYear,
			EndYear:               target.EndYear,
			ReductionAmbition:     target.ReductionAmbition,
			TimeFrame:             target.TimeFrame,
			GHGScope12:            company.GHGScope12,
			GHGScope3:             company.GHGScope3,
			MarketCap:             company.MarketCap,
			InvestmentValue:       company.InvestmentValue,
			EnterpriseValue:       company.EnterpriseValue,
			EVPlusCash:            company.EVPlusCash,
			TotalAssets:           company.TotalAssets,
			Revenue:               company.Revenue,
			EngagementTarget:      target.EngagementTarget,
		})
	}
	return rows
}

func idSet(companyIDs []string) map[string]bool {
	set := make(map[string]bool, len(companyIDs))
	for _, id := range companyIDs {
		set[id] = true
	}
	return set
}
