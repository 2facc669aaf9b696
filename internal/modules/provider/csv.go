package provider

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/carbonview/tempscore/internal/modules/scoring"
)

// CSVProvider reads company and target records from two CSV files. It loads
// everything up front and serves filtered views; intended for development
// and testing.
type CSVProvider struct {
	companies []Company
	targets   []Target
}

// NewCSVProvider loads the companies and targets CSV files into memory
func NewCSVProvider(companiesPath, targetsPath string) (*CSVProvider, error) {
	companyRecords, err := readCSV(companiesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read companies file: %w", err)
	}
	targetRecords, err := readCSV(targetsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	p := &CSVProvider{}
	for _, record := range companyRecords {
		p.companies = append(p.companies, parseCompany(record))
	}
	for _, record := range targetRecords {
		target, err := parseTarget(record)
		if err != nil {
			return nil, err
		}
		p.targets = append(p.targets, target)
	}
	return p, nil
}

// GetCompanyData returns the company records for the requested ids
func (p *CSVProvider) GetCompanyData(companyIDs []string) ([]Company, error) {
	wanted := idSet(companyIDs)
	var companies []Company
	for _, company := range p.companies {
		if wanted[company.CompanyID] {
			companies = append(companies, company)
		}
	}
	return companies, nil
}

// GetTargets returns the target records for the requested ids
func (p *CSVProvider) GetTargets(companyIDs []string) ([]Target, error) {
	wanted := idSet(companyIDs)
	var targets []Target
	for _, target := range p.targets {
		if wanted[target.CompanyID] {
			targets = append(targets, target)
		}
	}
	return targets, nil
}

// GetSBTiTargets returns the requested companies with a known SBTi target
// status.
func (p *CSVProvider) GetSBTiTargets(companyIDs []string) ([]Company, error) {
	wanted := idSet(companyIDs)
	var companies []Company
	for _, company := range p.companies {
		if wanted[company.CompanyID] && company.SBTiTargetStatus != "" {
			companies = append(companies, company)
		}
	}
	return companies, nil
}

// readCSV reads a headered CSV file into a slice of column-name keyed maps
func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				record[strings.TrimSpace(column)] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func parseCompany(record map[string]string) Company {
	return Company{
		CompanyID:        record["company_id"],
		CompanyName:      record["company_name"],
		CompanyISIC:      record["company_isic"],
		Industry:         record["industry"],
		GHGScope12:       parseFloat(record["s1s2_emissions"]),
		GHGScope3:        parseFloat(record["s3_emissions"]),
		MarketCap:        parseFloat(record["market_cap"]),
		InvestmentValue:  parseFloat(record["investment_value"]),
		EnterpriseValue:  parseFloat(record["company_enterprise_value"]),
		EVPlusCash:       parseFloat(record["company_ev_plus_cash"]),
		TotalAssets:      parseFloat(record["company_total_assets"]),
		Revenue:          parseFloat(record["company_revenue"]),
		SBTiTargetStatus: record["sbti_target_status"],
	}
}

func parseTarget(record map[string]string) (Target, error) {
	target := Target{
		CompanyID:             record["company_id"],
		TargetReferenceNumber: optionalString(record["target_reference_number"]),
		IntensityMetric:       record["intensity_metric"],
		Scope:                 record["scope"],
		ScopeCategory:         scoring.ScopeCategory(record["scope_category"]),
		BaseYear:              parseInt(record["base_year"]),
		StartYear:             parseInt(record["start_year"]),
		EndYear:               parseInt(record["target_year"]),
		ReductionAmbition:     optionalFloat(record["reduction_ambition"]),
		AchievedReduction:     optionalFloat(record["achieved_reduction"]),
		TimeFrame:             scoring.TimeFrame(record["time_frame"]),
		EngagementTarget:      parseBool(record["engagement_target"]),
	}
	if target.CompanyID == "" {
		return Target{}, fmt.Errorf("target record without company_id")
	}
	return target, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseFloat(value string) float64 {
	parsed, _ := strconv.ParseFloat(value, 64)
	return parsed
}

func parseInt(value string) int {
	parsed, _ := strconv.Atoi(value)
	return parsed
}

func parseBool(value string) bool {
	parsed, _ := strconv.ParseBool(value)
	return parsed
}
