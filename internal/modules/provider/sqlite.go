package provider

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// SQLiteProvider serves company and target records from a SQLite database.
type SQLiteProvider struct {
	db  *sql.DB
	log zerolog.Logger
}

// companyColumns is the list of columns for the companies table.
// Used to avoid SELECT * which can break when the schema changes.
const companyColumns = `company_id, company_name, company_isic, industry,
s1s2_emissions, s3_emissions, market_cap, investment_value,
company_enterprise_value, company_ev_plus_cash, company_total_assets,
company_revenue, sbti_target_status`

// targetColumns is the list of columns for the targets table
const targetColumns = `company_id, target_reference_number, intensity_metric,
scope, scope_category, base_year, start_year, target_year,
reduction_ambition, achieved_reduction, time_frame, engagement_target`

// NewSQLiteProvider creates a provider backed by the given database
// connection and ensures the schema exists.
func NewSQLiteProvider(db *sql.DB, log zerolog.Logger) (*SQLiteProvider, error) {
	p := &SQLiteProvider{
		db:  db,
		log: log.With().Str("provider", "sqlite").Logger(),
	}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *SQLiteProvider) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		company_id TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		company_isic TEXT,
		industry TEXT,
		s1s2_emissions REAL NOT NULL DEFAULT 0,
		s3_emissions REAL NOT NULL DEFAULT 0,
		market_cap REAL NOT NULL DEFAULT 0,
		investment_value REAL NOT NULL DEFAULT 0,
		company_enterprise_value REAL NOT NULL DEFAULT 0,
		company_ev_plus_cash REAL NOT NULL DEFAULT 0,
		company_total_assets REAL NOT NULL DEFAULT 0,
		company_revenue REAL NOT NULL DEFAULT 0,
		sbti_target_status TEXT
	);
	CREATE TABLE IF NOT EXISTS targets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		company_id TEXT NOT NULL REFERENCES companies(company_id),
		target_reference_number TEXT,
		intensity_metric TEXT,
		scope TEXT,
		scope_category TEXT NOT NULL,
		base_year INTEGER,
		start_year INTEGER NOT NULL,
		target_year INTEGER NOT NULL,
		reduction_ambition REAL,
		achieved_reduction REAL,
		time_frame TEXT NOT NULL,
		engagement_target INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_targets_company ON targets(company_id);`

	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize provider schema: %w", err)
	}
	return nil
}

// GetCompanyData returns the company records for the requested ids
func (p *SQLiteProvider) GetCompanyData(companyIDs []string) ([]Company, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + companyColumns + " FROM companies WHERE company_id IN (" +
		placeholders(len(companyIDs)) + ")"

	rows, err := p.db.Query(query, toArgs(companyIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	return scanCompanies(rows)
}

// GetTargets returns the target records for the requested ids
func (p *SQLiteProvider) GetTargets(companyIDs []string) ([]Target, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + targetColumns + " FROM targets WHERE company_id IN (" +
		placeholders(len(companyIDs)) + ")"

	rows, err := p.db.Query(query, toArgs(companyIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		var (
			target     Target
			reference  sql.NullString
			metric     sql.NullString
			scope      sql.NullString
			ambition   sql.NullFloat64
			achieved   sql.NullFloat64
			engagement int
		)
		if err := rows.Scan(&target.CompanyID, &reference, &metric, &scope,
			&target.ScopeCategory, &target.BaseYear, &target.StartYear, &target.EndYear,
			&ambition, &achieved, &target.TimeFrame, &engagement); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		if reference.Valid {
			target.TargetReferenceNumber = &reference.String
		}
		target.IntensityMetric = metric.String
		target.Scope = scope.String
		if ambition.Valid {
			target.ReductionAmbition = &ambition.Float64
		}
		if achieved.Valid {
			target.AchievedReduction = &achieved.Float64
		}
		target.EngagementTarget = engagement != 0
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// GetSBTiTargets returns the requested companies with a known SBTi target
// status.
func (p *SQLiteProvider) GetSBTiTargets(companyIDs []string) ([]Company, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + companyColumns + " FROM companies WHERE sbti_target_status IS NOT NULL" +
		" AND sbti_target_status != '' AND company_id IN (" + placeholders(len(companyIDs)) + ")"

	rows, err := p.db.Query(query, toArgs(companyIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query SBTi targets: %w", err)
	}
	defer rows.Close()

	return scanCompanies(rows)
}

// AddCompany inserts or replaces a company record
func (p *SQLiteProvider) AddCompany(company Company) error {
	_, err := p.db.Exec(`INSERT OR REPLACE INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		company.CompanyID, company.CompanyName, company.CompanyISIC, company.Industry,
		company.GHGScope12, company.GHGScope3, company.MarketCap, company.InvestmentValue,
		company.EnterpriseValue, company.EVPlusCash, company.TotalAssets,
		company.Revenue, nullable(company.SBTiTargetStatus))
	if err != nil {
		return fmt.Errorf("failed to insert company %s: %w", company.CompanyID, err)
	}
	return nil
}

// AddTarget inserts a target record
func (p *SQLiteProvider) AddTarget(target Target) error {
	var reference interface{}
	if target.TargetReferenceNumber != nil {
		reference = *target.TargetReferenceNumber
	}
	var ambition interface{}
	if target.ReductionAmbition != nil {
		ambition = *target.ReductionAmbition
	}
	var achieved interface{}
	if target.AchievedReduction != nil {
		achieved = *target.AchievedReduction
	}

	_, err := p.db.Exec(`INSERT INTO targets (`+targetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		target.CompanyID, reference, nullable(target.IntensityMetric),
		nullable(target.Scope), string(target.ScopeCategory), target.BaseYear,
		target.StartYear, target.EndYear, ambition, achieved,
		string(target.TimeFrame), boolToInt(target.EngagementTarget))
	if err != nil {
		return fmt.Errorf("failed to insert target for %s: %w", target.CompanyID, err)
	}
	return nil
}

func scanCompanies(rows *sql.Rows) ([]Company, error) {
	var companies []Company
	for rows.Next() {
		var (
			company Company
			isic    sql.NullString
			ind     sql.NullString
			status  sql.NullString
		)
		if err := rows.Scan(&company.CompanyID, &company.CompanyName, &isic, &ind,
			&company.GHGScope12, &company.GHGScope3, &company.MarketCap,
			&company.InvestmentValue, &company.EnterpriseValue, &company.EVPlusCash,
			&company.TotalAssets, &company.Revenue, &status); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		company.CompanyISIC = isic.String
		company.Industry = ind.String
		company.SBTiTargetStatus = status.String
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(ids []string) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func nullable(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// ensure the providers satisfy the interface
var (
	_ DataProvider = (*CSVProvider)(nil)
	_ DataProvider = (*SQLiteProvider)(nil)
)
