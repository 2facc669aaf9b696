package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carbonview/tempscore/internal/modules/aggregation"
)

var (
	// ErrZeroCombinedEmissions signals that a company's combined scope 1+2
	// and scope 3 emissions are zero, so the scope blend is undefined.
	ErrZeroCombinedEmissions = errors.New("the mean of the S1+S2 plus the S3 emissions is zero")
	// ErrMissingScopeRows signals that an s1s2s3 row has no matching s1s2 or
	// s3 rows to blend; the data preparation upstream must guarantee both.
	ErrMissingScopeRows = errors.New("missing s1s2 or s3 rows for combined scope blending")
)

// Contribution is one company's share of a portfolio-level aggregated score.
type Contribution struct {
	CompanyName          string  `json:"company_name"`
	CompanyID            string  `json:"company_id"`
	TemperatureScore     float64 `json:"temperature_score"`
	ContributionRelative float64 `json:"contribution_relative"`
	Contribution         float64 `json:"contribution"`
}

// ScoreAggregation is the aggregated score of one set of rows together with
// the per-row contributions, sorted by descending relative contribution.
// Relative contributions sum to 100 over the set.
type ScoreAggregation struct {
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// ScopeAggregation holds the aggregations of one (time frame, scope
// category) cell: the whole cell, the share of the weighted mass that used a
// fallback score, and one aggregation per group value when grouping is
// configured.
type ScopeAggregation struct {
	All                 *ScoreAggregation            `json:"all"`
	InfluencePercentage float64                      `json:"influence_percentage"`
	Groups              map[string]*ScoreAggregation `json:"groups,omitempty"`
}

// PortfolioScores maps time frame and scope category to the cell's
// aggregation. Cells without underlying rows are present with a nil value.
type PortfolioScores map[TimeFrame]map[ScopeCategory]*ScopeAggregation

// TemperatureScore scores company reduction targets against the regression
// reference model and aggregates the results into portfolio figures.
type TemperatureScore struct {
	cfg           Config
	fallbackScore float64
	scenario      *Scenario
	method        aggregation.Method
	grouping      []string
	regression    *RegressionTable
	log           zerolog.Logger
}

// New creates a temperature score engine. regression must already be
// filtered to the configured model. scenario may be nil (no capping, no
// fallback override); grouping may be nil.
func New(cfg Config, regression *RegressionTable, scenario *Scenario,
	method aggregation.Method, grouping []string, log zerolog.Logger) *TemperatureScore {
	fallback := cfg.FallbackScore
	if scenario != nil {
		fallback = scenario.FallbackScore(fallback)
	}
	return &TemperatureScore{
		cfg:           cfg,
		fallbackScore: fallback,
		scenario:      scenario,
		method:        method,
		grouping:      grouping,
		regression:    regression,
		log:           log.With().Str("module", "scoring").Logger(),
	}
}

// Calculate runs the full scoring pipeline over the portfolio's target rows:
// pathway mapping, reduction rate, regression merge, scoring, scenario
// capping and finally scope blending. The input rows are never mutated; the
// returned rows are an enriched copy.
func (ts *TemperatureScore) Calculate(rows []*TargetRow) ([]*TargetRow, error) {
	working := cloneRows(rows)

	working, err := ts.prepare(working)
	if err != nil {
		return nil, err
	}
	if err := ts.companyScores(working); err != nil {
		return nil, err
	}

	ts.log.Debug().Int("rows", len(working)).Msg("Calculated temperature scores")
	return working, nil
}

// prepare enriches every row with its pathway variable, annual reduction
// rate, regression parameters and per-target temperature score, then applies
// scenario capping.
func (ts *TemperatureScore) prepare(rows []*TargetRow) ([]*TargetRow, error) {
	for _, row := range rows {
		if row.TargetReferenceNumber == nil {
			tag := ts.cfg.AbsoluteTag
			row.TargetReferenceNumber = &tag
		}

		row.SR15 = ts.targetPathway(row)

		rate, err := ts.annualReductionRate(row)
		if err != nil {
			return nil, err
		}
		row.AnnualReductionRate = rate

		if slope, ok := ts.cfg.SlopeMap[row.TimeFrame]; ok {
			row.Slope = &slope
		} else {
			row.Slope = nil
		}

		param, intercept, err := ts.regression.Lookup(row.SR15, row.Slope)
		if err != nil {
			return nil, err
		}
		row.Param, row.Intercept = param, intercept

		row.TemperatureScore, row.TemperatureResult = ts.score(row)
	}

	return ts.CapScores(rows)
}

// score derives the implied temperature score for a single target. Rows
// missing the regression parameters or the reduction rate fall back to the
// configured default score, flagged via the second return value.
func (ts *TemperatureScore) score(row *TargetRow) (float64, float64) {
	if row.Param == nil || row.Intercept == nil || row.AnnualReductionRate == nil {
		return ts.fallbackScore, 1
	}
	return math.Max(*row.Param**row.AnnualReductionRate*100+*row.Intercept, 0), 0
}

// scopeMeans are the per-(company, time frame, scope category) mean figures
// the scope blend draws on.
type scopeMeans struct {
	ghg12 float64
	ghg3  float64
	score float64
	// result is the mean is-fallback weight of the group
	result float64
}

type scopeKey struct {
	companyID     string
	timeFrame     TimeFrame
	scopeCategory ScopeCategory
}

// companyScores replaces every s1s2s3 row's score with the emissions-
// weighted blend of the company's s1s2 and s3 scores.
func (ts *TemperatureScore) companyScores(rows []*TargetRow) error {
	means := groupScopeMeans(rows)
	for _, row := range rows {
		score, result, err := ts.blend(row, means)
		if err != nil {
			return err
		}
		row.TemperatureScore, row.TemperatureResult = score, result
	}
	return nil
}

// groupScopeMeans averages emissions, scores and fallback weights per
// (company, time frame, scope category).
func groupScopeMeans(rows []*TargetRow) map[scopeKey]scopeMeans {
	sums := make(map[scopeKey]scopeMeans)
	counts := make(map[scopeKey]int)
	for _, row := range rows {
		key := scopeKey{row.CompanyID, row.TimeFrame, row.ScopeCategory}
		sum := sums[key]
		sum.ghg12 += row.GHGScope12
		sum.ghg3 += row.GHGScope3
		sum.score += row.TemperatureScore
		sum.result += row.TemperatureResult
		sums[key] = sum
		counts[key]++
	}

	means := make(map[scopeKey]scopeMeans, len(sums))
	for key, sum := range sums {
		n := float64(counts[key])
		means[key] = scopeMeans{
			ghg12:  sum.ghg12 / n,
			ghg3:   sum.ghg3 / n,
			score:  sum.score / n,
			result: sum.result / n,
		}
	}
	return means
}

// blend computes a row's company-level score. Rows outside the combined
// s1s2s3 category pass through unchanged. For combined rows, scope 3 results
// below the materiality cutoff are dropped in favour of the s1s2 figures;
// otherwise both scopes blend weighted by their emissions, and the fallback
// weight blends identically so influence reporting stays emissions-weighted.
func (ts *TemperatureScore) blend(row *TargetRow, means map[scopeKey]scopeMeans) (float64, float64, error) {
	if row.ScopeCategory != ScopeS1S2S3 {
		return row.TemperatureScore, row.TemperatureResult, nil
	}

	s1s2, ok := means[scopeKey{row.CompanyID, row.TimeFrame, ScopeS1S2}]
	if !ok {
		return 0, 0, fmt.Errorf("%w: company %q, time frame %q", ErrMissingScopeRows, row.CompanyID, row.TimeFrame)
	}
	s3, ok := means[scopeKey{row.CompanyID, row.TimeFrame, ScopeS3}]
	if !ok {
		return 0, 0, fmt.Errorf("%w: company %q, time frame %q", ErrMissingScopeRows, row.CompanyID, row.TimeFrame)
	}

	combined := s1s2.ghg12 + s3.ghg3
	if combined == 0 {
		return 0, 0, fmt.Errorf("%w: company %q", ErrZeroCombinedEmissions, row.CompanyID)
	}

	if s3.ghg3/combined < ts.cfg.MaterialityCutoff {
		return s1s2.score, s1s2.result, nil
	}

	score := (s1s2.score*s1s2.ghg12 + s3.score*s3.ghg3) / combined
	result := (s1s2.result*s1s2.ghg12 + s3.result*s3.ghg3) / combined
	return score, result, nil
}

// AggregateScores aggregates calculated scores into portfolio figures per
// (time frame, scope category) cell. Passing no time frames or scope
// categories aggregates every one present in the data. Cells without rows
// map to nil.
func (ts *TemperatureScore) AggregateScores(rows []*TargetRow, timeFrames []TimeFrame,
	scopeCategories []ScopeCategory) (PortfolioScores, error) {
	if len(timeFrames) == 0 {
		timeFrames = distinctTimeFrames(rows)
	}
	if len(scopeCategories) == 0 {
		scopeCategories = distinctScopeCategories(rows)
	}

	scores := make(PortfolioScores, len(timeFrames))
	for _, timeFrame := range timeFrames {
		scores[timeFrame] = make(map[ScopeCategory]*ScopeAggregation, len(scopeCategories))
		for _, scopeCategory := range scopeCategories {
			cell := filterRows(rows, timeFrame, scopeCategory)
			if len(cell) == 0 {
				scores[timeFrame][scopeCategory] = nil
				continue
			}

			all, err := ts.aggregateCell(cell)
			if err != nil {
				return nil, err
			}

			influence, err := ts.influencePercentage(cell)
			if err != nil {
				return nil, err
			}

			scopeAggregation := &ScopeAggregation{
				All:                 all,
				InfluencePercentage: influence,
			}

			if len(ts.grouping) > 0 {
				scopeAggregation.Groups = make(map[string]*ScoreAggregation)
				for key, group := range groupRows(cell, ts.grouping) {
					grouped, err := ts.aggregateCell(group)
					if err != nil {
						return nil, err
					}
					scopeAggregation.Groups[key] = grouped
				}
			}

			scores[timeFrame][scopeCategory] = scopeAggregation
		}
	}
	return scores, nil
}

// aggregateCell computes the weighted portfolio score of a set of rows and
// the per-row contributions, sorted by descending relative contribution.
func (ts *TemperatureScore) aggregateCell(rows []*TargetRow) (*ScoreAggregation, error) {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.TemperatureScore
	}

	weighted, err := aggregation.WeightedScores(ts.method, positions(rows), values)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, w := range weighted {
		total += w
	}

	contributions := make([]Contribution, len(rows))
	for i, row := range rows {
		relative := 0.0
		if total != 0 {
			relative = weighted[i] / (total / 100)
		}
		contributions[i] = Contribution{
			CompanyName:          row.CompanyName,
			CompanyID:            row.CompanyID,
			TemperatureScore:     row.TemperatureScore,
			ContributionRelative: relative,
			Contribution:         weighted[i],
		}
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].ContributionRelative > contributions[j].ContributionRelative
	})

	return &ScoreAggregation{Score: total, Contributions: contributions}, nil
}

// influencePercentage is the share of the cell's weighted mass that scored
// with the fallback value.
func (ts *TemperatureScore) influencePercentage(rows []*TargetRow) (float64, error) {
	results := make([]float64, len(rows))
	for i, row := range rows {
		results[i] = row.TemperatureResult
	}
	weighted, err := aggregation.WeightedScores(ts.method, positions(rows), results)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, w := range weighted {
		total += w
	}
	return total * 100, nil
}

// positions projects rows onto the aggregation primitive's position shape.
func positions(rows []*TargetRow) []aggregation.Position {
	result := make([]aggregation.Position, len(rows))
	for i, row := range rows {
		result[i] = aggregation.Position{
			InvestmentValue: row.InvestmentValue,
			MarketCap:       row.MarketCap,
			EnterpriseValue: row.EnterpriseValue,
			EVPlusCash:      row.EVPlusCash,
			TotalAssets:     row.TotalAssets,
			Revenue:         row.Revenue,
			GHGScope12:      row.GHGScope12,
			GHGScope3:       row.GHGScope3,
		}
	}
	return result
}

func filterRows(rows []*TargetRow, timeFrame TimeFrame, scopeCategory ScopeCategory) []*TargetRow {
	var filtered []*TargetRow
	for _, row := range rows {
		if row.TimeFrame == timeFrame && row.ScopeCategory == scopeCategory {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// groupRows buckets rows by the joined values of the grouping columns.
// Multi-column keys join with "-".
func groupRows(rows []*TargetRow, grouping []string) map[string][]*TargetRow {
	groups := make(map[string][]*TargetRow)
	for _, row := range rows {
		parts := make([]string, len(grouping))
		for i, column := range grouping {
			parts[i] = row.columnValue(column)
		}
		key := strings.Join(parts, "-")
		groups[key] = append(groups[key], row)
	}
	return groups
}

func distinctTimeFrames(rows []*TargetRow) []TimeFrame {
	seen := make(map[TimeFrame]bool)
	var frames []TimeFrame
	for _, row := range rows {
		if !seen[row.TimeFrame] {
			seen[row.TimeFrame] = true
			frames = append(frames, row.TimeFrame)
		}
	}
	return frames
}

func distinctScopeCategories(rows []*TargetRow) []ScopeCategory {
	seen := make(map[ScopeCategory]bool)
	var categories []ScopeCategory
	for _, row := range rows {
		if !seen[row.ScopeCategory] {
			seen[row.ScopeCategory] = true
			categories = append(categories, row.ScopeCategory)
		}
	}
	return categories
}
