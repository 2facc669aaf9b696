// Package handlers provides HTTP handlers for the scoring API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carbonview/tempscore/internal/modules/aggregation"
	"github.com/carbonview/tempscore/internal/modules/provider"
	"github.com/carbonview/tempscore/internal/modules/reference"
	"github.com/carbonview/tempscore/internal/modules/scoring"
)

// Defaults carries the scoring defaults applied when a request leaves them
// unset.
type Defaults struct {
	FallbackScore     float64
	Model             int
	AggregationMethod string
}

// Handlers provides HTTP handlers for the scoring module
type Handlers struct {
	store    *reference.Store
	provider provider.DataProvider
	dumps    *scoring.DumpWriter
	defaults Defaults
	log      zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance. provider may be nil
// when no record store is configured; the portfolio endpoint then returns an
// error.
func NewHandlers(store *reference.Store, dataProvider provider.DataProvider,
	dumps *scoring.DumpWriter, defaults Defaults, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:    store,
		provider: dataProvider,
		dumps:    dumps,
		defaults: defaults,
		log:      log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// ScenarioRequest selects the engagement scenario for a scoring run
type ScenarioRequest struct {
	Number         int    `json:"number"`
	EngagementType string `json:"engagement_type,omitempty"`
}

// ScoreRequest carries a scoring run's rows and policy knobs
type ScoreRequest struct {
	Rows              []*scoring.TargetRow    `json:"rows"`
	CompanyIDs        []string                `json:"company_ids,omitempty"`
	Scenario          *ScenarioRequest        `json:"scenario,omitempty"`
	FallbackScore     *float64                `json:"fallback_score,omitempty"`
	Model             *int                    `json:"model,omitempty"`
	AggregationMethod string                  `json:"aggregation_method,omitempty"`
	Grouping          []string                `json:"grouping,omitempty"`
	TimeFrames        []scoring.TimeFrame     `json:"time_frames,omitempty"`
	ScopeCategories   []scoring.ScopeCategory `json:"scope_categories,omitempty"`
}

// ScoreResponse is the enriched result of a scoring run
type ScoreResponse struct {
	RunID        string                  `json:"run_id"`
	Scores       []*scoring.TargetRow    `json:"scores"`
	Aggregations scoring.PortfolioScores `json:"aggregations,omitempty"`
}

// DistributionRequest asks for a percentage distribution over columns
type DistributionRequest struct {
	Rows    []*scoring.TargetRow `json:"rows"`
	Columns []string             `json:"columns"`
}

// DumpResponse reports where an anonymized dump was written
type DumpResponse struct {
	RunID string `json:"run_id"`
	Path  string `json:"path"`
}

// engine builds a temperature score engine from the request's knobs plus the
// configured defaults.
func (h *Handlers) engine(req *ScoreRequest) (*scoring.TemperatureScore, error) {
	fallback := h.defaults.FallbackScore
	if req.FallbackScore != nil {
		fallback = *req.FallbackScore
	}
	model := h.defaults.Model
	if req.Model != nil {
		model = *req.Model
	}

	methodName := req.AggregationMethod
	if methodName == "" {
		methodName = h.defaults.AggregationMethod
	}
	method, err := aggregation.MethodFromString(methodName)
	if err != nil {
		return nil, err
	}

	var scenario *scoring.Scenario
	if req.Scenario != nil {
		scenario = scoring.NewScenario(req.Scenario.Number, req.Scenario.EngagementType)
	}

	cfg := h.store.ScoringConfig(fallback, model)
	return scoring.New(cfg, h.store.RegressionTable(model), scenario, method, req.Grouping, h.log), nil
}

// rows resolves the run's input rows, either from the request body or, when
// company ids are given, from the data provider.
func (h *Handlers) rows(req *ScoreRequest) ([]*scoring.TargetRow, error) {
	if len(req.CompanyIDs) == 0 {
		return req.Rows, nil
	}
	if h.provider == nil {
		return nil, errNoProvider
	}

	companies, err := h.provider.GetCompanyData(req.CompanyIDs)
	if err != nil {
		return nil, err
	}
	targets, err := h.provider.GetTargets(req.CompanyIDs)
	if err != nil {
		return nil, err
	}
	return provider.BuildRows(companies, targets), nil
}

// HandleCalculate handles POST /scoring/temperature.
// Runs the scoring pipeline and returns the enriched rows.
func (h *Handlers) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rows, err := h.rows(&req)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	engine, err := h.engine(&req)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	scores, err := engine.Calculate(rows)
	if err != nil {
		h.log.Error().Err(err).Msg("Scoring run failed")
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.writeJSON(w, ScoreResponse{RunID: uuid.New().String(), Scores: scores})
}

// HandleAggregations handles POST /scoring/aggregations.
// Runs the scoring pipeline and aggregates the results into portfolio
// scores.
func (h *Handlers) HandleAggregations(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rows, err := h.rows(&req)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	engine, err := h.engine(&req)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	scores, err := engine.Calculate(rows)
	if err != nil {
		h.log.Error().Err(err).Msg("Scoring run failed")
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	aggregations, err := engine.AggregateScores(scores, req.TimeFrames, req.ScopeCategories)
	if err != nil {
		h.log.Error().Err(err).Msg("Aggregation failed")
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.writeJSON(w, ScoreResponse{
		RunID:        uuid.New().String(),
		Scores:       scores,
		Aggregations: aggregations,
	})
}

// HandleDistribution handles POST /scoring/distribution.
// Returns the percentage distribution of the requested columns.
func (h *Handlers) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	var req DistributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	distribution, err := scoring.ColumnsPercentageDistribution(req.Rows, req.Columns)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, distribution)
}

// HandleAnonymizedDump handles POST /scoring/anonymized-dump.
// Anonymizes the rows and persists them as a msgpack dump.
func (h *Handlers) HandleAnonymizedDump(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	path, err := h.dumps.Write(req.Rows)
	if err != nil {
		h.log.Error().Err(err).Msg("Dump write failed")
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, DumpResponse{RunID: uuid.New().String(), Path: path})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
