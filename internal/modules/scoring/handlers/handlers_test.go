package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonview/tempscore/internal/modules/provider"
	"github.com/carbonview/tempscore/internal/modules/reference"
	"github.com/carbonview/tempscore/internal/modules/scoring"
)

const testMappingCSV = `intensity_metric,variable
Revenue,INT.emKyoto_gdp
`

const testRegressionCSV = `model,variable,slope,param,intercept
4,Emissions|Kyoto Gases,slope5,-0.5,2.5
4,Emissions|Kyoto Gases,slope15,-0.4,2.8
4,Emissions|Kyoto Gases,slope30,-0.3,3.0
`

// stubProvider serves a fixed company and target set.
type stubProvider struct {
	companies []provider.Company
	targets   []provider.Target
}

func (s *stubProvider) GetCompanyData([]string) ([]provider.Company, error) {
	return s.companies, nil
}

func (s *stubProvider) GetTargets([]string) ([]provider.Target, error) {
	return s.targets, nil
}

func (s *stubProvider) GetSBTiTargets([]string) ([]provider.Company, error) {
	return nil, nil
}

func newTestStore(t *testing.T) *reference.Store {
	t.Helper()
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.csv")
	regressionPath := filepath.Join(dir, "regression.csv")
	require.NoError(t, os.WriteFile(mappingPath, []byte(testMappingCSV), 0644))
	require.NoError(t, os.WriteFile(regressionPath, []byte(testRegressionCSV), 0644))

	store := reference.NewStore(zerolog.Nop())
	require.NoError(t, store.LoadFromFiles(mappingPath, regressionPath))
	return store
}

func newTestRouter(t *testing.T, dataProvider provider.DataProvider) chi.Router {
	t.Helper()
	h := NewHandlers(
		newTestStore(t),
		dataProvider,
		scoring.NewDumpWriter(t.TempDir(), zerolog.Nop()),
		Defaults{FallbackScore: 3.2, Model: 4, AggregationMethod: "WATS"},
		zerolog.Nop(),
	)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func fptr(v float64) *float64 { return &v }

func requestRows() []*scoring.TargetRow {
	row := func(id, name string, ambition *float64, investment float64) *scoring.TargetRow {
		return &scoring.TargetRow{
			CompanyID: id, CompanyName: name,
			ScopeCategory: scoring.ScopeS1S2, TimeFrame: scoring.TimeFrameShort,
			StartYear: 2020, EndYear: 2030, ReductionAmbition: ambition,
			GHGScope12: 100, InvestmentValue: investment,
		}
	}
	return []*scoring.TargetRow{
		row("C1", "Alpha Corp", fptr(0.3), 100),
		row("C2", "Beta PLC", nil, 300),
		row("C3", "Gamma AG", fptr(0.2), 100),
	}
}

func post(t *testing.T, router chi.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleCalculate(t *testing.T) {
	router := newTestRouter(t, nil)

	recorder := post(t, router, "/scoring/temperature", ScoreRequest{Rows: requestRows()})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp ScoreResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Scores, 3)

	assert.InDelta(t, 1.0, resp.Scores[0].TemperatureScore, 1e-9)
	assert.Equal(t, 3.2, resp.Scores[1].TemperatureScore)
	assert.Equal(t, 1.0, resp.Scores[1].TemperatureResult)
	assert.InDelta(t, 1.5, resp.Scores[2].TemperatureScore, 1e-9)
}

func TestHandleCalculateInvalidBody(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/scoring/temperature", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleCalculateUnknownMethod(t *testing.T) {
	router := newTestRouter(t, nil)

	recorder := post(t, router, "/scoring/temperature", ScoreRequest{
		Rows:              requestRows(),
		AggregationMethod: "median",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleCalculateCompanyIDsWithoutProvider(t *testing.T) {
	router := newTestRouter(t, nil)

	recorder := post(t, router, "/scoring/temperature", ScoreRequest{
		CompanyIDs: []string{"C1"},
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleCalculateFromProvider(t *testing.T) {
	ambition := 0.3
	stub := &stubProvider{
		companies: []provider.Company{{
			CompanyID: "C1", CompanyName: "Alpha Corp",
			GHGScope12: 100, InvestmentValue: 100,
		}},
		targets: []provider.Target{{
			CompanyID:         "C1",
			ScopeCategory:     scoring.ScopeS1S2,
			StartYear:         2020,
			EndYear:           2030,
			ReductionAmbition: &ambition,
			TimeFrame:         scoring.TimeFrameShort,
		}},
	}
	router := newTestRouter(t, stub)

	recorder := post(t, router, "/scoring/temperature", ScoreRequest{
		CompanyIDs: []string{"C1"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp ScoreResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Scores, 1)
	assert.Equal(t, "Alpha Corp", resp.Scores[0].CompanyName)
	assert.InDelta(t, 1.0, resp.Scores[0].TemperatureScore, 1e-9)
}

func TestHandleAggregations(t *testing.T) {
	router := newTestRouter(t, nil)

	recorder := post(t, router, "/scoring/aggregations", ScoreRequest{Rows: requestRows()})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp ScoreResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Contains(t, resp.Aggregations, scoring.TimeFrameShort)

	cell := resp.Aggregations[scoring.TimeFrameShort][scoring.ScopeS1S2]
	require.NotNil(t, cell)
	assert.InDelta(t, 2.42, cell.All.Score, 1e-9)
	assert.InDelta(t, 60.0, cell.InfluencePercentage, 1e-9)
	require.Len(t, cell.All.Contributions, 3)
	assert.Equal(t, "Beta PLC", cell.All.Contributions[0].CompanyName)
}

func TestHandleAggregationsScoringError(t *testing.T) {
	router := newTestRouter(t, nil)

	rows := []*scoring.TargetRow{{
		CompanyID: "C1", CompanyName: "Frozen Co",
		ScopeCategory: scoring.ScopeS1S2, TimeFrame: scoring.TimeFrameShort,
		StartYear: 2030, EndYear: 2030, ReductionAmbition: fptr(0.3),
		GHGScope12: 100, InvestmentValue: 100,
	}}

	recorder := post(t, router, "/scoring/aggregations", ScoreRequest{Rows: rows})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestHandleDistribution(t *testing.T) {
	router := newTestRouter(t, nil)

	recorder := post(t, router, "/scoring/distribution", DistributionRequest{
		Rows:    requestRows(),
		Columns: []string{"time_frame"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var distribution map[string]float64
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&distribution))
	assert.Equal(t, map[string]float64{"short": 100}, distribution)

	recorder = post(t, router, "/scoring/distribution", DistributionRequest{
		Rows: requestRows(),
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleAnonymizedDump(t *testing.T) {
	router := newTestRouter(t, nil)

	recorder := post(t, router, "/scoring/anonymized-dump", ScoreRequest{Rows: requestRows()})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp DumpResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.NotEmpty(t, resp.RunID)

	_, err := os.Stat(resp.Path)
	assert.NoError(t, err)
}
