// Package reference loads and serves the external reference datasets the
// scoring engine depends on: the SR15 pathway mapping and the regression
// model summary.
package reference

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carbonview/tempscore/internal/modules/scoring"
)

// PathwayMapping maps one intensity metric to its reference pathway variable.
type PathwayMapping struct {
	IntensityMetric string
	Variable        string
}

// Store keeps the reference datasets in memory. It is read-only for scoring
// runs; Reload swaps the datasets atomically so concurrent runs are safe.
type Store struct {
	mu         sync.RWMutex
	mappings   []PathwayMapping
	regression []scoring.RegressionEntry
	log        zerolog.Logger
}

// NewStore creates an empty reference store
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		log: log.With().Str("module", "reference").Logger(),
	}
}

// LoadFromFiles reads both reference datasets from CSV files and replaces
// the store's contents.
func (s *Store) LoadFromFiles(mappingPath, regressionPath string) error {
	mappings, err := loadPathwayMappings(mappingPath)
	if err != nil {
		return err
	}
	regression, err := loadRegressionEntries(regressionPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.mappings = mappings
	s.regression = regression
	s.mu.Unlock()

	s.log.Info().
		Int("mappings", len(mappings)).
		Int("regression_entries", len(regression)).
		Msg("Loaded reference datasets")
	return nil
}

// RegressionTable returns the regression entries filtered to the given
// model id.
func (s *Store) RegressionTable(model int) *scoring.RegressionTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scoring.NewRegressionTable(s.regression, model)
}

// IntensityPathways returns the loaded intensity metric to pathway variable
// map, or nil when the mapping dataset is empty.
func (s *Store) IntensityPathways() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.mappings) == 0 {
		return nil
	}
	pathways := make(map[string]string, len(s.mappings))
	for _, mapping := range s.mappings {
		pathways[mapping.IntensityMetric] = mapping.Variable
	}
	return pathways
}

// ScoringConfig returns the scoring configuration with the loaded pathway
// mapping applied over the built-in defaults.
func (s *Store) ScoringConfig(fallbackScore float64, model int) scoring.Config {
	cfg := scoring.DefaultConfig()
	cfg.FallbackScore = fallbackScore
	cfg.Model = model
	if pathways := s.IntensityPathways(); pathways != nil {
		cfg.IntensityPathways = pathways
	}
	return cfg
}

func loadPathwayMappings(path string) ([]PathwayMapping, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pathway mapping file: %w", err)
	}

	mappings := make([]PathwayMapping, 0, len(records))
	for _, record := range records {
		metric := record["intensity_metric"]
		variable := record["variable"]
		if metric == "" || variable == "" {
			continue
		}
		mappings = append(mappings, PathwayMapping{IntensityMetric: metric, Variable: variable})
	}
	return mappings, nil
}

func loadRegressionEntries(path string) ([]scoring.RegressionEntry, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regression model file: %w", err)
	}

	entries := make([]scoring.RegressionEntry, 0, len(records))
	for i, record := range records {
		model, err := strconv.Atoi(record["model"])
		if err != nil {
			return nil, fmt.Errorf("invalid model id in regression row %d: %w", i+1, err)
		}
		param, err := strconv.ParseFloat(record["param"], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid param in regression row %d: %w", i+1, err)
		}
		intercept, err := strconv.ParseFloat(record["intercept"], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid intercept in regression row %d: %w", i+1, err)
		}
		entries = append(entries, scoring.RegressionEntry{
			Model:     model,
			Variable:  record["variable"],
			Slope:     record["slope"],
			Param:     param,
			Intercept: intercept,
		})
	}
	return entries, nil
}

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
