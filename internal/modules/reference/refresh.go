package reference

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshJob re-downloads the reference datasets from S3 and reloads the
// store. It satisfies the scheduler's Job interface.
type RefreshJob struct {
	fetcher        *S3Fetcher
	store          *Store
	regressionKey  string
	mappingKey     string
	regressionPath string
	mappingPath    string
	timeout        time.Duration
	log            zerolog.Logger
}

// NewRefreshJob creates a refresh job tying an S3 fetcher to a store
func NewRefreshJob(fetcher *S3Fetcher, store *Store, regressionKey, mappingKey,
	regressionPath, mappingPath string, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		fetcher:        fetcher,
		store:          store,
		regressionKey:  regressionKey,
		mappingKey:     mappingKey,
		regressionPath: regressionPath,
		mappingPath:    mappingPath,
		timeout:        5 * time.Minute,
		log:            log.With().Str("job", "reference_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "reference_refresh"
}

// Run downloads both datasets and swaps them into the store
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.fetcher.Download(ctx, j.regressionKey, j.regressionPath); err != nil {
		return err
	}
	if err := j.fetcher.Download(ctx, j.mappingKey, j.mappingPath); err != nil {
		return err
	}

	return j.store.LoadFromFiles(j.mappingPath, j.regressionPath)
}
