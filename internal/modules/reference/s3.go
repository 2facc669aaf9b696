package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Config holds the settings for fetching reference datasets from S3.
type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string // Optional; the default credential chain is used when empty
	SecretKey string
}

// S3Fetcher downloads reference datasets from an S3 bucket.
type S3Fetcher struct {
	downloader *manager.Downloader
	bucket     string
	log        zerolog.Logger
}

// NewS3Fetcher creates a fetcher for the configured bucket
func NewS3Fetcher(ctx context.Context, cfg S3Config, log zerolog.Logger) (*S3Fetcher, error) {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Fetcher{
		downloader: manager.NewDownloader(client),
		bucket:     cfg.Bucket,
		log:        log.With().Str("component", "s3_fetcher").Logger(),
	}, nil
}

// Download fetches an object into the destination path, creating parent
// directories as needed.
func (f *S3Fetcher) Download(ctx context.Context, key, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer file.Close()

	size, err := f.downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to download s3://%s/%s: %w", f.bucket, key, err)
	}

	f.log.Info().
		Str("key", key).
		Str("dest", destPath).
		Int64("bytes", size).
		Msg("Downloaded reference dataset")
	return nil
}
