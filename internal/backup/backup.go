// Package backup uploads the SQLite store file to S3.
package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Uploader pushes store snapshots to an S3 bucket.
type Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewUploader creates an uploader using the default AWS credential chain.
func NewUploader(ctx context.Context, bucket, prefix string, log zerolog.Logger) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("backup bucket is not configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &Uploader{
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
		bucket:   bucket,
		prefix:   prefix,
		log:      log.With().Str("component", "backup").Logger(),
	}, nil
}

// Upload copies the store file to the bucket under a timestamped key and
// returns the key. The store should not be mid-write; run this from the CLI
// between ingestions, or from serve mode where the store is read-only.
func (u *Uploader) Upload(ctx context.Context, dbPath string) (string, error) {
	f, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open store file: %w", err)
	}
	defer f.Close()

	key := path.Join(u.prefix, fmt.Sprintf("%s-%s",
		time.Now().UTC().Format("20060102T150405Z"),
		filepath.Base(dbPath)))

	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload store backup: %w", err)
	}

	u.log.Info().Str("bucket", u.bucket).Str("key", key).Msg("Store backup uploaded")
	return key, nil
}
