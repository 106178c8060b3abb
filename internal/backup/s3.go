// Package backup ships exported note bundles to S3.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marginalia-app/marginalia/internal/config"
)

type Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewUploader builds an S3 uploader from the backup config. Static keys
// are used when both are set, otherwise the default credential chain
// applies.
func NewUploader(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("backup bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &Uploader{
		uploader: manager.NewUploader(s3.NewFromConfig(awsCfg)),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}, nil
}

// Upload stores the bundle under a timestamped key and returns that key.
func (u *Uploader) Upload(ctx context.Context, body io.Reader, now time.Time) (string, error) {
	key := path.Join(u.prefix, fmt.Sprintf("notes-export-%s.json", now.Format("2006-01-02-150405")))

	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	return key, nil
}
