package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/msalhab/deedbridge/internal/bridge"
	"github.com/msalhab/deedbridge/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// S3Config holds the bucket coordinates and static credentials. BaseEndpoint
// is set when the bucket lives on a MinIO-style endpoint rather than AWS.
type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// S3Exporter uploads one JSON object per successful lookup.
type S3Exporter struct {
	cfg    S3Config
	logger logging.Logger

	// now is a seam for tests.
	now func() time.Time
}

func NewS3Exporter(cfg S3Config, logger logging.Logger) *S3Exporter {
	return &S3Exporter{
		cfg:    cfg,
		logger: logger.With("module", "s3_exporter"),
		now:    time.Now,
	}
}

func (e *S3Exporter) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.cfg.AccessKey,
			e.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.cfg.BaseEndpoint)
		}
	}), nil
}

// Export uploads the artifact under a date-partitioned key.
func (e *S3Exporter) Export(ctx context.Context, requestID string, artifact *bridge.Artifact) error {
	client, err := e.getClient(ctx)
	if err != nil {
		return fmt.Errorf("s3 client error: %w", err)
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("artifact encode error: %w", err)
	}

	key := e.storageKey(requestID)
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("artifact upload error: %w", err)
	}

	e.logger.Debug(ctx, "artifact uploaded", "bucket", e.cfg.Bucket, "key", key)
	return nil
}

func (e *S3Exporter) storageKey(requestID string) string {
	d := e.now()
	return fmt.Sprintf("lookups/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), artifactName(requestID))
}
