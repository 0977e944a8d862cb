package export

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/msalhab/deedbridge/internal/logging"
)

func newTestS3Exporter() *S3Exporter {
	return NewS3Exporter(S3Config{
		Region:       "us-east-1",
		Bucket:       "deed-artifacts",
		AccessKey:    "ak",
		SecretKey:    "sk",
		BaseEndpoint: "http://localhost:9000",
	}, logging.NewJSONLogger(io.Discard))
}

func TestS3ExporterUploadsArtifact(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origPut := putObject
	defer func() {
		loadDefaultAWSConfig = origLoad
		putObject = origPut
	}()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}

	var captured *s3.PutObjectInput
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		captured = in
		return &s3.PutObjectOutput{}, nil
	}

	exporter := newTestS3Exporter()
	exporter.now = func() time.Time { return time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC) }

	err := exporter.Export(context.Background(), "req-1", testArtifact())
	require.NoError(t, err)

	require.NotNil(t, captured)
	require.Equal(t, "deed-artifacts", aws.ToString(captured.Bucket))
	require.Equal(t, "lookups/2026/03/07/req-1.json", aws.ToString(captured.Key))
	require.Equal(t, "application/json", aws.ToString(captured.ContentType))

	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"result":[{"deedNumber":"111"},{"deedNumber":"333"}]}`, string(body))
}

func TestS3ExporterConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = origLoad }()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no credentials")
	}

	err := newTestS3Exporter().Export(context.Background(), "req-1", testArtifact())
	require.ErrorContains(t, err, "s3 client error")
}

func TestS3ExporterUploadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origPut := putObject
	defer func() {
		loadDefaultAWSConfig = origLoad
		putObject = origPut
	}()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}

	err := newTestS3Exporter().Export(context.Background(), "req-1", testArtifact())
	require.ErrorContains(t, err, "artifact upload error")
}
