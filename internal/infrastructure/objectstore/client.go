package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/config"
)

// keyTimeLayout is the timestamp embedded in object keys.
const keyTimeLayout = "20060102T150405Z"

// putObjectAPI is the subset of *s3.Client used here.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads files to one bucket.
type Client struct {
	api    putObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// New builds an S3 client from config. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg config.S3Config) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	var opts []func(*awsconfig.LoadOptions) error
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
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return newClient(api, cfg.Bucket, cfg.Prefix), nil
}

func newClient(api putObjectAPI, bucket, prefix string) *Client {
	return &Client{
		api:    api,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// Bucket returns the target bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// UploadFile uploads the file at localPath and returns the object key.
func (c *Client) UploadFile(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath) //nolint:gosec // path comes from config
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	key := objectKey(c.prefix, localPath, c.now())

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s/%s: %w", ErrUploadFailed, c.bucket, key, err)
	}
	return key, nil
}

// objectKey builds prefix/name-YYYYMMDDTHHMMSSZ.ext.
func objectKey(prefix, localPath string, at time.Time) string {
	base := filepath.Base(localPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := stem + "-" + at.UTC().Format(keyTimeLayout) + ext

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func contentType(localPath string) string {
	if strings.EqualFold(filepath.Ext(localPath), ".json") {
		return "application/json"
	}
	return "application/octet-stream"
}
