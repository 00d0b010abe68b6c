package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Settings locates the catalog object in an S3-compatible store (MinIO in
// development).
type S3Settings struct {
	AccessKey    string
	SecretKey    string
	Region       string
	BaseEndpoint string
	Bucket       string
	Key          string
}

// S3Catalog reads the catalog JSON from a single object.
type S3Catalog struct {
	client objectGetter
	bucket string
	key    string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Catalog builds an S3 client with static credentials and path-style
// addressing.
func NewS3Catalog(ctx context.Context, s S3Settings) (*S3Catalog, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newS3Catalog(client, s.Bucket, s.Key), nil
}

func newS3Catalog(client objectGetter, bucket, key string) *S3Catalog {
	return &S3Catalog{client: client, bucket: bucket, key: key}
}

func (c *S3Catalog) List(ctx context.Context) ([]Book, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", c.bucket, c.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", c.bucket, c.key, err)
	}
	return decode(data)
}
