package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Source reads documents from an S3 bucket. The client is supplied
// by the caller, so credentials, region, and endpoint stay under the
// application's control.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Source returns a source reading objects under prefix in bucket.
func NewS3Source(client *s3.Client, bucket, prefix string) *S3Source {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// NewPublicS3Source returns a source for a publicly readable bucket,
// using unsigned requests. A non-empty endpoint overrides the AWS
// destination (MinIO and friends) and switches to path-style addressing.
func NewPublicS3Source(endpoint, region, bucket, prefix string) *S3Source {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return NewS3Source(s3.New(opts), bucket, prefix)
}

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context, docPath string) ([]byte, error) {
	rel, err := relDocPath(docPath)
	if err != nil {
		return nil, err
	}
	key := s.prefix + rel

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrDocNotFound, docPath)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocSize+1))
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	if len(data) > maxDocSize {
		return nil, fmt.Errorf("get s3://%s/%s: object exceeds %d bytes", s.bucket, key, maxDocSize)
	}
	return data, nil
}

// Name implements Source.
func (s *S3Source) Name() string { return "s3" }
