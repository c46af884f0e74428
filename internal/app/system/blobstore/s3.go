// internal/app/system/blobstore/s3.go
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures an S3-compatible backend.
type S3Config struct {
	Endpoint  string // e.g. https://<project>.supabase.co/storage/v1/s3; empty uses AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base for browser-facing URLs, e.g.
	// https://<project>.supabase.co/storage/v1/object/public/<bucket>.
	// When empty, <Endpoint>/<Bucket> is used.
	PublicURL string
}

// S3 stores objects in one bucket of an S3-compatible service.
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3 builds a client from static credentials. It does not contact the
// service.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	public := cfg.PublicURL
	if public == "" {
		if cfg.Endpoint != "" {
			public = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	return &S3{client: client, bucket: cfg.Bucket, publicURL: public}, nil
}

func (s *S3) List(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var out []ObjectMeta
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list %s: %w", prefix, err)
		}
		for _, cp := range page.CommonPrefixes {
			key := aws.ToString(cp.Prefix)
			out = append(out, ObjectMeta{Name: Base(key), Path: key, IsDir: true})
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			out = append(out, ObjectMeta{
				Name:      Base(key),
				Path:      key,
				Size:      aws.ToInt64(obj.Size),
				UpdatedAt: aws.ToTime(obj.LastModified),
				IsDir:     strings.HasSuffix(key, "/"),
			})
		}
	}
	return out, nil
}

func (s *S3) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (ObjectMeta, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
		Body:   r,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return ObjectMeta{}, fmt.Errorf("s3: put %s: %w", path, err)
	}
	return ObjectMeta{
		Name:        Base(path),
		Path:        path,
		Size:        size,
		ContentType: contentType,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

// Remove deletes the object at path. DeleteObject succeeds for missing keys,
// so the object is checked with HeadObject first to report ErrNotFound like
// the other backends.
func (s *S3) Remove(ctx context.Context, path string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("s3: delete %s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("s3: head %s: %w", path, err)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %s: %w", path, err)
	}
	return nil
}

func (s *S3) Open(ctx context.Context, path string) (io.ReadCloser, ObjectMeta, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ObjectMeta{}, fmt.Errorf("s3: get %s: %w", path, ErrNotFound)
		}
		return nil, ObjectMeta{}, fmt.Errorf("s3: get %s: %w", path, err)
	}
	return out.Body, ObjectMeta{
		Name:        Base(path),
		Path:        path,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		UpdatedAt:   aws.ToTime(out.LastModified),
	}, nil
}

// isS3NotFound reports a missing key. GetObject answers NoSuchKey, HeadObject
// has no body and surfaces as NotFound or a bare 404.
func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

func (s *S3) PublicURL(path string) string {
	return joinURL(s.publicURL, path)
}
