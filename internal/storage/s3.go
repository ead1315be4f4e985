// Package storage provides the media upload adapter backed by an
// S3-compatible object store (AWS S3, MinIO, or anything speaking the API).
//
// The adapter is upload-only: callers hand it opaque bytes and get back a
// public URL. It never inspects or transforms the content, and it offers no
// delete — replaced assets are simply superseded.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/xid"
)

// Config holds the object-store settings, injected from the composition root.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // base endpoint, e.g. "http://127.0.0.1:9000" for MinIO
	AccessKey string
	SecretKey string
	// PublicBaseURL is the prefix of the URL returned for uploaded objects.
	// Empty means "<Endpoint>/<Bucket>".
	PublicBaseURL string
}

// S3Store uploads media to a single bucket and returns public URLs.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// New builds an S3Store from the given config.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: loading S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and most self-hosted stores route by path, not by
			// bucket subdomain.
			o.UsePathStyle = true
		}
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(base, "/"),
	}, nil
}

// Upload stores content under a fresh key in the given folder and returns
// its public URL. The original filename contributes only its extension; the
// key itself is an xid so uploads never collide or overwrite each other.
func (s *S3Store) Upload(ctx context.Context, content []byte, folder, filename, contentType string) (string, error) {
	key := objectKey(folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: uploading %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}

func objectKey(folder, filename string) string {
	ext := path.Ext(filename)
	name := xid.New().String() + ext
	if folder == "" {
		return name
	}
	return strings.Trim(folder, "/") + "/" + name
}
