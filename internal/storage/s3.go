// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/silentvoice/sanctuary/internal/config"
)

// imageCacheControl marks stored images immutable; keys embed a timestamp
// and a UUID, so a key never changes content.
const imageCacheControl = "public, max-age=31536000, immutable"

// S3Store stores poem images in an S3-compatible bucket (R2 in production).
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Store creates a store against the configured endpoint using static
// credentials.
func NewS3Store(ctx context.Context, cfg *config.StorageConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}),
		awsconfig.WithBaseEndpoint(cfg.Endpoint),
		awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	return &S3Store{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

// Put uploads an object under the given key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(imageCacheControl),
	})
	return err
}

// Remove deletes an object by key.
func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// PublicURL resolves a stored key to its public URL, or "" when no public
// base is configured.
func (s *S3Store) PublicURL(key string) string {
	return publicURL(s.publicURL, key)
}
