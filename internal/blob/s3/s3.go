// Package s3 implements blob storage on Amazon S3 or S3-compatible services.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofrs/uuid/v5"
)

// Client is the subset of the S3 API the store needs. *s3.Client satisfies it.
type Client interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
}

// Store writes payloads as objects named <prefix><uuid> in a single bucket.
// The bucket must already exist.
type Store struct {
	client    Client
	bucket    string
	keyPrefix string
}

// New constructs the store.
func New(client Client, bucket, keyPrefix string) *Store {
	return &Store{client: client, bucket: bucket, keyPrefix: keyPrefix}
}

// Write uploads data under a fresh key and returns the key.
func (s *Store) Write(ctx context.Context, data []byte) (string, error) {
	name, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	key := s.keyPrefix + name.String()
	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

// Ping verifies the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
