package aol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures the opt-in BackendS3 file backend.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // custom endpoint for S3-compatible storage (MinIO, etc.)
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool // required for MinIO
}

// s3FileBackend models one log file shard as a single S3 object:
// "<prefix>/<shard>.log". Object storage has no append verb, so appends
// buffer the whole object in memory and replace it on every write. The
// PutObject round-trip completing *is* this backend's fsync-class barrier.
type s3FileBackend struct {
	cfg S3Config
	key string

	mu     sync.Mutex
	client *s3.Client
	buf    []byte
}

func openS3FileBackend(ctx context.Context, cfg S3Config, shardIndex int) (*s3FileBackend, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aol: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	key := fmt.Sprintf("%s/%d.log", strings.TrimSuffix(cfg.Prefix, "/"), shardIndex)
	b := &s3FileBackend{cfg: cfg, key: key, client: client}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(cfg.Bucket), Key: aws.String(key)})
	if err == nil {
		defer out.Body.Close()
		data, readErr := io.ReadAll(out.Body)
		if readErr != nil {
			return nil, fmt.Errorf("aol: read existing s3 object %s: %w", key, readErr)
		}
		b.buf = data
	}
	// A missing object is not an error: this shard starts with an empty log.
	return b, nil
}

func (b *s3FileBackend) Append(frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	grown := append(append([]byte(nil), b.buf...), frame...)
	_, err := b.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(b.key),
		Body:   bytes.NewReader(grown),
	})
	if err != nil {
		return err
	}
	b.buf = grown
	return nil
}

func (b *s3FileBackend) ReadAll() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...), nil
}

func (b *s3FileBackend) Close() error { return nil }
