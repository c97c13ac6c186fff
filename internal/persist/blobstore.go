package persist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobStore is the destination a FramedSink spools its bytes to once a
// stream closes. Adapted from the teacher's pkg/storage.BlobStore; List is
// dropped since the inspect TUI locates run output through the wrapper
// message's recorded paths, not directory listing.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// LocalStore implements BlobStore on the local filesystem, grounded on
// pkg/storage/local.go.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore { return &LocalStore{Root: root} }

func (s *LocalStore) Put(_ context.Context, key string, data []byte) error {
	path := filepath.Join(s.Root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persist: create output directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Root, key))
}

// S3Store implements BlobStore on AWS S3, grounded on pkg/storage/s3.go.
type S3Store struct {
	Client *s3.Client
	Bucket string
}

func NewS3Store(cfg aws.Config, bucket string) *S3Store {
	return &S3Store{Client: s3.NewFromConfig(cfg), Bucket: bucket}
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("persist: upload %q to s3: %w", key, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("persist: download %q from s3: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
