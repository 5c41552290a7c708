package supabase

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// Storage keeps event images in a public Supabase bucket.
type Storage struct {
	client *storage_go.Client
	bucket string
}

func New(projectURL, key, bucket string) *Storage {
	return &Storage{
		client: storage_go.NewClient(strings.TrimSuffix(projectURL, "/")+"/storage/v1", key, nil),
		bucket: bucket,
	}
}

// Upload stores the object at path and returns its public URL.
func (s *Storage) Upload(_ context.Context, path string, r io.Reader, contentType string) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, path, r, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return s.client.GetPublicUrl(s.bucket, path).SignedURL, nil
}

func (s *Storage) Remove(_ context.Context, path string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{path}); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
