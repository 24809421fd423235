package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// SupabaseStorage uploads and deletes media objects through the Supabase
// storage REST API. There is no official Go SDK for it; this is the whole
// surface the portal needs.
type SupabaseStorage struct {
	URL            string
	ServiceRoleKey string
	Bucket         string
	client         *http.Client
}

// NewSupabaseStorage creates a new storage client
func NewSupabaseStorage(url, serviceRoleKey, bucket string) *SupabaseStorage {
	return &SupabaseStorage{
		URL:            strings.TrimRight(url, "/"),
		ServiceRoleKey: serviceRoleKey,
		Bucket:         bucket,
		client:         &http.Client{},
	}
}

// Upload stores an object under a fresh uuid name and returns its public
// URL.
func (s *SupabaseStorage) Upload(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	objectName := uuid.New().String() + ext

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.URL, s.Bucket, objectName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceRoleKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return s.PublicURL(objectName), nil
}

// Delete removes an object from the bucket
func (s *SupabaseStorage) Delete(ctx context.Context, objectName string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.URL, s.Bucket, objectName)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceRoleKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// PublicURL returns the public URL for an object name
func (s *SupabaseStorage) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.URL, s.Bucket, objectName)
}

// ObjectNameFromURL extracts the object name from a public URL produced by
// PublicURL. Returns false for URLs outside this bucket.
func (s *SupabaseStorage) ObjectNameFromURL(publicURL string) (string, bool) {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", s.URL, s.Bucket)
	name, ok := strings.CutPrefix(publicURL, prefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
