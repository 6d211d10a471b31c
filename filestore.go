package connector

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// FileStore is the flat-file boundary the delimited, JSON and XLSX handlers
// share: whole-content read, whole-content replace, and a display name for
// schema inference.
type FileStore interface {
	Read(ctx context.Context, fileID string) ([]byte, error)
	Write(ctx context.Context, fileID string, data []byte, mimeType string) error
	Name(ctx context.Context, fileID string) (string, error)
}

type driveStore struct {
	service *drive.Service
}

// NewDriveStore creates a FileStore backed by the Google Drive API.
func NewDriveStore(service *drive.Service) FileStore {
	return &driveStore{service: service}
}

func (s *driveStore) Read(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

func (s *driveStore) Write(ctx context.Context, fileID string, data []byte, mimeType string) error {
	_, err := s.service.Files.Update(fileID, &drive.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update file %s: %w", fileID, err)
	}
	return nil
}

func (s *driveStore) Name(ctx context.Context, fileID string) (string, error) {
	f, err := s.service.Files.Get(fileID).Fields("name").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get file metadata %s: %w", fileID, err)
	}
	return f.Name, nil
}
