package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/remotestore"
)

const defaultFileName = "file"

type IFileService interface {
	// Open streams a stored file. name only picks the media type and the
	// download name; it is not checked against the stored object.
	Open(ctx context.Context, fileID, name string) (io.ReadCloser, string, error)
}

type fileService struct {
	store  remotestore.Store
	logger logger.ILogger
}

func NewFileService(store remotestore.Store, log logger.ILogger) IFileService {
	return &fileService{store: store, logger: log}
}

func (s *fileService) Open(ctx context.Context, fileID, name string) (io.ReadCloser, string, error) {
	rc, err := s.store.Fetch(ctx, fileID)
	if err != nil {
		s.logger.Error("FILE", "Error downloading file", map[string]interface{}{
			"file_id": fileID,
			"error":   err.Error(),
		})
		return nil, "", fmt.Errorf("download %s: %w", fileID, err)
	}
	return rc, MediaTypeFor(name), nil
}

// MediaTypeFor maps a file name's extension to the Content-Type the proxy
// serves; unknown extensions are served as octet-stream.
func MediaTypeFor(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".txt"):
		return "text/plain"
	case strings.HasSuffix(lower, ".wav"):
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

// DownloadName falls back to "file" when the caller gave no name.
func DownloadName(name string) string {
	if name == "" {
		return defaultFileName
	}
	return name
}
