package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/events"
	"bat-monitor-be/pkg/remotestore"
	"bat-monitor-be/pkg/session"
)

// maxSpectrogramBytes caps how much of a spectrogram is read into memory.
const maxSpectrogramBytes = 32 << 20

type IBatService interface {
	GetFiles(ctx context.Context, q dto.SessionQuery) (*dto.BatFilesResponse, error)
	ClassifySession(ctx context.Context, q dto.SessionQuery) (*dto.SessionClassificationResponse, error)
}

type batService struct {
	sessionLocator
	store    remotestore.Store
	species  ISpeciesService
	maxFetch int64
}

func NewBatService(
	store remotestore.Store,
	species ISpeciesService,
	publisher events.Publisher,
	collector *metrics.Collector,
	log logger.ILogger,
) IBatService {
	return &batService{
		sessionLocator: sessionLocator{
			resolver:  session.NewResolver(store),
			publisher: publisher,
			metrics:   collector,
			logger:    log,
		},
		store:    store,
		species:  species,
		maxFetch: maxSpectrogramBytes,
	}
}

func (s *batService) GetFiles(ctx context.Context, q dto.SessionQuery) (*dto.BatFilesResponse, error) {
	folder, err := s.locate(ctx, q.Key())
	if err != nil {
		return nil, err
	}

	bundle, err := s.assets(ctx, folder)
	if err != nil {
		return nil, err
	}

	return &dto.BatFilesResponse{
		Success:    true,
		FolderName: folder.Name,
		FolderID:   folder.ID,
		Files:      dto.NewOrganizedFiles(bundle),
	}, nil
}

func (s *batService) ClassifySession(ctx context.Context, q dto.SessionQuery) (*dto.SessionClassificationResponse, error) {
	key := q.Key()

	folder, err := s.locate(ctx, key)
	if err != nil {
		return nil, err
	}

	bundle, err := s.assets(ctx, folder)
	if err != nil {
		return nil, err
	}
	if bundle.Spectrogram == nil {
		s.logger.Warn("SESSION", "Folder has no spectrogram", map[string]interface{}{
			"folder_name": folder.Name,
			"files":       bundle.Count(),
		})
		return nil, fmt.Errorf("%s: %w", folder.Name, ErrSpectrogramMissing)
	}

	raw, err := s.fetch(ctx, bundle.Spectrogram.ID)
	if err != nil {
		return nil, err
	}

	result, err := s.species.Classify(ctx, raw, q.Raw, ClassifyMeta{Key: key, FileID: bundle.Spectrogram.ID})
	if err != nil {
		return nil, err
	}

	return &dto.SessionClassificationResponse{
		Success:        true,
		FolderName:     folder.Name,
		FolderID:       folder.ID,
		SpectrogramID:  bundle.Spectrogram.ID,
		SpectrogramURL: FileURL(bundle.Spectrogram.ID, bundle.Spectrogram.Name),
		Classification: *result,
	}, nil
}

func (s *batService) fetch(ctx context.Context, fileID string) ([]byte, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore("fetch", time.Since(start)) }()

	rc, err := s.store.Fetch(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("fetch spectrogram %s: %w", fileID, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, s.maxFetch+1))
	if err != nil {
		return nil, fmt.Errorf("read spectrogram %s: %w", fileID, err)
	}
	if int64(len(raw)) > s.maxFetch {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrSpectrogramTooLarge, fileID, s.maxFetch)
	}
	return raw, nil
}

// FileURL is the proxy path serving a stored file.
func FileURL(fileID, name string) string {
	return "/api/file/" + url.PathEscape(fileID) + "?name=" + url.QueryEscape(name)
}
