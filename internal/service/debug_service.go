package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/events"
	"bat-monitor-be/pkg/remotestore"
	"bat-monitor-be/pkg/session"
)

const sensorUploadName = "Sensor.txt"

type IDebugService interface {
	ListFolders(ctx context.Context) (*dto.FoldersResponse, error)
	ListItems(ctx context.Context) (*dto.ItemsResponse, error)
	DownloadSession(ctx context.Context, q dto.SessionQuery) (*dto.DownloadResponse, error)
	UploadSampleSensor(ctx context.Context, q dto.SessionQuery) (*dto.UploadSensorResponse, error)
}

type debugService struct {
	sessionLocator
	store            remotestore.Store
	downloadDir      string
	sampleSensorPath string
}

func NewDebugService(
	store remotestore.Store,
	downloadDir, sampleSensorPath string,
	publisher events.Publisher,
	collector *metrics.Collector,
	log logger.ILogger,
) IDebugService {
	return &debugService{
		sessionLocator: sessionLocator{
			resolver:  session.NewResolver(store),
			publisher: publisher,
			metrics:   collector,
			logger:    log,
		},
		store:            store,
		downloadDir:      downloadDir,
		sampleSensorPath: sampleSensorPath,
	}
}

func (s *debugService) ListFolders(ctx context.Context) (*dto.FoldersResponse, error) {
	folders, err := s.store.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	if folders == nil {
		folders = []remotestore.Container{}
	}
	s.logger.Info("DEBUG", "Listed folders", map[string]interface{}{"count": len(folders)})
	return &dto.FoldersResponse{Success: true, TotalFolders: len(folders), Folders: folders}, nil
}

func (s *debugService) ListItems(ctx context.Context) (*dto.ItemsResponse, error) {
	items, err := s.store.ListRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("list root items: %w", err)
	}
	if items == nil {
		items = []remotestore.Item{}
	}
	s.logger.Info("DEBUG", "Listed root items", map[string]interface{}{"count": len(items)})
	return &dto.ItemsResponse{Success: true, TotalItems: len(items), Items: items}, nil
}

// DownloadSession copies every file of a session into
// <downloadDir>/<folder name>/. A file that fails to download is logged and
// left out of the response.
func (s *debugService) DownloadSession(ctx context.Context, q dto.SessionQuery) (*dto.DownloadResponse, error) {
	key := q.Key()
	dirName := key.CanonicalName()
	if !filepath.IsLocal(dirName) || filepath.Base(dirName) != dirName {
		return nil, fmt.Errorf("%w: %q", ErrUnsafeFolderName, dirName)
	}

	folder, err := s.locate(ctx, key)
	if err != nil {
		return nil, err
	}

	files, err := s.store.ListChildren(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder.Name, err)
	}

	localFolder := filepath.Join(s.downloadDir, dirName)
	if err := os.MkdirAll(localFolder, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", localFolder, err)
	}

	downloaded := make([]dto.DownloadedFile, 0, len(files))
	for _, f := range files {
		localPath := filepath.Join(localFolder, filepath.Base(f.Name))
		if err := s.downloadTo(ctx, f.ID, localPath); err != nil {
			s.logger.Error("DEBUG", "Error downloading file", map[string]interface{}{
				"file_id": f.ID,
				"name":    f.Name,
				"error":   err.Error(),
			})
			continue
		}
		downloaded = append(downloaded, dto.DownloadedFile{
			OriginalName: f.Name,
			LocalPath:    localPath,
			FileID:       f.ID,
		})
	}

	s.logger.Info("DEBUG", "Downloaded session files", map[string]interface{}{
		"folder_name": folder.Name,
		"downloaded":  len(downloaded),
		"total":       len(files),
	})

	return &dto.DownloadResponse{
		Success:         true,
		FolderName:      folder.Name,
		TotalFiles:      len(files),
		DownloadedFiles: downloaded,
		LocalFolder:     localFolder,
	}, nil
}

func (s *debugService) downloadTo(ctx context.Context, fileID, localPath string) error {
	rc, err := s.store.Fetch(ctx, fileID)
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (s *debugService) UploadSampleSensor(ctx context.Context, q dto.SessionQuery) (*dto.UploadSensorResponse, error) {
	folder, err := s.locate(ctx, q.Key())
	if err != nil {
		return nil, err
	}

	sample, err := os.Open(s.sampleSensorPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSampleSensorMissing
		}
		return nil, fmt.Errorf("open sample sensor: %w", err)
	}
	defer sample.Close()

	file, err := s.store.Upload(ctx, folder.ID, sensorUploadName, sample)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", sensorUploadName, err)
	}

	s.logger.Info("DEBUG", "Uploaded sample sensor file", map[string]interface{}{
		"folder_name": folder.Name,
		"file_id":     file.ID,
	})

	return &dto.UploadSensorResponse{
		Success:  true,
		Message:  fmt.Sprintf("%s uploaded to %s", sensorUploadName, folder.Name),
		FileID:   file.ID,
		FolderID: folder.ID,
	}, nil
}
