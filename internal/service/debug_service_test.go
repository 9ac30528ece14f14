package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/events"
	"bat-monitor-be/pkg/remotestore/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebug(t *testing.T, store *memstore.Store, sample string) (IDebugService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewDebugService(store, dir, sample, events.Nop{}, metrics.NewCollector(), logger.NewNopLogger()), dir
}

func TestDebugService_Listings(t *testing.T) {
	store := memstore.New()
	store.AddFolder("SERVER1_CLIENT1_1")
	store.AddFolder("SERVER1_CLIENT1_2")

	svc, _ := newDebug(t, store, "")

	folders, err := svc.ListFolders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, folders.TotalFolders)

	items, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, items.TotalItems)
}

func TestDebugService_DownloadSession(t *testing.T) {
	store := memstore.New()
	folder := store.AddFolder("SERVER1_CLIENT1_121")
	store.AddFile(folder.ID, "Sensor.txt", []byte("t=20"))
	store.AddFile(folder.ID, "../escape.txt", []byte("nope"))

	svc, dir := newDebug(t, store, "")

	res, err := svc.DownloadSession(context.Background(), dto.SessionQuery{BatID: "BAT121", Server: "1", Client: "1"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "SERVER1_CLIENT1_121"), res.LocalFolder)
	assert.Equal(t, 2, res.TotalFiles)
	require.Len(t, res.DownloadedFiles, 2)

	got, err := os.ReadFile(filepath.Join(res.LocalFolder, "Sensor.txt"))
	require.NoError(t, err)
	assert.Equal(t, "t=20", string(got))

	// Names are flattened into the session folder.
	_, err = os.Stat(filepath.Join(res.LocalFolder, "escape.txt"))
	assert.NoError(t, err)
}

func TestDebugService_DownloadSessionStaysInDownloadDir(t *testing.T) {
	store := memstore.New()
	folder := store.AddFolder("SERVER1_CLIENT1_../../outside")
	store.AddFile(folder.ID, "Sensor.txt", []byte("t=20"))

	root := t.TempDir()
	dir := filepath.Join(root, "downloads")
	svc := NewDebugService(store, dir, "", events.Nop{}, metrics.NewCollector(), logger.NewNopLogger())

	_, err := svc.DownloadSession(context.Background(), dto.SessionQuery{BatID: "../../outside", Server: "1", Client: "1"})
	assert.ErrorIs(t, err, ErrUnsafeFolderName)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDebugService_UploadSampleSensor(t *testing.T) {
	sample := filepath.Join(t.TempDir(), "sample_sensor.txt")
	require.NoError(t, os.WriteFile(sample, []byte("humidity=80"), 0o644))

	store := memstore.New()
	folder := store.AddFolder("SERVER1_CLIENT1_121")

	svc, _ := newDebug(t, store, sample)
	res, err := svc.UploadSampleSensor(context.Background(), dto.SessionQuery{BatID: "121", Server: "1", Client: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Sensor.txt uploaded to SERVER1_CLIENT1_121", res.Message)
	assert.Equal(t, folder.ID, res.FolderID)

	rc, err := store.Fetch(context.Background(), res.FileID)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "humidity=80", string(body))
}

func TestDebugService_UploadSampleSensorMissing(t *testing.T) {
	store := memstore.New()
	store.AddFolder("SERVER1_CLIENT1_121")

	svc, _ := newDebug(t, store, filepath.Join(t.TempDir(), "absent.txt"))
	_, err := svc.UploadSampleSensor(context.Background(), dto.SessionQuery{BatID: "121", Server: "1", Client: "1"})
	assert.ErrorIs(t, err, ErrSampleSensorMissing)
}
