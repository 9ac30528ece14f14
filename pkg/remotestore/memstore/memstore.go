// Package memstore is an in-memory remotestore.Store. It keeps insertion
// order, which makes it the provider of choice for tests and local runs.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"sync"
	"time"

	"bat-monitor-be/pkg/remotestore"

	"github.com/google/uuid"
)

type object struct {
	id        string
	name      string
	mediaType string
	parent    string
	data      []byte
	trashed   bool
	createdAt time.Time
	updatedAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	objects []*object
	failErr error
	now     func() time.Time
}

var _ remotestore.Store = (*Store)(nil)

func New() *Store {
	return &Store{now: time.Now}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// AddFolder creates a folder at the root. Names are not unique.
func (s *Store) AddFolder(name string) remotestore.Container {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.insert(name, remotestore.FolderMediaType, "root", nil)
	return toContainer(o)
}

func (s *Store) AddFile(containerID, name string, data []byte) remotestore.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.insert(name, mediaTypeOf(name), containerID, data)
	return toFile(o)
}

// Trash hides an object from every query without deleting it.
func (s *Store) Trash(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.lookup(id); o != nil {
		o.trashed = true
	}
}

func (s *Store) FindFolder(ctx context.Context, name string) (*remotestore.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	for _, o := range s.objects {
		if o.trashed || o.mediaType != remotestore.FolderMediaType {
			continue
		}
		if o.name == name {
			c := toContainer(o)
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) ListChildren(ctx context.Context, containerID string) ([]remotestore.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	files := []remotestore.File{}
	for _, o := range s.objects {
		if o.trashed || o.parent != containerID {
			continue
		}
		files = append(files, toFile(o))
	}
	return files, nil
}

func (s *Store) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	o := s.lookup(fileID)
	if o == nil || o.trashed || o.mediaType == remotestore.FolderMediaType {
		return nil, fmt.Errorf("fetch %s: %w", fileID, remotestore.ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(o.data)), nil
}

func (s *Store) ListFolders(ctx context.Context) ([]remotestore.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	folders := []remotestore.Container{}
	for _, o := range s.objects {
		if !o.trashed && o.mediaType == remotestore.FolderMediaType {
			folders = append(folders, toContainer(o))
		}
	}
	return folders, nil
}

func (s *Store) ListRoot(ctx context.Context) ([]remotestore.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	items := []remotestore.Item{}
	for _, o := range s.objects {
		if o.trashed || o.parent != "root" {
			continue
		}
		items = append(items, remotestore.Item{
			ID:         o.id,
			Title:      o.name,
			MediaType:  o.mediaType,
			CreatedAt:  o.createdAt,
			ModifiedAt: o.updatedAt,
			Parents:    []string{o.parent},
		})
	}
	return items, nil
}

func (s *Store) Upload(ctx context.Context, containerID, name string, r io.Reader) (*remotestore.File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	parent := s.lookup(containerID)
	if parent == nil || parent.trashed || parent.mediaType != remotestore.FolderMediaType {
		return nil, fmt.Errorf("upload into %s: %w", containerID, remotestore.ErrObjectNotFound)
	}

	f := toFile(s.insert(name, mediaTypeOf(name), containerID, data))
	return &f, nil
}

func (s *Store) insert(name, mediaType, parent string, data []byte) *object {
	now := s.now()
	o := &object{
		id:        uuid.NewString(),
		name:      name,
		mediaType: mediaType,
		parent:    parent,
		data:      data,
		createdAt: now,
		updatedAt: now,
	}
	s.objects = append(s.objects, o)
	return o
}

func (s *Store) lookup(id string) *object {
	for _, o := range s.objects {
		if o.id == id {
			return o
		}
	}
	return nil
}

func mediaTypeOf(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func toContainer(o *object) remotestore.Container {
	return remotestore.Container{ID: o.id, Name: o.name, ModifiedAt: o.updatedAt}
}

func toFile(o *object) remotestore.File {
	return remotestore.File{
		ID:         o.id,
		Name:       o.name,
		MediaType:  o.mediaType,
		Size:       int64(len(o.data)),
		ModifiedAt: o.updatedAt,
	}
}
