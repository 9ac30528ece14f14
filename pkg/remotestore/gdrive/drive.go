// Package gdrive implements remotestore.Store on the Google Drive v3 API.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bat-monitor-be/pkg/remotestore"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Drive returns at most 1000 entries per page. Listings are a single page.
const pageSize = 1000

type Store struct {
	svc *drive.Service
}

var _ remotestore.Store = (*Store)(nil)

// New builds a store that authenticates as the user behind the token source.
func New(ctx context.Context, src oauth2.TokenSource) (*Store, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, src)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Store{svc: svc}, nil
}

// NewWithServiceAccount builds a store from a service account key.
func NewWithServiceAccount(ctx context.Context, key []byte) (*Store, error) {
	creds, err := google.CredentialsFromJSON(ctx, key, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	svc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Store{svc: svc}, nil
}

func (s *Store) FindFolder(ctx context.Context, name string) (*remotestore.Container, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(name), remotestore.FolderMediaType)

	res, err := s.svc.Files.List().
		Q(q).
		Fields("files(id, name, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search folder %q: %w", name, err)
	}
	if len(res.Files) == 0 {
		return nil, nil
	}

	f := res.Files[0]
	return &remotestore.Container{
		ID:         f.Id,
		Name:       f.Name,
		ModifiedAt: parseTime(f.ModifiedTime),
	}, nil
}

func (s *Store) ListChildren(ctx context.Context, containerID string) ([]remotestore.File, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(containerID))

	res, err := s.svc.Files.List().
		Q(q).
		PageSize(pageSize).
		Fields("files(id, name, mimeType, size, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", containerID, err)
	}

	files := make([]remotestore.File, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, remotestore.File{
			ID:         f.Id,
			Name:       f.Name,
			MediaType:  f.MimeType,
			Size:       f.Size,
			ModifiedAt: parseTime(f.ModifiedTime),
		})
	}
	return files, nil
}

func (s *Store) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("fetch %s: %w", fileID, remotestore.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("fetch %s: %w", fileID, err)
	}
	return resp.Body, nil
}

func (s *Store) ListFolders(ctx context.Context) ([]remotestore.Container, error) {
	q := fmt.Sprintf("mimeType = '%s' and trashed = false", remotestore.FolderMediaType)

	res, err := s.svc.Files.List().
		Q(q).
		PageSize(pageSize).
		Fields("files(id, name, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	folders := make([]remotestore.Container, 0, len(res.Files))
	for _, f := range res.Files {
		folders = append(folders, remotestore.Container{
			ID:         f.Id,
			Name:       f.Name,
			ModifiedAt: parseTime(f.ModifiedTime),
		})
	}
	return folders, nil
}

func (s *Store) ListRoot(ctx context.Context) ([]remotestore.Item, error) {
	res, err := s.svc.Files.List().
		Q("'root' in parents and trashed = false").
		PageSize(pageSize).
		Fields("files(id, name, mimeType, createdTime, modifiedTime, parents)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list root: %w", err)
	}

	items := make([]remotestore.Item, 0, len(res.Files))
	for _, f := range res.Files {
		items = append(items, remotestore.Item{
			ID:         f.Id,
			Title:      f.Name,
			MediaType:  f.MimeType,
			CreatedAt:  parseTime(f.CreatedTime),
			ModifiedAt: parseTime(f.ModifiedTime),
			Parents:    f.Parents,
		})
	}
	return items, nil
}

func (s *Store) Upload(ctx context.Context, containerID, name string, r io.Reader) (*remotestore.File, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{containerID},
	}

	f, err := s.svc.Files.Create(meta).
		Media(r).
		Fields("id, name, mimeType, size, modifiedTime").
		Context(ctx).
		Do()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("upload into %s: %w", containerID, remotestore.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("upload %s into %s: %w", name, containerID, err)
	}

	return &remotestore.File{
		ID:         f.Id,
		Name:       f.Name,
		MediaType:  f.MimeType,
		Size:       f.Size,
		ModifiedAt: parseTime(f.ModifiedTime),
	}, nil
}

// escapeQuery quotes a value for the Drive query language. The name itself
// is not altered.
func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
