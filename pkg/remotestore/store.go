// Package remotestore describes the remote folder/file hierarchy that session
// recordings are uploaded into. Providers live in sub-packages.
package remotestore

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Fetch and Upload when the referenced
// object does not exist.
var ErrObjectNotFound = errors.New("remotestore: object not found")

// FolderMediaType is the media type reported for folder-like containers.
const FolderMediaType = "application/vnd.google-apps.folder"

// Container is a folder-like grouping of files. The store owns it; callers
// only read it.
type Container struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modifiedDate"`
}

// File is a read-only view of a stored object. Bytes are fetched separately.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MediaType  string    `json:"mimeType"`
	Size       int64     `json:"size,omitempty"`
	ModifiedAt time.Time `json:"modifiedDate"`
}

// Item is the detailed listing entry used by the debug endpoints.
type Item struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	MediaType  string    `json:"mimeType"`
	CreatedAt  time.Time `json:"createdDate"`
	ModifiedAt time.Time `json:"modifiedDate"`
	Parents    []string  `json:"parents"`
}

// Store is the remote store client contract.
//
// FindFolder returns (nil, nil) when no non-trashed folder carries exactly
// the given name. When several do, the first one in provider response order
// is returned. Errors are reserved for communication or auth failures.
type Store interface {
	FindFolder(ctx context.Context, name string) (*Container, error)
	ListChildren(ctx context.Context, containerID string) ([]File, error)
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)

	ListFolders(ctx context.Context) ([]Container, error)
	ListRoot(ctx context.Context) ([]Item, error)
	Upload(ctx context.Context, containerID, name string, r io.Reader) (*File, error)
}
