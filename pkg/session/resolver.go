package session

import (
	"context"
	"errors"
	"fmt"

	"bat-monitor-be/pkg/remotestore"
)

var (
	// ErrNotFound means the store answered and holds no matching folder.
	ErrNotFound = errors.New("session: folder not found")
	// ErrStoreUnreachable wraps any failure talking to the store.
	ErrStoreUnreachable = errors.New("session: remote store unreachable")
)

type Resolver struct {
	store remotestore.Store
}

func NewResolver(store remotestore.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve issues exactly one folder lookup for the key's canonical name.
// When the store holds duplicates the provider's first result is returned.
func (r *Resolver) Resolve(ctx context.Context, key Key) (*remotestore.Container, error) {
	name := key.CanonicalName()

	folder, err := r.store.FindFolder(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: find %s: %v", ErrStoreUnreachable, name, err)
	}
	if folder == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return folder, nil
}

// ListAssets lists the container's children with one query and buckets
// them by role.
func (r *Resolver) ListAssets(ctx context.Context, container remotestore.Container) (AssetBundle, error) {
	files, err := r.store.ListChildren(ctx, container.ID)
	if err != nil {
		return AssetBundle{}, fmt.Errorf("%w: list %s: %v", ErrStoreUnreachable, container.Name, err)
	}
	return ClassifyFiles(files), nil
}
