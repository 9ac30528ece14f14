package service

import (
	"context"
	"errors"
	"time"

	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/events"
	"bat-monitor-be/pkg/remotestore"
	"bat-monitor-be/pkg/session"
)

// sessionLocator runs the resolver and turns both failure kinds into a
// FolderNotFoundError, logging which one it was.
type sessionLocator struct {
	resolver  *session.Resolver
	publisher events.Publisher
	metrics   *metrics.Collector
	logger    logger.ILogger
}

func (l *sessionLocator) locate(ctx context.Context, key session.Key) (*remotestore.Container, error) {
	name := key.CanonicalName()

	start := time.Now()
	folder, err := l.resolver.Resolve(ctx, key)
	l.metrics.ObserveStore("find_folder", time.Since(start))

	if err == nil {
		l.metrics.RecordResolution(metrics.OutcomeOK)
		l.logger.Info("SESSION", "Found folder", map[string]interface{}{
			"folder_name": name,
			"folder_id":   folder.ID,
		})
		return folder, nil
	}

	unreachable := errors.Is(err, session.ErrStoreUnreachable)
	if unreachable {
		l.metrics.RecordResolution(metrics.OutcomeUnreachable)
		l.logger.Error("SESSION", "Remote store unreachable while searching folder", map[string]interface{}{
			"folder_name": name,
			"error":       err.Error(),
		})
	} else {
		l.metrics.RecordResolution(metrics.OutcomeNotFound)
		l.logger.Warn("SESSION", "No folder found", map[string]interface{}{
			"folder_name": name,
		})
	}

	evt := events.SessionNotFound{FolderName: name, Unreachable: unreachable, OccurredAt: time.Now()}
	if perr := l.publisher.Publish(ctx, evt); perr != nil {
		l.logger.Warn("SESSION", "Failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": perr.Error(),
		})
	}

	return nil, &FolderNotFoundError{FolderName: name, Cause: err}
}

func (l *sessionLocator) assets(ctx context.Context, folder *remotestore.Container) (session.AssetBundle, error) {
	start := time.Now()
	bundle, err := l.resolver.ListAssets(ctx, *folder)
	l.metrics.ObserveStore("list_children", time.Since(start))
	if err != nil {
		l.logger.Error("SESSION", "Failed to list folder files", map[string]interface{}{
			"folder_id": folder.ID,
			"error":     err.Error(),
		})
		return session.AssetBundle{}, err
	}
	return bundle, nil
}
