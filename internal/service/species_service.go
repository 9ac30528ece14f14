package service

import (
	"context"
	"errors"
	"time"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/classifier"
	"bat-monitor-be/pkg/events"
	"bat-monitor-be/pkg/session"
)

// ClassifyMeta ties a classification to its source; zero for uploads.
type ClassifyMeta struct {
	Key    session.Key
	FileID string
}

type ISpeciesService interface {
	// Classify labels raw image bytes. passThrough selects the raw mode that
	// keeps low-confidence labels instead of collapsing them.
	Classify(ctx context.Context, raw []byte, passThrough bool, meta ClassifyMeta) (*dto.ClassificationResult, error)
	Status() dto.ClassifierStatus
}

type speciesService struct {
	classifier *classifier.Service
	publisher  events.Publisher
	metrics    *metrics.Collector
	logger     logger.ILogger
}

func NewSpeciesService(
	svc *classifier.Service,
	publisher events.Publisher,
	collector *metrics.Collector,
	log logger.ILogger,
) ISpeciesService {
	collector.SetClassifierReady(svc.Ready())
	return &speciesService{
		classifier: svc,
		publisher:  publisher,
		metrics:    collector,
		logger:     log,
	}
}

func PolicyFor(passThrough bool) classifier.Policy {
	if passThrough {
		return classifier.PolicyPassThrough
	}
	return classifier.PolicyCollapse
}

func (s *speciesService) Classify(ctx context.Context, raw []byte, passThrough bool, meta ClassifyMeta) (*dto.ClassificationResult, error) {
	policy := PolicyFor(passThrough)

	start := time.Now()
	res, err := s.classifier.ClassifyImage(ctx, raw, policy)
	elapsed := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeError
		switch {
		case errors.Is(err, classifier.ErrDecode):
			outcome = metrics.OutcomeDecodeError
		case errors.Is(err, classifier.ErrModelUnavailable):
			outcome = metrics.OutcomeUnavailable
		}
		s.metrics.RecordClassification(policy.String(), outcome, elapsed, 0)
		s.logger.Error("SPECIES", "Classification failed", map[string]interface{}{
			"session": meta.Key.SessionID,
			"file_id": meta.FileID,
			"outcome": outcome,
			"error":   err.Error(),
		})
		return nil, err
	}

	outcome := metrics.OutcomeOK
	if res.LowConfidence {
		outcome = metrics.OutcomeLowConfidence
	}
	s.metrics.RecordClassification(policy.String(), outcome, elapsed, res.ConfidencePercent)

	now := time.Now().UTC()
	evt := events.SpeciesClassified{
		ServerID:          meta.Key.ServerID,
		ClientID:          meta.Key.ClientID,
		SessionID:         meta.Key.SessionID,
		FileID:            meta.FileID,
		Label:             res.Label,
		ConfidencePercent: res.ConfidencePercent,
		LowConfidence:     res.LowConfidence,
		Policy:            policy.String(),
		OccurredAt:        now,
	}
	if perr := s.publisher.Publish(ctx, evt); perr != nil {
		s.logger.Warn("SPECIES", "Failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": perr.Error(),
		})
	}

	threshold := classifier.DefaultThreshold
	if st, err := s.classifier.State(); err == nil {
		threshold = st.Threshold()
	}

	return &dto.ClassificationResult{
		Species:       res.Label,
		Confidence:    res.ConfidencePercent,
		Predicted:     res.Predicted,
		LowConfidence: res.LowConfidence,
		Threshold:     threshold,
		Policy:        policy.String(),
		ClassifiedAt:  now,
	}, nil
}

func (s *speciesService) Status() dto.ClassifierStatus {
	status := dto.ClassifierStatus{
		Ready:         s.classifier.Ready(),
		DefaultPolicy: classifier.PolicyCollapse.String(),
	}
	st, err := s.classifier.State()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Labels = len(st.Labels())
	status.Threshold = st.Threshold()
	return status
}
