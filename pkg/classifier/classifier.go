// Package classifier labels bat species from spectrogram images with a
// frozen pretrained model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"

	"bat-monitor-be/internal/pkg/logger"
)

const (
	DefaultThreshold = 75.0
	UnknownSpecies   = "Unknown species"

	logModule = "classifier"
)

// Model runs one forward pass and returns a logit per class.
type Model interface {
	Forward(ctx context.Context, input Tensor) ([]float32, error)
	Close() error
}

// Policy decides what happens to a label whose confidence is under the
// threshold.
type Policy int

const (
	// PolicyCollapse replaces a low-confidence label with UnknownSpecies.
	PolicyCollapse Policy = iota
	// PolicyPassThrough keeps the argmax label and only logs a warning.
	PolicyPassThrough
)

func (p Policy) String() string {
	if p == PolicyPassThrough {
		return "passthrough"
	}
	return "collapse"
}

type Result struct {
	Label             string  `json:"label"`
	ConfidencePercent float64 `json:"confidence"`
	// Predicted is the argmax label before the threshold policy applied.
	Predicted     string `json:"predicted"`
	LowConfidence bool   `json:"low_confidence"`
}

type Options struct {
	Threshold    float64
	Preprocessor *Preprocessor
	Logger       logger.ILogger
	// WarmUp runs one forward pass on a blank input during Initialize and
	// checks the output width against the vocabulary.
	WarmUp bool
}

// State is the loaded classifier. It is immutable and safe for concurrent
// use once Initialize returns.
type State struct {
	model     Model
	labels    Labels
	prep      *Preprocessor
	threshold float64
	log       logger.ILogger
}

func Initialize(ctx context.Context, model Model, labels Labels, opts Options) (*State, error) {
	if model == nil {
		return nil, errors.New("classifier: no model")
	}
	if len(labels) == 0 {
		return nil, errors.New("classifier: empty label vocabulary")
	}

	s := &State{
		model:     model,
		labels:    append(Labels(nil), labels...),
		prep:      opts.Preprocessor,
		threshold: opts.Threshold,
		log:       opts.Logger,
	}
	if s.prep == nil {
		s.prep = NewPreprocessor()
	}
	if s.threshold <= 0 {
		s.threshold = DefaultThreshold
	}
	if s.log == nil {
		s.log = logger.NewNopLogger()
	}

	if opts.WarmUp {
		blank := Tensor{Shape: s.prep.Shape(), Data: make([]float32, 3*s.prep.Width*s.prep.Height)}
		logits, err := model.Forward(ctx, blank)
		if err != nil {
			return nil, fmt.Errorf("classifier: warm-up forward pass: %w", err)
		}
		if len(logits) != len(s.labels) {
			return nil, fmt.Errorf("classifier: model emits %d classes, vocabulary has %d", len(logits), len(s.labels))
		}
	}

	return s, nil
}

func (s *State) Labels() Labels {
	return append(Labels(nil), s.labels...)
}

func (s *State) Threshold() float64 {
	return s.threshold
}

func (s *State) Preprocessor() *Preprocessor {
	return s.prep
}

func (s *State) Classify(ctx context.Context, input Tensor, policy Policy) (Result, error) {
	logits, err := s.model.Forward(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("forward pass: %w", err)
	}
	if len(logits) != len(s.labels) {
		return Result{}, fmt.Errorf("model emitted %d logits for %d classes", len(logits), len(s.labels))
	}

	idx, p := argmax(softmax(logits))
	res := Result{
		Label:             s.labels[idx],
		Predicted:         s.labels[idx],
		ConfidencePercent: confidencePercent(p),
	}
	res.LowConfidence = res.ConfidencePercent < s.threshold

	details := map[string]interface{}{
		"predicted":  res.Predicted,
		"confidence": res.ConfidencePercent,
		"threshold":  s.threshold,
		"policy":     policy.String(),
	}
	switch {
	case !res.LowConfidence:
		s.log.Info(logModule, "High confidence prediction", details)
	case policy == PolicyPassThrough:
		s.log.Warn(logModule, "Low confidence prediction returned as-is", details)
	default:
		res.Label = UnknownSpecies
		details["returned"] = res.Label
		s.log.Info(logModule, "Low confidence prediction collapsed", details)
	}

	return res, nil
}

// softmax is computed in float64 with the max logit subtracted.
func softmax(logits []float32) []float64 {
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, float64(l))
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(float64(l) - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the first index holding the largest value.
func argmax(values []float64) (int, float64) {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best, values[best]
}

func confidencePercent(p float64) float64 {
	pct := math.Round(p*100*100) / 100
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	return math.Min(pct, 100)
}
