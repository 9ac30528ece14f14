package classifier

import (
	"context"
	"fmt"
)

// Service gates classification on a completed startup load. It is built
// once with either a ready State or the load error; a disabled service
// refuses every call and never retries the load.
type Service struct {
	state   *State
	initErr error
}

func NewService(state *State, initErr error) *Service {
	if state == nil && initErr == nil {
		initErr = fmt.Errorf("classifier: not initialized")
	}
	if initErr != nil {
		state = nil
	}
	return &Service{state: state, initErr: initErr}
}

func (s *Service) Ready() bool {
	return s.state != nil
}

// Err is the startup failure, nil when ready.
func (s *Service) Err() error {
	return s.initErr
}

func (s *Service) State() (*State, error) {
	if s.state == nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, s.initErr)
	}
	return s.state, nil
}

// ClassifyImage preprocesses raw image bytes and classifies them.
func (s *Service) ClassifyImage(ctx context.Context, raw []byte, policy Policy) (Result, error) {
	state, err := s.State()
	if err != nil {
		return Result{}, err
	}

	input, err := state.prep.Prepare(raw)
	if err != nil {
		return Result{}, err
	}
	return state.Classify(ctx, input, policy)
}

// Close releases the model. Only called at shutdown.
func (s *Service) Close() error {
	if s.state == nil {
		return nil
	}
	return s.state.model.Close()
}
