package service

import (
	"context"
	"fmt"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/internal/repository/memory"

	"github.com/google/uuid"
)

// DriveAuthorizer is the part of gdrive.Authorizer the web flow needs.
type DriveAuthorizer interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) error
	Authorized() bool
}

type IDriveAuthService interface {
	LoginURL() (string, error)
	HandleCallback(ctx context.Context, state, code string) error
	Status() dto.DriveAuthStatus
}

type driveAuthService struct {
	authorizer DriveAuthorizer
	mode       string
	states     *memory.OAuthStateRepository
	logger     logger.ILogger
}

// NewDriveAuthService takes a nil authorizer when the store does not use
// user OAuth (service account, S3, memory); mode names what it uses.
func NewDriveAuthService(authorizer DriveAuthorizer, mode string, states *memory.OAuthStateRepository, log logger.ILogger) IDriveAuthService {
	return &driveAuthService{
		authorizer: authorizer,
		mode:       mode,
		states:     states,
		logger:     log,
	}
}

func (s *driveAuthService) LoginURL() (string, error) {
	if s.authorizer == nil {
		return "", ErrDriveAuthDisabled
	}
	state := uuid.NewString()
	s.states.Save(state)

	s.logger.Info("DRIVE_AUTH", "Drive login initiated", nil)
	return s.authorizer.AuthCodeURL(state), nil
}

func (s *driveAuthService) HandleCallback(ctx context.Context, state, code string) error {
	if s.authorizer == nil {
		return ErrDriveAuthDisabled
	}
	if !s.states.Consume(state) {
		s.logger.Warn("DRIVE_AUTH", "Callback with unknown state", nil)
		return ErrInvalidOAuthState
	}

	if err := s.authorizer.Exchange(ctx, code); err != nil {
		s.logger.Error("DRIVE_AUTH", "Code exchange failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	s.logger.Info("DRIVE_AUTH", "Drive authorized, token saved", nil)
	return nil
}

func (s *driveAuthService) Status() dto.DriveAuthStatus {
	authorized := s.authorizer == nil || s.authorizer.Authorized()
	return dto.DriveAuthStatus{Authorized: authorized, Mode: s.mode}
}
