package service

import "errors"

var (
	ErrSpectrogramMissing  = errors.New("no spectrogram found in session folder")
	ErrSampleSensorMissing = errors.New("Sample sensor file not found")
	ErrDriveAuthDisabled   = errors.New("drive OAuth flow is not configured for this store")
	ErrInvalidOAuthState   = errors.New("invalid or expired OAuth state")
	ErrSpectrogramTooLarge = errors.New("spectrogram too large")
	ErrUnsafeFolderName    = errors.New("folder name is not a plain directory name")
)

// FolderNotFoundError is returned for any failed session lookup. Cause is
// session.ErrNotFound or session.ErrStoreUnreachable; callers see the same
// message either way.
type FolderNotFoundError struct {
	FolderName string
	Cause      error
}

func (e *FolderNotFoundError) Error() string {
	return "Folder not found for " + e.FolderName
}

func (e *FolderNotFoundError) Unwrap() error {
	return e.Cause
}
