package classifier

import "errors"

var (
	// ErrDecode means the input bytes are not an image in a supported format.
	ErrDecode = errors.New("classifier: cannot decode image")
	// ErrModelUnavailable means the model failed to load at startup. The
	// classifier stays disabled until the process restarts.
	ErrModelUnavailable = errors.New("classifier: model unavailable")
)
