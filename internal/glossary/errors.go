package glossary

import "errors"

var (
	// ErrRepositoryUnavailable covers any network/storage failure on a read or write.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrCaptureUnavailable means the camera could not be opened or failed mid-recording.
	ErrCaptureUnavailable = errors.New("capture unavailable")
	// ErrLocationUnavailable means geolocation was denied or timed out.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrValidation is returned for user input that cannot be submitted.
	ErrValidation = errors.New("validation error")
)
