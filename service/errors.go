package service

import "errors"

var (
	// ErrViewNotFound is returned for unknown or closed view ids
	ErrViewNotFound = errors.New("view not found")
	// ErrUnknownViewKind is returned when opening a view of an unsupported kind
	ErrUnknownViewKind = errors.New("unknown view kind")
	// ErrInvalidImageID is returned for malformed Drive file ids
	ErrInvalidImageID = errors.New("invalid image id")
	// ErrDriveDisabled is returned when no Drive credentials are configured
	ErrDriveDisabled = errors.New("drive integration disabled")
	// ErrMailDisabled is returned when SMTP is not configured
	ErrMailDisabled = errors.New("mail delivery disabled")
)

// ValidationError reports an invalid client request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
