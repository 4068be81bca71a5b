package apperrors

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrNotSignedIn       = errors.New("not signed in")
	ErrNoActiveSession   = errors.New("no active session")
)
