package domain

import "errors"

// Error kinds understood by the HTTP layer. Services wrap these with
// context; handlers map them to status codes via errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("already exists")
	ErrUploadFailed = errors.New("upload failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)
