package store

import "github.com/bookhollow/bookhollow-server/internal/errors"

// Store operations report failures through the shared domain error taxonomy so
// callers classify them with errors.Is without a second error vocabulary.
var (
	ErrNotFound      = errors.ErrNotFound
	ErrAlreadyExists = errors.ErrConflict
)
