package domain

import "errors"

// ErrNotFound is returned by service functions when the requested trip or
// activity does not resolve against the current collection.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails the
// form-level rules (e.g. blank title, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
