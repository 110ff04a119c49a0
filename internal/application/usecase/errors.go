package usecase

import "errors"

// ErrInvalidRequest marks input that failed validation before reaching the domain.
var ErrInvalidRequest = errors.New("invalid request")
