package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnknownRunMode        = errors.New("unknown run mode")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
