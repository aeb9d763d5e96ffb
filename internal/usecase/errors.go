package usecase

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrFeatureUnavailable = errors.New("feature unavailable")
	ErrDataUnavailable    = errors.New("data unavailable")
)
