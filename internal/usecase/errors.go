package usecase

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrVersionConflict    = errors.New("reservation was modified by another user, reload and retry")
	ErrUnknownAirline     = errors.New("unknown airline")
	ErrInvalidReservation = errors.New("invalid reservation")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidConfig      = errors.New("invalid airline settings")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicate          = errors.New("already exists")
	ErrTickInFlight       = errors.New("reminder check already running")
)
