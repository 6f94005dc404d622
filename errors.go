package vestro

import "errors"

var (
	// Store errors.
	ErrNoStore     = errors.New("vestro: no store configured")
	ErrStoreClosed = errors.New("vestro: store closed")

	// Not found errors.
	ErrSessionNotFound = errors.New("vestro: workflow session not found")
	ErrResultNotFound  = errors.New("vestro: step result not found")
	ErrProfileNotFound = errors.New("vestro: investment profile not found")

	// Sequencing errors.
	ErrInvalidStep      = errors.New("vestro: step is not the session's current step")
	ErrStepNotOptional  = errors.New("vestro: step is not optional")
	ErrUnregisteredStep = errors.New("vestro: no processor registered for step")

	// Registration errors.
	ErrDuplicateStep = errors.New("vestro: step already registered")

	// Conflict errors.
	ErrSessionConflict = errors.New("vestro: session was modified concurrently")

	// Input errors.
	ErrInvalidUser = errors.New("vestro: user id must not be empty")

	// Market data errors.
	ErrSymbolNotFound = errors.New("vestro: symbol not found")
	ErrSectorNotFound = errors.New("vestro: sector not found")
)
