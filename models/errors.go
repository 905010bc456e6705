package models

import "errors"

// Validation failures detected before or during forecast computation. None
// are transient: the engine performs no I/O, so nothing is retried.
var (
	ErrInvalidPair      = errors.New("unsupported currency pair")
	ErrInvalidLength    = errors.New("series length must be at least 1")
	ErrInvalidHorizon   = errors.New("forecast horizon must be between 1 and 10 days")
	ErrInsufficientData = errors.New("rate series is empty")
)

// ErrorKind maps an engine error to the stable kind string exposed in API
// error bodies. Unknown errors map to "InternalError".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPair):
		return "InvalidPairError"
	case errors.Is(err, ErrInvalidLength):
		return "InvalidLengthError"
	case errors.Is(err, ErrInvalidHorizon):
		return "InvalidHorizonError"
	case errors.Is(err, ErrInsufficientData):
		return "InsufficientDataError"
	default:
		return "InternalError"
	}
}

// IsClientError reports whether err should surface as a 400-class response.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPair) ||
		errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrInvalidHorizon) ||
		errors.Is(err, ErrInsufficientData)
}
