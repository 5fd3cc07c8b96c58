// Package errors provides structured domain error handling.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"

	// Amount errors: an action amount below its minimum, or a mutator
	// given an out-of-bound value.
	CodeInvalidAmount Code = "INVALID_AMOUNT"

	// Budget errors
	CodeInsufficientPoints Code = "INSUFFICIENT_POINTS"

	// Positional errors
	CodeOutOfRange       Code = "OUT_OF_RANGE"
	CodePositionOccupied Code = "POSITION_OCCUPIED"

	// Turn state errors
	CodeActionNotAllowed Code = "ACTION_NOT_ALLOWED"

	// Roster errors
	CodeGameAlreadyStarted Code = "GAME_ALREADY_STARTED"

	// Round lifecycle errors
	CodeNotEnoughPlayers Code = "NOT_ENOUGH_PLAYERS"
	CodeGameEnded        Code = "GAME_ENDED"

	// Vote errors
	CodeSignatureInvalid Code = "SIGNATURE_INVALID"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidAmount,
		CodeOutOfRange:
		return http.StatusBadRequest

	// Conflict - state doesn't allow the operation
	case CodeInsufficientPoints,
		CodePositionOccupied,
		CodeActionNotAllowed,
		CodeGameAlreadyStarted,
		CodeNotEnoughPlayers,
		CodeGameEnded:
		return http.StatusConflict

	// Not found - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	// Unauthorized - signature verification failed
	case CodeSignatureInvalid:
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}
