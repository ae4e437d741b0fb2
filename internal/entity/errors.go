package entity

import "errors"

// Domain errors
var (
	// Chat errors
	ErrMessageNotFound    = errors.New("message not found")
	ErrVoteOptionNotFound = errors.New("vote option not found")
	ErrMalformedContent   = errors.New("stored message content is malformed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
