package game

import "errors"

var (
	// ErrInvalidIndex is returned when a door index is outside 1..3
	ErrInvalidIndex = errors.New("invalid door index")

	// ErrInvalidArgument is returned for malformed inputs such as a batch size below 1
	ErrInvalidArgument = errors.New("invalid argument")
)
