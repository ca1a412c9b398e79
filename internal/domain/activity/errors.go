package activity

import "errors"

var (
	// ErrInvalidInput indicates a missing actor, project, or other required field.
	ErrInvalidInput = errors.New("invalid activity input")
	// ErrUnknownEventType indicates a type outside the closed enumeration.
	ErrUnknownEventType = errors.New("unknown event type")
	// ErrDetailMismatch indicates a detail variant that does not belong to the event type.
	ErrDetailMismatch = errors.New("detail does not match event type")
	// ErrInvalidCursor indicates a malformed cursor or one issued for another listing.
	ErrInvalidCursor = errors.New("invalid cursor")
)
