package reservation

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrRoomUnavailable  = errors.New("room unavailable")
	ErrDateConflict     = errors.New("date conflict")
)
