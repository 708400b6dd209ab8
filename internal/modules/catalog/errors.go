package catalog

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrDuplicateRoom   = errors.New("room already exists")
	ErrInvalidRoomType = errors.New("invalid room type")
	ErrNotFound        = errors.New("room not found")
)
