package domain

import (
	"errors"
	"strings"
	"time"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
)

var ErrUnknownRoomType = errors.New("unknown room type")

func ParseRoomType(s string) (RoomType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return RoomSingle, nil
	case "double":
		return RoomDouble, nil
	case "suite":
		return RoomSuite, nil
	}
	return "", ErrUnknownRoomType
}

// Room is a unit of hotel inventory. Available is an administrative
// out-of-service marker; date-level bookability is decided by the
// reservation ledger, not by this flag.
type Room struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number" validate:"required"`
	Type      RoomType  `json:"type" validate:"required"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
