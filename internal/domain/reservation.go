package domain

import "time"

// Reservation holds a committed booking for the half-open date range
// [Checkin, Checkout). Immutable after creation.
type Reservation struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	UserID    int64     `json:"user_id" validate:"required"`
	RoomID    int64     `json:"room_id" validate:"required"`
	Checkin   time.Time `json:"checkin" validate:"required"`
	Checkout  time.Time `json:"checkout" validate:"required"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
	Room *Room `json:"room,omitempty"`
}

// Overlaps reports whether the two half-open ranges share at least one
// night: [a,b) and [c,d) overlap iff a < d && c < b.
func (r Reservation) Overlaps(checkin, checkout time.Time) bool {
	return r.Checkin.Before(checkout) && checkin.Before(r.Checkout)
}
