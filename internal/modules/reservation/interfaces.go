package reservation

import (
	"context"
	"time"

	"hotelreserve/internal/domain"
)

// ReservationRepository is the booking ledger.
type ReservationRepository interface {
	CreateIfNoOverlap(ctx context.Context, res *domain.Reservation) (bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.Reservation, error)
	CountOverlapping(ctx context.Context, roomID int64, checkin, checkout time.Time) (int64, error)
}

// RoomRepository is the room catalog.
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ListInService(ctx context.Context, typeFilter string) ([]domain.Room, error)
	ListFreeBetween(ctx context.Context, typeFilter string, checkin, checkout time.Time) ([]domain.Room, error)
}

// Publisher receives committed reservations, e.g. for the staff
// dashboard feed. Delivery is best effort.
type Publisher interface {
	PublishReservation(res *domain.Reservation)
}
