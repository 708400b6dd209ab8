package reservation

import (
	"context"
	"errors"
	"time"

	"hotelreserve/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service struct {
	reservations ReservationRepository
	rooms        RoomRepository
	feed         Publisher
}

func NewService(reservations ReservationRepository, rooms RoomRepository, feed Publisher) *Service {
	return &Service{
		reservations: reservations,
		rooms:        rooms,
		feed:         feed,
	}
}

// FindAvailable computes the bookable subset of the catalog for the
// requested constraints. With both dates set, rooms with a reservation
// overlapping the half-open [checkin, checkout) are excluded; a room
// whose existing checkout equals the requested checkin stays available.
// With no dates the result is filtered by the administrative flag and
// type only; callers must not treat that as a commit guarantee.
func (s *Service) FindAvailable(ctx context.Context, typeFilter, checkinStr, checkoutStr string) ([]domain.Room, error) {
	filter, err := normalizeTypeFilter(typeFilter)
	if err != nil {
		return nil, err
	}

	if checkinStr == "" && checkoutStr == "" {
		return s.rooms.ListInService(ctx, filter)
	}

	checkin, checkout, err := parseDateRange(checkinStr, checkoutStr)
	if err != nil {
		return nil, err
	}

	return s.rooms.ListFreeBetween(ctx, filter, checkin, checkout)
}

// Reserve validates the request, looks up the room and commits the
// reservation atomically with the overlap check. A failed attempt
// leaves no partial state.
func (s *Service) Reserve(ctx context.Context, userID int64, req CreateReservationRequest) (*domain.Reservation, error) {
	if userID == 0 || req.RoomID == 0 || req.Checkin == "" || req.Checkout == "" {
		return nil, ErrInvalidInput
	}

	checkin, checkout, err := parseDateRange(req.Checkin, req.Checkout)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomUnavailable
		}
		return nil, err
	}
	if !room.Available {
		return nil, ErrRoomUnavailable
	}

	res := &domain.Reservation{
		Code:     uuid.NewString(),
		UserID:   userID,
		RoomID:   room.ID,
		Checkin:  checkin,
		Checkout: checkout,
	}

	created, err := s.reservations.CreateIfNoOverlap(ctx, res)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomUnavailable
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Exclusion or unique violation from the storage-level
			// no-overlap constraint: another instance won the slot.
			if pgErr.Code == "23P01" || pgErr.Code == "23505" {
				return nil, ErrDateConflict
			}
		}
		return nil, err
	}
	if !created {
		return nil, ErrDateConflict
	}

	if s.feed != nil {
		s.feed.PublishReservation(res)
	}

	return res, nil
}

// ListMine returns the requester's reservations, newest first.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return s.reservations.ListByUserID(ctx, userID)
}

func normalizeTypeFilter(typeFilter string) (string, error) {
	if typeFilter == "" {
		return "", nil
	}
	rt, err := domain.ParseRoomType(typeFilter)
	if err != nil {
		return "", ErrInvalidInput
	}
	return string(rt), nil
}

func parseDateRange(checkinStr, checkoutStr string) (time.Time, time.Time, error) {
	if checkinStr == "" || checkoutStr == "" {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	checkin, err := time.ParseInLocation(dateLayout, checkinStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	checkout, err := time.ParseInLocation(dateLayout, checkoutStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if !checkin.Before(checkout) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return checkin, checkout, nil
}
