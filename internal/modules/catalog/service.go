package catalog

import (
	"context"
	"errors"
	"strings"

	"hotelreserve/internal/domain"
	pkgvalidator "hotelreserve/internal/pkg/validator"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	rooms RoomRepository
}

func NewService(rooms RoomRepository) *Service {
	return &Service{rooms: rooms}
}

// AddRoom provisions a new room. Room numbers are unique; a duplicate
// is reported as ErrDuplicateRoom whether it is caught by the lookup or
// by the storage constraint.
func (s *Service) AddRoom(ctx context.Context, number, roomType string) (*domain.Room, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrValidation
	}

	rt, err := domain.ParseRoomType(roomType)
	if err != nil {
		return nil, ErrInvalidRoomType
	}

	exists, err := s.rooms.ExistsByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRoom
	}

	room := &domain.Room{
		Number:    number,
		Type:      rt,
		Available: true,
	}
	if errs := pkgvalidator.Validate(room); errs != nil {
		return nil, ErrValidation
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateRoom
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRoom
		}
		return nil, err
	}

	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, typeFilter string) ([]domain.Room, error) {
	if typeFilter != "" {
		rt, err := domain.ParseRoomType(typeFilter)
		if err != nil {
			return nil, ErrInvalidRoomType
		}
		typeFilter = string(rt)
	}
	return s.rooms.List(ctx, typeFilter)
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

// SetAvailability toggles the administrative out-of-service marker. It
// does not touch existing reservations.
func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) (*domain.Room, error) {
	room, err := s.rooms.SetAvailability(ctx, id, available)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}
