package catalog

import (
	"context"

	"hotelreserve/internal/domain"
)

// RoomRepository covers the provisioning side of the room catalog.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, typeFilter string) ([]domain.Room, error)
	SetAvailability(ctx context.Context, id int64, available bool) (*domain.Room, error)
}
