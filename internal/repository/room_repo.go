package repository

import (
	"context"
	"strings"
	"time"

	"hotelreserve/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Number    string    `gorm:"column:number;uniqueIndex"`
	Type      string    `gorm:"column:type;index"`
	Available bool      `gorm:"column:available"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:        m.ID,
		Number:    m.Number,
		Type:      domain.RoomType(m.Type),
		Available: m.Available,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toRoomModel(rm *domain.Room) roomModel {
	return roomModel{
		ID:        rm.ID,
		Number:    strings.TrimSpace(rm.Number),
		Type:      string(rm.Type),
		Available: rm.Available,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, rm *domain.Room) error {
	m := toRoomModel(rm)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rm = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("number = ?", strings.TrimSpace(number)).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// List returns all rooms in stable catalog order, optionally filtered
// by type.
func (r *RoomRepository) List(ctx context.Context, typeFilter string) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).Model(&roomModel{}).Order("id")
	if typeFilter != "" {
		q = q.Where("type = ?", typeFilter)
	}

	var models []roomModel
	if tx := q.Find(&models); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRooms(models), nil
}

// ListInService returns rooms whose administrative flag is set,
// optionally filtered by type. Date-level availability is not consulted.
func (r *RoomRepository) ListInService(ctx context.Context, typeFilter string) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).Model(&roomModel{}).Where("available = ?", true).Order("id")
	if typeFilter != "" {
		q = q.Where("type = ?", typeFilter)
	}

	var models []roomModel
	if tx := q.Find(&models); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRooms(models), nil
}

// ListFreeBetween returns in-service rooms with no reservation whose
// half-open [checkin, checkout) range overlaps the requested one:
// existing.checkin < checkout AND existing.checkout > checkin.
func (r *RoomRepository) ListFreeBetween(ctx context.Context, typeFilter string, checkin, checkout time.Time) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("available = ?", true).
		Where(`NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE reservations.room_id = rooms.id
			  AND reservations.checkin < ?
			  AND reservations.checkout > ?
		)`, checkout, checkin).
		Order("id")
	if typeFilter != "" {
		q = q.Where("type = ?", typeFilter)
	}

	var models []roomModel
	if tx := q.Find(&models); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRooms(models), nil
}

// SetAvailability flips the administrative out-of-service marker.
func (r *RoomRepository) SetAvailability(ctx context.Context, id int64, available bool) (*domain.Room, error) {
	tx := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", id).
		Update("available", available)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func toDomainRooms(models []roomModel) []domain.Room {
	out := make([]domain.Room, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainRoom(m))
	}
	return out
}
