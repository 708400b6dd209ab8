package repository

import (
	"context"
	"time"

	"hotelreserve/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Code      string    `gorm:"column:code;uniqueIndex"`
	UserID    int64     `gorm:"column:user_id;index"`
	RoomID    int64     `gorm:"column:room_id;index"`
	Checkin   time.Time `gorm:"column:checkin"`
	Checkout  time.Time `gorm:"column:checkout"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	return &domain.Reservation{
		ID:        m.ID,
		Code:      m.Code,
		UserID:    m.UserID,
		RoomID:    m.RoomID,
		Checkin:   m.Checkin,
		Checkout:  m.Checkout,
		CreatedAt: m.CreatedAt,
	}
}

func toReservationModel(res *domain.Reservation) reservationModel {
	return reservationModel{
		ID:        res.ID,
		Code:      res.Code,
		UserID:    res.UserID,
		RoomID:    res.RoomID,
		Checkin:   res.Checkin,
		Checkout:  res.Checkout,
		CreatedAt: res.CreatedAt,
	}
}

// CreateIfNoOverlap runs the overlap check and the insert in one
// transaction, holding the room row so concurrent reserves for the same
// room serialize. Returns created=false when an overlapping reservation
// already exists; the caller decides what error that maps to.
//
// The row lock is only issued on PostgreSQL; SQLite has a single writer
// and the enclosing transaction already serializes the check-then-act.
func (r *ReservationRepository) CreateIfNoOverlap(ctx context.Context, res *domain.Reservation) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomQuery := tx
		if tx.Dialector.Name() == "postgres" {
			roomQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var room roomModel
		if err := roomQuery.First(&room, res.RoomID).Error; err != nil {
			return err
		}
		if !room.Available {
			return gorm.ErrRecordNotFound
		}

		var cnt int64
		if err := tx.Model(&reservationModel{}).
			Where("room_id = ? AND checkin < ? AND checkout > ?", res.RoomID, res.Checkout, res.Checkin).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return nil
		}

		m := toReservationModel(res)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*res = *toDomainReservation(m)
		created = true
		return nil
	})
	return created, err
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// ListByUserID returns the user's reservations, newest first.
func (r *ReservationRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	var models []reservationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Reservation, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// CountOverlapping counts reservations on a room whose half-open range
// overlaps [checkin, checkout).
func (r *ReservationRepository) CountOverlapping(ctx context.Context, roomID int64, checkin, checkout time.Time) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("room_id = ? AND checkin < ? AND checkout > ?", roomID, checkout, checkin).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}
