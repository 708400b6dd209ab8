package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema for all aggregates. On PostgreSQL it
// additionally installs an exclusion constraint over (room_id, date
// range) so overlapping inserts are rejected at the storage layer even
// across service instances that do not share a row lock.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userModel{}, &roomModel{}, &reservationModel{}); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var cnt int64
	if err := db.Raw(`SELECT COUNT(1) FROM pg_constraint WHERE conname = 'reservations_no_overlap'`).Scan(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return db.Exec(`
			ALTER TABLE reservations
			ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				daterange(checkin::date, checkout::date, '[)') WITH &&
			)
		`).Error
	}
	return nil
}
