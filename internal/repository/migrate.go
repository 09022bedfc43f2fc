package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table the
// repositories own. On PostgreSQL it also installs the exclusion
// constraint that rejects overlapping active bookings at the database
// level: two submits racing past the in-service conflict check make the
// second insert fail with SQLSTATE 23P01, which the booking service maps
// to a conflict.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&spaceModel{},
		&bookingModel{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		// SQLite has no exclusion constraints; local development relies
		// on the in-service conflict check alone.
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS no_overbooking`,
		`ALTER TABLE bookings ADD CONSTRAINT no_overbooking
			EXCLUDE USING gist (
				space_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) WHERE (status IN ('pending', 'confirmed'))`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
