package db

import (
	"tidestom/internal/models"
)

// AutoMigrate creates the tables owned by this service. tides_cand and
// tides_spec are populated by the survey pipeline and only migrated when
// migrateExternal is set (local development, tests).
func AutoMigrate(db *DB, migrateExternal bool) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	if migrateExternal {
		if err := db.Gorm.AutoMigrate(
			&models.Candidate{},
			&models.Spectrum{},
		); err != nil {
			return err
		}
	}

	return db.Gorm.AutoMigrate(
		&models.Target{},
		&models.PipelineClassification{},
		&models.HumanClassification{},
		&models.DataProduct{},
		&models.SyncState{},
	)
}
