package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tgo/gridsense/internal/model"
)

func NewGormDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate runs GORM auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.DemandRecord{},
	)
}
