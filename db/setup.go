package db

import (
	"github.com/lexcal-dev/lexcal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Matter{},
		&models.CourtRuleSet{},
		&models.DeadlineRule{},
		&models.MatterRuleSet{},
		&models.TriggerEvent{},
		&models.GeneratedDeadline{},
		&models.StatuteOfLimitations{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
