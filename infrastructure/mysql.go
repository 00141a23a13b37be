package infrastructure

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"recruitment-agent/domain"
)

func NewMySQLConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Requirement{}, &domain.Application{}, &domain.Question{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Info("✅ Connected to MySQL and migrated schema")
	return db, nil
}
