package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN      string
	LogLevel string
}

// InitDB opens the MySQL connection. Duplicate-key failures are translated to
// gorm.ErrDuplicatedKey so callers can detect unique index violations.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	level := gormlogger.Warn
	if config.LogLevel == "debug" {
		level = gormlogger.Info
	}

	return gorm.Open(mysql.Open(config.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Appointment{},
		&Medicine{},
		&Prescription{},
		&PrescriptionLine{},
		&MedicalRecord{},
	)
}
