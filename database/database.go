package database

import (
	"fmt"
	"strings"

	"traffic-report/be/config"
	"traffic-report/be/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the configured database. Schema migration is a separate
// step so that `serve` never alters tables on its own.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(LogLevel(cfg.LogLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// GormConfig turns on driver error translation so unique-index violations
// surface as gorm.ErrDuplicatedKey on every supported driver.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// Dialector picks the gorm driver for cfg.Driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func LogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate creates or updates the users, devices, incident_logs and
// chatbot_logs tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.IncidentLog{},
		&models.ChatbotLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Sequence names an auto-increment primary key column.
type Sequence struct {
	Table  string
	Column string
}

// SeededSequences are the keys that seed data writes explicitly.
var SeededSequences = []Sequence{
	{Table: "users", Column: "history_id"},
	{Table: "devices", Column: "device_id"},
	{Table: "incident_logs", Column: "incident_log"},
}

// ResetSequences moves postgres serial sequences past the largest stored key.
// Rows inserted with explicit ids do not advance the sequence there; MySQL and
// SQLite track auto-increment values themselves, so this is a no-op for them.
func ResetSequences(db *gorm.DB, sequences ...Sequence) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	for _, seq := range sequences {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE((SELECT MAX(%s) FROM %s), 0) + 1, false)",
			seq.Table, seq.Column, seq.Column, seq.Table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to reset sequence %s.%s: %w", seq.Table, seq.Column, err)
		}
	}
	return nil
}
