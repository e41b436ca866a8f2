package database

import (
	"strings"

	"github.com/pathakanu/myMeds/internal/model"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New creates a GORM database connection.
// When databaseURL is provided PostgreSQL is used, otherwise SQLite at sqlitePath is used.
func New(databaseURL, sqlitePath string, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath), gormConfig)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logBackend(db, sqlitePath, log)
	return db, nil
}

// Migrate creates the key/value table if it is missing.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Entry{})
}

func logBackend(db *gorm.DB, sqlitePath string, log *zap.Logger) {
	if log == nil {
		return
	}
	dialector := db.Dialector.Name()
	switch strings.ToLower(dialector) {
	case "postgres":
		log.Info("database: connected to PostgreSQL")
	case "sqlite":
		log.Info("database: using SQLite", zap.String("path", sqlitePath))
	default:
		log.Info("database: connected", zap.String("dialector", dialector))
	}
}
