package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pathakanu/myMeds/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL stores entries in the kv_entries table through GORM.
type SQL struct {
	db *gorm.DB
}

// NewSQL wraps an already migrated GORM connection.
func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db}
}

// Get returns the value stored under key.
func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var entry model.Entry
	err := s.db.WithContext(ctx).Where(&model.Entry{Key: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage: get %s: %w", key, err)
	}
	return entry.Value, nil
}

// SetMany upserts every entry inside one transaction.
func (s *SQL) SetMany(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			if err := upsert(tx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: set many: %w", err)
	}
	return nil
}

func upsert(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.Entry{Key: key, Value: value}).Error
}
