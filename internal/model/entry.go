package model

import "time"

// Entry is one persisted key/value pair of the durable store.
type Entry struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (Entry) TableName() string {
	return "kv_entries"
}
