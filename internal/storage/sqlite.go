package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const preferencesName = "B3UFAppPrefs"

// Preference is one key/value row of an app-private preferences set
type Preference struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)"`
	Key       string    `gorm:"column:pref_key;primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// SQLiteStore keeps the session in a local SQLite preferences table, the
// way the mobile client keeps it in its private preferences file.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the preferences database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}

	if err := db.AutoMigrate(&Preference{}); err != nil {
		return nil, fmt.Errorf("failed to migrate preferences database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (Record, error) {
	var prefs []Preference
	if err := s.db.Where("name = ? AND pref_key IN ?", preferencesName, []string{TokenKey, UserKey}).
		Find(&prefs).Error; err != nil {
		return Record{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	var rec Record
	for _, p := range prefs {
		switch p.Key {
		case TokenKey:
			rec.Token = p.Value
		case UserKey:
			rec.User = p.Value
		}
	}
	if rec.Token == "" {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *SQLiteStore) Save(rec Record) error {
	rows := []Preference{
		{Name: preferencesName, Key: TokenKey, Value: rec.Token},
		{Name: preferencesName, Key: UserKey, Value: rec.User},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "pref_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	err := s.db.Where("name = ?", preferencesName).Delete(&Preference{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

// Close releases the underlying database handle
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
