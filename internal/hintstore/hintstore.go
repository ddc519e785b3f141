// Package hintstore persists the session hint in a local SQLite file, the
// server-side analog of the original web client's localStorage record.
package hintstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tasknest-app/tasknest/internal/models"
)

const sessionHintKey = "tasks_auth_session"

type record struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Payload   string    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (record) TableName() string {
	return "session_hints"
}

type Store struct {
	logger zerolog.Logger
	db     *gorm.DB
	ttl    time.Duration
}

// Open opens (or creates) the hint database and runs migrations.
// Hints older than ttl are treated as absent and deleted on read.
func Open(logger zerolog.Logger, dsn string, ttl time.Duration) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open hint db: %w", err)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate hint db: %w", err)
	}

	return &Store{
		logger: logger,
		db:     db,
		ttl:    ttl,
	}, nil
}

func (s *Store) Save(hint models.SessionHint) error {
	payload, err := json.Marshal(hint)
	if err != nil {
		return fmt.Errorf("failed to marshal session hint: %w", err)
	}

	err = s.db.Save(&record{
		Key:       sessionHintKey,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save session hint: %w", err)
	}

	s.logger.Debug().
		Str("uid", hint.UID).
		Msg("saved session hint")
	return nil
}

// Get returns the stored hint, or nil when none exists. An expired hint
// is deleted, not just ignored.
func (s *Store) Get() (*models.SessionHint, error) {
	var rec record
	err := s.db.First(&rec, "key = ?", sessionHintKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session hint: %w", err)
	}

	var hint models.SessionHint
	if err := json.Unmarshal([]byte(rec.Payload), &hint); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session hint: %w", err)
	}

	if time.Since(hint.Timestamp) >= s.ttl {
		s.logger.Debug().
			Time("timestamp", hint.Timestamp).
			Msg("session hint expired")
		if err := s.Delete(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &hint, nil
}

// Delete removes the hint. Deleting an absent hint is not an error.
func (s *Store) Delete() error {
	err := s.db.Delete(&record{}, "key = ?", sessionHintKey).Error
	if err != nil {
		return fmt.Errorf("failed to delete session hint: %w", err)
	}
	return nil
}

// PruneExpired removes expired hint rows. Used by the maintenance
// scheduler; Get already enforces the TTL on its own.
func (s *Store) PruneExpired() error {
	cutoff := time.Now().Add(-s.ttl)
	result := s.db.Delete(&record{}, "updated_at < ?", cutoff)
	if result.Error != nil {
		return fmt.Errorf("failed to prune session hints: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Info().
			Int64("pruned", result.RowsAffected).
			Msg("pruned expired session hints")
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
