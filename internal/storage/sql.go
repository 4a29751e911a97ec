package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// kvEntry is a row of the key-value area.
type kvEntry struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// recordRow is a row of a named record store. Seq keeps insertion order.
type recordRow struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	Store     string `gorm:"uniqueIndex:idx_store_id;not null"`
	RecordID  string `gorm:"uniqueIndex:idx_store_id;not null"`
	Value     string
	UpdatedAt time.Time
}

func (recordRow) TableName() string { return "records" }

// SQLStore persists keys and records in a SQLite database through gorm.
type SQLStore struct {
	db *gorm.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens (or creates) the SQLite database at dsn and migrates it.
func NewSQLStore(dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("empty database path")
	}
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stderr, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&kvEntry{}, &recordRow{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// ensureDirForSQLite creates the parent dir of a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key string, v any) (bool, error) {
	var row kvEntry
	err := s.db.WithContext(ctx).Where("name = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(row.Value), v); err != nil {
		return false, fmt.Errorf("%w: key %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	row := kvEntry{Name: key, Value: string(data)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// GetAll implements Store.
func (s *SQLStore) GetAll(ctx context.Context, store string) ([]json.RawMessage, error) {
	var rows []recordRow
	if err := s.db.WithContext(ctx).Where("store = ?", store).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", store, err)
	}
	out := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		out[i] = json.RawMessage(r.Value)
	}
	return out, nil
}

// SaveTo implements Store.
func (s *SQLStore) SaveTo(ctx context.Context, store, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", store, id, err)
	}
	row := recordRow{Store: store, RecordID: id, Value: string(data)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store"}, {Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", store, id, err)
	}
	return nil
}

// DeleteFrom implements Store.
func (s *SQLStore) DeleteFrom(ctx context.Context, store, id string) error {
	if err := s.db.WithContext(ctx).Where("store = ? AND record_id = ?", store, id).
		Delete(&recordRow{}).Error; err != nil {
		return fmt.Errorf("delete %s/%s: %w", store, id, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
