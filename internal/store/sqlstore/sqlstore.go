// Package sqlstore persists boards and media through gorm, on SQLite by
// default or Postgres when configured.
package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"coachboard/internal/store"
)

type entry struct {
	Key       string    `gorm:"primaryKey"`
	Value     jsonValue `gorm:"not null"`
	UpdatedAt time.Time
}

// jsonValue is raw JSON kept as TEXT on SQLite, where a JSON column would get
// numeric affinity and turn scalar documents into numbers, and as JSONB on
// Postgres.
type jsonValue datatypes.JSON

func (j jsonValue) Value() (driver.Value, error) { return datatypes.JSON(j).Value() }

func (j *jsonValue) Scan(v any) error { return (*datatypes.JSON)(j).Scan(v) }

func (jsonValue) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

func (entry) TableName() string { return "kv_entries" }

type blob struct {
	ID        string `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	Size      int
	CreatedAt time.Time
}

func (blob) TableName() string { return "blobs" }

// Store implements store.KV and, through Blobs, store.Blobs.
type Store struct {
	DB  *gorm.DB
	log zerolog.Logger
}

// Open connects with driver "sqlite" (dsn is a file path, empty for memory)
// or "postgres", and migrates the tables.
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		if dsn == "" {
			dsn = "file::memory:"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	default:
		return nil, fmt.Errorf("unknown sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver != "postgres" {
		// sqlite serializes writers; one connection also keeps an in-memory
		// database alive and shared
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&entry{}, &blob{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Debug().Str("driver", driver).Msg("opened sql store")
	return &Store{DB: db, log: log}, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	e := entry{Key: key, Value: jsonValue(value), UpdatedAt: time.Now().UTC()}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var e entry
	err := s.DB.WithContext(ctx).Where(&entry{Key: key}).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(e.Value), nil
}

// Blobs returns the media side of the store.
func (s *Store) Blobs() store.Blobs {
	return blobStore{s}
}

type blobStore struct{ s *Store }

func (b blobStore) Put(ctx context.Context, id string, data []byte) error {
	row := blob{ID: id, Data: data, Size: len(data), CreatedAt: time.Now().UTC()}
	err := b.s.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put blob %s: %w", id, err)
	}
	return nil
}

func (b blobStore) Get(ctx context.Context, id string) ([]byte, error) {
	var row blob
	err := b.s.DB.WithContext(ctx).Where(&blob{ID: id}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", id, err)
	}
	return row.Data, nil
}

func (b blobStore) Delete(ctx context.Context, id string) error {
	if err := b.s.DB.WithContext(ctx).Where(&blob{ID: id}).Delete(&blob{}).Error; err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
