package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"subscriber-tracker/internal/model"
)

// joinRow is the table mapping for a JoinRecord.
type joinRow struct {
	ID       uint   `gorm:"primaryKey"`
	TsISO    string `gorm:"column:ts_iso"`
	UserID   int64
	Username string
	FullName string
}

func (joinRow) TableName() string { return "joins" }

// SQLiteStore persists the join log to a SQLite database. When the database
// cannot be opened the store still works memory-only: appends succeed in
// memory and report the persistence failure to the caller.
type SQLiteStore struct {
	memoryLog
	db      *gorm.DB
	openErr error
}

// NewSQLiteStore opens the database, runs migrations and loads existing rows
// in insertion order. Open or load failures degrade to an empty memory-only
// store rather than failing startup.
func NewSQLiteStore(dsn string) *SQLiteStore {
	s := &SQLiteStore{}

	db, err := openDB(dsn)
	if err != nil {
		log.Printf("[warn] open join db: %v, continuing without persistence", err)
		s.openErr = err
		return s
	}
	s.db = db

	var rows []joinRow
	if err := db.Order("id").Find(&rows).Error; err != nil {
		log.Printf("[warn] load join db: %v, starting empty", err)
		return s
	}
	for _, row := range rows {
		s.records = append(s.records, model.JoinRecord{
			TsISO:    row.TsISO,
			UserID:   row.UserID,
			Username: row.Username,
			FullName: row.FullName,
		})
	}
	return s
}

func (s *SQLiteStore) Append(ctx context.Context, rec model.JoinRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)

	if s.db == nil {
		return fmt.Errorf("join db unavailable: %w", s.openErr)
	}
	row := joinRow{
		TsISO:    rec.TsISO,
		UserID:   rec.UserID,
		Username: rec.Username,
		FullName: rec.FullName,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert join row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("join db unavailable: %w", s.openErr)
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("join db handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

// openDB opens a SQLite database and runs migrations.
func openDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "subscribers.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&joinRow{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
