package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

// SQLiteHistoryRepository persists download records in a local sqlite file
type SQLiteHistoryRepository struct {
	db *gorm.DB
}

// NewSQLiteHistoryRepository opens (creating if needed) the history database
func NewSQLiteHistoryRepository(databasePath string) (*SQLiteHistoryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(databasePath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if err := db.AutoMigrate(&domain.DownloadRecord{}); err != nil {
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// Create stores a new download record
func (r *SQLiteHistoryRepository) Create(record *domain.DownloadRecord) error {
	return r.db.Create(record).Error
}

// FindRecent returns the newest records, most recent first
func (r *SQLiteHistoryRepository) FindRecent(limit int) ([]*domain.DownloadRecord, error) {
	var records []*domain.DownloadRecord
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

// Count returns the total number of records
func (r *SQLiteHistoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.DownloadRecord{}).Count(&count).Error
	return count, err
}

// Close closes the underlying database connection
func (r *SQLiteHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
