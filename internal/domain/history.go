package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadRecord is a completed (or failed) download as remembered by the
// desktop application's history.
type DownloadRecord struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	URL          string    `json:"url" gorm:"not null"`
	Title        string    `json:"title,omitempty"`
	OutputPath   string    `json:"output_path,omitempty"`
	Success      bool      `json:"success" gorm:"index"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewDownloadRecord creates a history record from a finished download
func NewDownloadRecord(url string, result DownloadResult) *DownloadRecord {
	return &DownloadRecord{
		ID:           uuid.New().String(),
		URL:          url,
		OutputPath:   result.OutputPath,
		Success:      result.Success,
		ErrorMessage: result.ErrorMessage(),
		CreatedAt:    time.Now(),
	}
}

// HistoryRepository persists download records
type HistoryRepository interface {
	Create(record *DownloadRecord) error
	FindRecent(limit int) ([]*DownloadRecord, error)
	Count() (int64, error)
	Close() error
}
