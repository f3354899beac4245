package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"collections-backend/models"
)

// AddExportHistory appends one audit row for a completed export.
func (s *Store) AddExportHistory(h *models.ExportHistory) error {
	if err := s.db.Create(h).Error; err != nil {
		return fmt.Errorf("store: add export history: %w", err)
	}
	return nil
}

// RecentExports returns the latest export audit rows.
func (s *Store) RecentExports(limit int) ([]models.ExportHistory, error) {
	var history []models.ExportHistory
	err := s.db.Order("created_at desc").Limit(limit).Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("store: recent exports: %w", err)
	}
	return history, nil
}

// GetExportByFilename looks up the audit row for a generated file. The row,
// not the filesystem, decides whether a download is legitimate.
func (s *Store) GetExportByFilename(filename string) (models.ExportHistory, error) {
	var h models.ExportHistory
	err := s.db.Where("filename = ?", filename).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ExportHistory{}, ErrExportNotFound
	}
	if err != nil {
		return models.ExportHistory{}, fmt.Errorf("store: get export: %w", err)
	}
	return h, nil
}
