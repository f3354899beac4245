package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"collections-backend/models"
)

// CreateDispute inserts a new dispute after verifying the referenced payment
// record exists. Disputes always enter at pending.
func (s *Store) CreateDispute(d *models.Dispute) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PaymentRecord{}).Where("id = ?", d.EntryID).Count(&count).Error; err != nil {
			return fmt.Errorf("store: check entry: %w", err)
		}
		if count == 0 {
			return ErrRecordNotFound
		}

		d.Status = models.DisputePending
		if err := tx.Create(d).Error; err != nil {
			return fmt.Errorf("store: create dispute: %w", err)
		}
		return nil
	})
}

// GetDispute fetches one dispute with its payment record.
func (s *Store) GetDispute(id uint) (models.Dispute, error) {
	var d models.Dispute
	err := s.db.Preload("Entry").First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Dispute{}, ErrDisputeNotFound
	}
	if err != nil {
		return models.Dispute{}, fmt.Errorf("store: get dispute: %w", err)
	}
	return d, nil
}

// ListDisputesByStatus returns disputes in a workflow stage, newest first,
// with their payment records attached.
func (s *Store) ListDisputesByStatus(status models.DisputeStatus) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := s.db.Preload("Entry").
		Where("status = ?", status).
		Order("created_at desc").
		Find(&disputes).Error
	if err != nil {
		return nil, fmt.Errorf("store: list disputes: %w", err)
	}
	return disputes, nil
}

// SaveDispute persists a transitioned dispute.
func (s *Store) SaveDispute(d *models.Dispute) error {
	if err := s.db.Save(d).Error; err != nil {
		return fmt.Errorf("store: save dispute: %w", err)
	}
	return nil
}

// ApprovedDisputesForExport returns fully approved disputes with their
// payment records, the optional date range applying to the record's
// date_paid.
func (s *Store) ApprovedDisputesForExport(from, to *time.Time) ([]models.Dispute, error) {
	q := s.db.Preload("Entry").
		Joins("JOIN payment_records ON payment_records.id = disputes.entry_id").
		Where("disputes.status = ?", models.DisputeApproved)

	if from != nil {
		q = q.Where("payment_records.date_paid >= ?", *from)
	}
	if to != nil {
		q = q.Where("payment_records.date_paid <= ?", *to)
	}

	var disputes []models.Dispute
	if err := q.Order("disputes.created_at desc").Find(&disputes).Error; err != nil {
		return nil, fmt.Errorf("store: disputes for export: %w", err)
	}
	return disputes, nil
}
