package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"collections-backend/models"
)

// PaymentFilter holds the optional predicates of the record search. Nil or
// zero-valued fields leave the corresponding predicate off.
type PaymentFilter struct {
	Campaign     string
	Operator     string
	LoanID       string
	CustomerName string
	DateFrom     *time.Time
	DateTo       *time.Time
	MinAmount    *float64
	MaxAmount    *float64

	// OrderBy selects the descending sort column: "created_at" (entry
	// search) or "date_paid" (analyst filter). Anything else falls back
	// to created_at.
	OrderBy string
}

func (f PaymentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Campaign != "" {
		q = q.Where("campaign = ?", f.Campaign)
	}
	if f.Operator != "" {
		q = q.Where("operator_name LIKE ?", "%"+f.Operator+"%")
	}
	if f.LoanID != "" {
		q = q.Where("loan_id LIKE ?", "%"+f.LoanID+"%")
	}
	if f.CustomerName != "" {
		q = q.Where("customer_name LIKE ?", "%"+f.CustomerName+"%")
	}
	if f.DateFrom != nil {
		q = q.Where("date_paid >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("date_paid <= ?", *f.DateTo)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

func (f PaymentFilter) order() string {
	if f.OrderBy == "date_paid" {
		return "date_paid desc"
	}
	return "created_at desc"
}

// SearchPayments returns one page of records matching the filter, proofs
// preloaded, sorted descending by the chosen timestamp column.
func (s *Store) SearchPayments(f PaymentFilter, page int) ([]models.PaymentRecord, Pagination, error) {
	if page < 1 {
		page = 1
	}

	base := f.apply(s.db.Model(&models.PaymentRecord{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("store: count payments: %w", err)
	}

	var records []models.PaymentRecord
	err := f.apply(s.db.Preload("Proofs")).
		Order(f.order()).
		Limit(s.pageSize).
		Offset((page - 1) * s.pageSize).
		Find(&records).Error
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("store: search payments: %w", err)
	}

	return records, s.paginate(total, page), nil
}

// PaymentsForExport returns every record matching campaign and date range,
// unpaginated, date_paid descending.
func (s *Store) PaymentsForExport(campaign string, from, to *time.Time) ([]models.PaymentRecord, error) {
	f := PaymentFilter{Campaign: campaign, DateFrom: from, DateTo: to}

	var records []models.PaymentRecord
	if err := f.apply(s.db).Order("date_paid desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("store: payments for export: %w", err)
	}
	return records, nil
}

// CreatePaymentWithProofs inserts the record and all proof rows in one
// transaction so a failure leaves neither behind.
func (s *Store) CreatePaymentWithProofs(record *models.PaymentRecord, proofs []models.PaymentProof) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("store: create payment: %w", err)
		}
		for i := range proofs {
			proofs[i].PaymentID = record.ID
			if err := tx.Create(&proofs[i]).Error; err != nil {
				return fmt.Errorf("store: create proof: %w", err)
			}
		}
		return nil
	})
}

// GetPayment fetches one record with its proofs.
func (s *Store) GetPayment(id uint) (models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := s.db.Preload("Proofs").First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PaymentRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return models.PaymentRecord{}, fmt.Errorf("store: get payment: %w", err)
	}
	return record, nil
}

// GetProof fetches a single proof row.
func (s *Store) GetProof(id uint) (models.PaymentProof, error) {
	var proof models.PaymentProof
	err := s.db.First(&proof, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PaymentProof{}, ErrRecordNotFound
	}
	if err != nil {
		return models.PaymentProof{}, fmt.Errorf("store: get proof: %w", err)
	}
	return proof, nil
}

// DeletePayment removes a record and its proof rows. A record still
// referenced by any dispute is never deleted (ErrRecordDisputed). The
// returned filenames are the stored proof files the caller should remove
// after the commit.
func (s *Store) DeletePayment(id uint) ([]string, error) {
	var files []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var record models.PaymentRecord
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return fmt.Errorf("store: fetch payment: %w", err)
		}

		var disputes int64
		if err := tx.Model(&models.Dispute{}).Where("entry_id = ?", id).Count(&disputes).Error; err != nil {
			return fmt.Errorf("store: count disputes: %w", err)
		}
		if disputes > 0 {
			return ErrRecordDisputed
		}

		var proofs []models.PaymentProof
		if err := tx.Where("payment_id = ?", id).Find(&proofs).Error; err != nil {
			return fmt.Errorf("store: fetch proofs: %w", err)
		}
		for _, p := range proofs {
			files = append(files, p.FilePath)
		}

		if err := tx.Where("payment_id = ?", id).Delete(&models.PaymentProof{}).Error; err != nil {
			return fmt.Errorf("store: delete proofs: %w", err)
		}
		if err := tx.Delete(&models.PaymentRecord{}, id).Error; err != nil {
			return fmt.Errorf("store: delete payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Campaigns returns the distinct campaign values present in the data,
// for filter dropdowns.
func (s *Store) Campaigns() ([]string, error) {
	var campaigns []string
	err := s.db.Model(&models.PaymentRecord{}).
		Distinct("campaign").
		Order("campaign asc").
		Pluck("campaign", &campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("store: distinct campaigns: %w", err)
	}
	return campaigns, nil
}

// Operators returns the distinct operator names, for autocomplete.
func (s *Store) Operators() ([]string, error) {
	var operators []string
	err := s.db.Model(&models.PaymentRecord{}).
		Distinct("operator_name").
		Order("operator_name asc").
		Pluck("operator_name", &operators).Error
	if err != nil {
		return nil, fmt.Errorf("store: distinct operators: %w", err)
	}
	return operators, nil
}

// RecentPayments returns the latest n entries for the entry dashboard.
func (s *Store) RecentPayments(n int) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := s.db.Preload("Proofs").Order("created_at desc").Limit(n).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("store: recent payments: %w", err)
	}
	return records, nil
}

// EntryStats feeds the team-leader dashboard counters.
type EntryStats struct {
	TotalRecords      int64 `json:"total_records"`
	TodayRecords      int64 `json:"today_records"`
	RecordsWithProofs int64 `json:"records_with_proofs"`
	PendingDisputes   int64 `json:"pending_disputes"`
}

// Stats computes the entry-dashboard counters. "Today" is the local day of
// the supplied clock value.
func (s *Store) Stats(now time.Time) (EntryStats, error) {
	var stats EntryStats

	if err := s.db.Model(&models.PaymentRecord{}).Count(&stats.TotalRecords).Error; err != nil {
		return EntryStats{}, fmt.Errorf("store: stats total: %w", err)
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.PaymentRecord{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.TodayRecords).Error; err != nil {
		return EntryStats{}, fmt.Errorf("store: stats today: %w", err)
	}

	if err := s.db.Model(&models.PaymentRecord{}).
		Where("id IN (?)", s.db.Model(&models.PaymentProof{}).Distinct("payment_id")).
		Count(&stats.RecordsWithProofs).Error; err != nil {
		return EntryStats{}, fmt.Errorf("store: stats proofs: %w", err)
	}

	if err := s.db.Model(&models.Dispute{}).
		Where("status = ?", models.DisputePending).
		Count(&stats.PendingDisputes).Error; err != nil {
		return EntryStats{}, fmt.Errorf("store: stats disputes: %w", err)
	}

	return stats, nil
}
