package models

import "time"

// ExportHistory is the append-only audit trail of completed exports. The
// recorded filename is the source of truth for re-downloads.
type ExportHistory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ExportType  string     `json:"export_type"` // campaign | dispute
	Campaign    string     `json:"campaign,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	RecordCount int        `json:"record_count"`
	Filename    string     `json:"filename"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}
