package models

import "time"

// DisputeStatus is the workflow state of a correction request.
type DisputeStatus string

const (
	DisputePending         DisputeStatus = "pending"
	DisputePendingDAReview DisputeStatus = "pending_da_review"
	DisputeApproved        DisputeStatus = "approved"
	DisputeRejected        DisputeStatus = "rejected"
)

// DisputeReasons a team leader can file a correction under.
var DisputeReasons = []string{
	"wrong_operator",
	"wrong_amount",
	"wrong_date",
	"duplicate_entry",
	"other",
}

// KnownDisputeReason reports whether r is a recognized dispute reason.
func KnownDisputeReason(r string) bool {
	for _, reason := range DisputeReasons {
		if reason == r {
			return true
		}
	}
	return false
}

// Dispute is a correction request against exactly one PaymentRecord. It is
// never deleted; its status only moves through the workflow transitions.
type Dispute struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	EntryID          uint          `json:"entry_id"`
	Reason           string        `json:"reason"`
	CorrectedDetails string        `json:"corrected_details"`
	Status           DisputeStatus `gorm:"default:pending" json:"status"`
	CreatedBy        string        `json:"created_by"`
	CreatedAt        time.Time     `json:"created_at"`

	// First-stage (team leader) review stamp.
	ValidatedBy        string     `json:"validated_by,omitempty"`
	ValidatedAt        *time.Time `json:"validated_at,omitempty"`
	ValidationComments string     `json:"validation_comments,omitempty"`

	// Second-stage (data analyst) review stamp.
	DAVerifiedBy string     `gorm:"column:da_verified_by" json:"da_verified_by,omitempty"`
	DAVerifiedAt *time.Time `gorm:"column:da_verified_at" json:"da_verified_at,omitempty"`
	DAComments   string     `gorm:"column:da_comments" json:"da_comments,omitempty"`

	Entry PaymentRecord `gorm:"foreignKey:EntryID" json:"entry,omitempty"`
}
