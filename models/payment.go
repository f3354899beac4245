package models

import "time"

// Campaigns tracked by the collections floor. Entry forms only accept these.
var Campaigns = []string{
	"LANDERS",
	"MPL",
	"MAYA CREDIT",
	"TALA",
	"OLP",
	"KVIKU",
	"SKYRO",
}

// KnownCampaign reports whether name is one of the tracked campaigns.
func KnownCampaign(name string) bool {
	for _, c := range Campaigns {
		if c == name {
			return true
		}
	}
	return false
}

// ProofTypes tags an uploaded evidence file.
var ProofTypes = []string{"receipt", "screenshot", "email", "message", "other"}

// KnownProofType reports whether t is a recognized proof-type tag.
func KnownProofType(t string) bool {
	for _, p := range ProofTypes {
		if p == t {
			return true
		}
	}
	return false
}

// PaymentRecord is one collections entry keyed to a loan.
type PaymentRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Campaign     string    `json:"campaign"`
	DPD          uint      `gorm:"column:dpd" json:"dpd"` // days past due
	LoanID       string    `json:"loan_id"`
	Amount       float64   `json:"amount"`
	DatePaid     time.Time `json:"date_paid"`
	OperatorName string    `json:"operator_name"`
	CustomerName string    `json:"customer_name"`
	CreatedAt    time.Time `json:"created_at"`

	// Proofs are owned exclusively: deleting the record deletes them.
	Proofs   []PaymentProof `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"proofs,omitempty"`
	Disputes []Dispute      `gorm:"foreignKey:EntryID" json:"-"`
}

// PaymentProof is one uploaded evidence file attached to a record.
// FilePath holds only the generated filename inside the upload directory.
type PaymentProof struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PaymentID  uint      `json:"payment_id"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}
