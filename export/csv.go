package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"collections-backend/models"
)

// BuildPaymentCSV renders payment records as a flat CSV in the fixed
// payment column order.
func BuildPaymentCSV(records []models.PaymentRecord, includeHeaders bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if includeHeaders {
		if err := w.Write(paymentColumns); err != nil {
			return nil, fmt.Errorf("export: csv header: %w", err)
		}
	}

	for _, r := range records {
		row := []string{
			r.LoanID,
			r.Campaign,
			strconv.FormatUint(uint64(r.DPD), 10),
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.DatePaid.Format("2006-01-02"),
			r.OperatorName,
			r.CustomerName,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

var disputeCSVColumns = []string{
	"Dispute ID", "Entry ID", "Loan ID", "Campaign", "Reason", "Corrected Details",
	"Validated By", "Validation Date", "DA Verified By", "DA Verification Date",
}

// BuildDisputeCSV renders approved disputes as a flat CSV including both
// reviewer stamps.
func BuildDisputeCSV(disputes []models.Dispute, includeHeaders bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if includeHeaders {
		if err := w.Write(disputeCSVColumns); err != nil {
			return nil, fmt.Errorf("export: csv header: %w", err)
		}
	}

	for _, d := range disputes {
		row := []string{
			strconv.FormatUint(uint64(d.ID), 10),
			strconv.FormatUint(uint64(d.EntryID), 10),
			d.Entry.LoanID,
			d.Entry.Campaign,
			d.Reason,
			d.CorrectedDetails,
			d.ValidatedBy,
			stampOrEmpty(d.ValidatedAt),
			d.DAVerifiedBy,
			stampOrEmpty(d.DAVerifiedAt),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
