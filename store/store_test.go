package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collections-backend/config"
	"collections-backend/database"
	"collections-backend/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(config.Config{DatabasePath: ":memory:"})
	require.NoError(t, err)
	return New(db, 20)
}

func seedRecord(t *testing.T, s *Store, campaign, loanID string, amount float64, datePaid time.Time, operator string) models.PaymentRecord {
	t.Helper()
	record := models.PaymentRecord{
		Campaign:     campaign,
		DPD:          30,
		LoanID:       loanID,
		Amount:       amount,
		DatePaid:     datePaid,
		OperatorName: operator,
		CustomerName: "Juan Dela Cruz",
	}
	require.NoError(t, s.db.Create(&record).Error)
	return record
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSearchPayments_CampaignAndInclusiveDateRange(t *testing.T) {
	s := newTestStore(t)

	seedRecord(t, s, "TALA", "L-1", 1000, day(2024, 1, 1), "alice")  // boundary, in
	seedRecord(t, s, "TALA", "L-2", 2000, day(2024, 1, 15), "bob")   // in
	seedRecord(t, s, "TALA", "L-3", 3000, day(2024, 1, 31), "carol") // boundary, in
	seedRecord(t, s, "TALA", "L-4", 4000, day(2024, 2, 1), "dave")   // out of range
	seedRecord(t, s, "MPL", "L-5", 5000, day(2024, 1, 10), "erin")   // wrong campaign

	from, to := day(2024, 1, 1), day(2024, 1, 31)
	records, meta, err := s.SearchPayments(PaymentFilter{
		Campaign: "TALA",
		DateFrom: &from,
		DateTo:   &to,
		OrderBy:  "date_paid",
	}, 1)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, int64(3), meta.TotalRows)
	for _, r := range records {
		assert.Equal(t, "TALA", r.Campaign)
	}
	// Descending by date paid.
	assert.Equal(t, "L-3", records[0].LoanID)
	assert.Equal(t, "L-2", records[1].LoanID)
	assert.Equal(t, "L-1", records[2].LoanID)
}

func TestSearchPayments_OperatorSubstringAndAmountRange(t *testing.T) {
	s := newTestStore(t)

	seedRecord(t, s, "OLP", "L-1", 500, day(2024, 3, 1), "Maria Santos")
	seedRecord(t, s, "OLP", "L-2", 1500, day(2024, 3, 2), "Mario Reyes")
	seedRecord(t, s, "OLP", "L-3", 2500, day(2024, 3, 3), "Pat Cruz")

	min, max := 400.0, 1500.0
	records, _, err := s.SearchPayments(PaymentFilter{
		Operator:  "Mari",
		MinAmount: &min,
		MaxAmount: &max,
	}, 1)
	require.NoError(t, err)

	require.Len(t, records, 2)
	loanIDs := []string{records[0].LoanID, records[1].LoanID}
	assert.ElementsMatch(t, []string{"L-1", "L-2"}, loanIDs)
}

func TestSearchPayments_FixedPageSize(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 45; i++ {
		seedRecord(t, s, "SKYRO", "L", 100, day(2024, 1, 1).AddDate(0, 0, i), "op")
	}

	page1, meta, err := s.SearchPayments(PaymentFilter{}, 1)
	require.NoError(t, err)
	assert.Len(t, page1, 20)
	assert.Equal(t, int64(45), meta.TotalRows)
	assert.Equal(t, 3, meta.TotalPages)

	page3, _, err := s.SearchPayments(PaymentFilter{}, 3)
	require.NoError(t, err)
	assert.Len(t, page3, 5)
}

func TestCreatePaymentWithProofs_AllOrNothing(t *testing.T) {
	s := newTestStore(t)

	record := models.PaymentRecord{
		Campaign: "TALA", DPD: 12, LoanID: "L-77", Amount: 900,
		DatePaid: day(2024, 4, 2), OperatorName: "alice", CustomerName: "cust",
	}
	proofs := []models.PaymentProof{
		{FilePath: "a.jpg", FileType: "receipt", UploadedAt: time.Now()},
		{FilePath: "b.pdf", FileType: "email", UploadedAt: time.Now()},
	}
	require.NoError(t, s.CreatePaymentWithProofs(&record, proofs))

	got, err := s.GetPayment(record.ID)
	require.NoError(t, err)
	assert.Len(t, got.Proofs, 2)
	for _, p := range got.Proofs {
		assert.Equal(t, record.ID, p.PaymentID)
	}
}

func TestDeletePayment_RestrictedWhileDisputed(t *testing.T) {
	s := newTestStore(t)

	record := seedRecord(t, s, "MPL", "L-9", 700, day(2024, 5, 5), "bob")
	require.NoError(t, s.db.Create(&models.PaymentProof{
		PaymentID: record.ID, FilePath: "p.jpg", FileType: "receipt",
	}).Error)

	dispute := models.Dispute{EntryID: record.ID, Reason: "wrong_amount", CorrectedDetails: "should be 750", CreatedBy: "teamleader"}
	require.NoError(t, s.CreateDispute(&dispute))

	_, err := s.DeletePayment(record.ID)
	assert.ErrorIs(t, err, ErrRecordDisputed)

	// Record and proof must still be there.
	got, err := s.GetPayment(record.ID)
	require.NoError(t, err)
	assert.Len(t, got.Proofs, 1)
}

func TestDeletePayment_CascadesProofs(t *testing.T) {
	s := newTestStore(t)

	record := seedRecord(t, s, "MPL", "L-10", 700, day(2024, 5, 5), "bob")
	require.NoError(t, s.db.Create(&models.PaymentProof{
		PaymentID: record.ID, FilePath: "gone.jpg", FileType: "receipt",
	}).Error)

	files, err := s.DeletePayment(record.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"gone.jpg"}, files)

	_, err = s.GetPayment(record.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	var proofCount int64
	s.db.Model(&models.PaymentProof{}).Where("payment_id = ?", record.ID).Count(&proofCount)
	assert.Zero(t, proofCount)
}

func TestCreateDispute_RejectsMissingEntry(t *testing.T) {
	s := newTestStore(t)

	dispute := models.Dispute{EntryID: 999, Reason: "other", CorrectedDetails: "x", CreatedBy: "teamleader"}
	err := s.CreateDispute(&dispute)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	var count int64
	s.db.Model(&models.Dispute{}).Count(&count)
	assert.Zero(t, count, "no orphan dispute may be created")
}

func TestDistinctProjections(t *testing.T) {
	s := newTestStore(t)

	seedRecord(t, s, "TALA", "L-1", 100, day(2024, 1, 1), "alice")
	seedRecord(t, s, "TALA", "L-2", 100, day(2024, 1, 2), "alice")
	seedRecord(t, s, "MPL", "L-3", 100, day(2024, 1, 3), "bob")

	campaigns, err := s.Campaigns()
	require.NoError(t, err)
	assert.Equal(t, []string{"MPL", "TALA"}, campaigns)

	operators, err := s.Operators()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, operators)
}

func TestApprovedDisputesForExport_OnlyApproved(t *testing.T) {
	s := newTestStore(t)

	record := seedRecord(t, s, "TALA", "L-1", 100, day(2024, 1, 15), "alice")

	statuses := []models.DisputeStatus{
		models.DisputePending,
		models.DisputePendingDAReview,
		models.DisputeApproved,
		models.DisputeRejected,
	}
	for _, status := range statuses {
		d := models.Dispute{EntryID: record.ID, Reason: "other", CorrectedDetails: "x", CreatedBy: "tl"}
		require.NoError(t, s.CreateDispute(&d))
		d.Status = status
		require.NoError(t, s.SaveDispute(&d))
	}

	disputes, err := s.ApprovedDisputesForExport(nil, nil)
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, models.DisputeApproved, disputes[0].Status)
	assert.Equal(t, "TALA", disputes[0].Entry.Campaign)
}

func TestApprovedDisputesForExport_DateRangeOnRecord(t *testing.T) {
	s := newTestStore(t)

	inRange := seedRecord(t, s, "TALA", "L-in", 100, day(2024, 1, 15), "alice")
	outRange := seedRecord(t, s, "TALA", "L-out", 100, day(2024, 3, 15), "alice")

	for _, rec := range []models.PaymentRecord{inRange, outRange} {
		d := models.Dispute{EntryID: rec.ID, Reason: "other", CorrectedDetails: "x", CreatedBy: "tl"}
		require.NoError(t, s.CreateDispute(&d))
		d.Status = models.DisputeApproved
		require.NoError(t, s.SaveDispute(&d))
	}

	from, to := day(2024, 1, 1), day(2024, 1, 31)
	disputes, err := s.ApprovedDisputesForExport(&from, &to)
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, inRange.ID, disputes[0].EntryID)
}

func TestExportHistoryByFilename(t *testing.T) {
	s := newTestStore(t)

	h := models.ExportHistory{
		ExportType: "campaign", Campaign: "TALA", RecordCount: 3,
		Filename: "TALA_records_20240101120000.csv", CreatedBy: "analyst",
	}
	require.NoError(t, s.AddExportHistory(&h))

	got, err := s.GetExportByFilename(h.Filename)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RecordCount)

	_, err = s.GetExportByFilename("nope.csv")
	assert.ErrorIs(t, err, ErrExportNotFound)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	old := seedRecord(t, s, "TALA", "L-old", 100, day(2023, 1, 1), "alice")
	require.NoError(t, s.db.Model(&models.PaymentRecord{}).
		Where("id = ?", old.ID).
		Update("created_at", now.AddDate(0, 0, -3)).Error)

	today := seedRecord(t, s, "MPL", "L-new", 100, day(2024, 1, 1), "bob")
	require.NoError(t, s.db.Create(&models.PaymentProof{
		PaymentID: today.ID, FilePath: "p.jpg", FileType: "receipt",
	}).Error)

	d := models.Dispute{EntryID: today.ID, Reason: "other", CorrectedDetails: "x", CreatedBy: "tl"}
	require.NoError(t, s.CreateDispute(&d))

	stats, err := s.Stats(now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRecords)
	assert.Equal(t, int64(1), stats.TodayRecords)
	assert.Equal(t, int64(1), stats.RecordsWithProofs)
	assert.Equal(t, int64(1), stats.PendingDisputes)
}
