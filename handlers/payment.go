package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"collections-backend/middleware"
	"collections-backend/models"
	"collections-backend/storage"
	"collections-backend/store"
)

// CreateEntry records one collections payment plus its proof files. The
// whole submission is validated before anything is written; the record and
// proof rows go in one transaction, and saved files are removed again if
// that transaction fails.
func (h *Handler) CreateEntry(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "multipart form required")
		return
	}

	field := func(name string) string {
		if vs := form.Value[name]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	campaign := field("campaign")
	if !models.KnownCampaign(campaign) {
		badRequest(c, "unknown campaign")
		return
	}

	dpd, err := strconv.ParseUint(field("dpd"), 10, 32)
	if err != nil {
		badRequest(c, "dpd must be a non-negative integer")
		return
	}

	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil || amount <= 0 {
		badRequest(c, "amount must be a positive number")
		return
	}

	datePaid, err := time.Parse(dateLayout, field("date_paid"))
	if err != nil {
		badRequest(c, "date_paid must be YYYY-MM-DD")
		return
	}

	loanID := field("loan_id")
	operatorName := field("operator_name")
	customerName := field("customer_name")
	if loanID == "" || operatorName == "" || customerName == "" {
		badRequest(c, "loan_id, operator_name and customer_name are required")
		return
	}

	proofType := field("proof_type")
	if !models.KnownProofType(proofType) {
		badRequest(c, "unknown proof type")
		return
	}

	files := form.File["proofs"]
	if len(files) == 0 {
		badRequest(c, "at least one proof of payment is required")
		return
	}

	saved, err := storage.SaveProofs(c, files, h.cfg.UploadDir, h.cfg.MaxUploadMB*1024*1024)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFileType) {
			badRequest(c, "only jpg, jpeg, png and pdf proof files are allowed")
			return
		}
		serverError(c, h.log, "save proofs", err)
		return
	}

	record := models.PaymentRecord{
		Campaign:     campaign,
		DPD:          uint(dpd),
		LoanID:       loanID,
		Amount:       amount,
		DatePaid:     datePaid,
		OperatorName: operatorName,
		CustomerName: customerName,
	}
	proofs := make([]models.PaymentProof, 0, len(saved))
	now := time.Now()
	for _, name := range saved {
		proofs = append(proofs, models.PaymentProof{FilePath: name, FileType: proofType, UploadedAt: now})
	}

	if err := h.store.CreatePaymentWithProofs(&record, proofs); err != nil {
		storage.Remove(h.cfg.UploadDir, saved)
		serverError(c, h.log, "create entry", err)
		return
	}

	h.log.Info("payment entry created",
		"id", record.ID, "campaign", campaign, "loan_id", loanID,
		"proofs", len(proofs), "by", middleware.Username(c),
	)
	c.JSON(http.StatusCreated, gin.H{"message": "payment entry created", "data": record})
}

// SearchEntries is the team-leader search surface: substring and equality
// filters, newest entries first, plus the distinct-value lists the search
// form's dropdowns need.
func (h *Handler) SearchEntries(c *gin.Context) {
	dateFrom, err := h.parseDate(c.Query("date_from"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	dateTo, err := h.parseDate(c.Query("date_to"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	filter := store.PaymentFilter{
		Campaign:     c.Query("campaign"),
		Operator:     c.Query("operator_name"),
		LoanID:       c.Query("loan_id"),
		CustomerName: c.Query("customer_name"),
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		OrderBy:      "created_at",
	}

	records, pagination, err := h.store.SearchPayments(filter, pageQuery(c))
	if err != nil {
		serverError(c, h.log, "search entries", err)
		return
	}

	campaigns, err := h.store.Campaigns()
	if err != nil {
		serverError(c, h.log, "search entries", err)
		return
	}
	operators, err := h.store.Operators()
	if err != nil {
		serverError(c, h.log, "search entries", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      records,
		"meta":      pagination,
		"campaigns": campaigns,
		"operators": operators,
	})
}

// EntryStats feeds the entry dashboard: counters plus the latest entries.
func (h *Handler) EntryStats(c *gin.Context) {
	stats, err := h.store.Stats(time.Now())
	if err != nil {
		serverError(c, h.log, "entry stats", err)
		return
	}

	recent, err := h.store.RecentPayments(10)
	if err != nil {
		serverError(c, h.log, "entry stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "recent_entries": recent})
}

// DeleteEntry removes a record and its proofs. Records referenced by any
// dispute are protected from deletion.
func (h *Handler) DeleteEntry(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	files, err := h.store.DeletePayment(id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			notFound(c, "payment record not found")
		case errors.Is(err, store.ErrRecordDisputed):
			c.JSON(http.StatusConflict, gin.H{"error": "record has disputes and cannot be deleted"})
		default:
			serverError(c, h.log, "delete entry", err)
		}
		return
	}

	storage.Remove(h.cfg.UploadDir, files)
	h.log.Info("payment entry deleted", "id", id, "by", middleware.Username(c))
	c.JSON(http.StatusOK, gin.H{"message": "payment entry deleted"})
}

// FilterRecords is the data-analyst filter surface: campaign, inclusive
// date-paid range, operator substring and amount range, sorted by date paid.
func (h *Handler) FilterRecords(c *gin.Context) {
	startDate, err := h.parseDate(c.Query("start_date"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	endDate, err := h.parseDate(c.Query("end_date"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	minAmount, err := h.parseAmount(c.Query("min_amount"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	maxAmount, err := h.parseAmount(c.Query("max_amount"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	filter := store.PaymentFilter{
		Campaign:  c.Query("campaign"),
		Operator:  c.Query("operator"),
		DateFrom:  startDate,
		DateTo:    endDate,
		MinAmount: minAmount,
		MaxAmount: maxAmount,
		OrderBy:   "date_paid",
	}

	records, pagination, err := h.store.SearchPayments(filter, pageQuery(c))
	if err != nil {
		serverError(c, h.log, "filter records", err)
		return
	}

	campaigns, err := h.store.Campaigns()
	if err != nil {
		serverError(c, h.log, "filter records", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      records,
		"meta":      pagination,
		"campaigns": campaigns,
	})
}

// DownloadProof serves one stored proof file. Both roles may view proofs.
func (h *Handler) DownloadProof(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	proof, err := h.store.GetProof(id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			notFound(c, "proof not found")
			return
		}
		serverError(c, h.log, "download proof", err)
		return
	}

	path, err := storage.SafeJoin(h.cfg.UploadDir, proof.FilePath)
	if err != nil {
		badRequest(c, "invalid proof filename")
		return
	}
	c.FileAttachment(path, proof.FilePath)
}

// RecordProofs lists the proofs attached to a record.
func (h *Handler) RecordProofs(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	record, err := h.store.GetPayment(id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			notFound(c, "payment record not found")
			return
		}
		serverError(c, h.log, "record proofs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record, "proofs": record.Proofs})
}
