package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"collections-backend/middleware"
	"collections-backend/models"
	"collections-backend/store"
	"collections-backend/workflow"
)

type createDisputeInput struct {
	EntryID          uint   `json:"entry_id" binding:"required"`
	Reason           string `json:"reason" binding:"required"`
	CorrectedDetails string `json:"corrected_details" binding:"required"`
}

// CreateDispute files a correction request against a payment record. Only
// team leaders reach this handler; every dispute enters at pending.
func (h *Handler) CreateDispute(c *gin.Context) {
	var input createDisputeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "entry_id, reason and corrected_details are required")
		return
	}

	if !models.KnownDisputeReason(input.Reason) {
		badRequest(c, "unknown dispute reason")
		return
	}

	dispute := models.Dispute{
		EntryID:          input.EntryID,
		Reason:           input.Reason,
		CorrectedDetails: input.CorrectedDetails,
		CreatedBy:        middleware.Username(c),
	}
	if err := h.store.CreateDispute(&dispute); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			notFound(c, "payment record not found")
			return
		}
		serverError(c, h.log, "create dispute", err)
		return
	}

	h.log.Info("dispute created", "id", dispute.ID, "entry_id", dispute.EntryID, "by", dispute.CreatedBy)
	c.JSON(http.StatusCreated, gin.H{"message": "dispute created", "data": dispute})
}

// PendingDisputes lists disputes awaiting first-stage (team leader) review.
func (h *Handler) PendingDisputes(c *gin.Context) {
	h.listDisputes(c, models.DisputePending)
}

// ReviewQueue lists disputes awaiting second-stage (data analyst) review.
// A dispute is invisible here until a team leader has approved it.
func (h *Handler) ReviewQueue(c *gin.Context) {
	h.listDisputes(c, models.DisputePendingDAReview)
}

func (h *Handler) listDisputes(c *gin.Context, status models.DisputeStatus) {
	disputes, err := h.store.ListDisputesByStatus(status)
	if err != nil {
		serverError(c, h.log, "list disputes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": disputes})
}

type disputeActionInput struct {
	Action   string `json:"action" binding:"required"`
	Comments string `json:"comments"`
}

// ActOnDispute applies an approve/reject decision at whichever stage the
// authenticated role reviews. The workflow table is the single authority on
// which (status, action, role) triples are permitted; anything else is
// rejected without touching the dispute.
func (h *Handler) ActOnDispute(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var input disputeActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "action is required")
		return
	}

	dispute, err := h.store.GetDispute(id)
	if err != nil {
		if errors.Is(err, store.ErrDisputeNotFound) {
			notFound(c, "dispute not found")
			return
		}
		serverError(c, h.log, "act on dispute", err)
		return
	}

	actorRole := middleware.Role(c)
	tr, err := workflow.Transit(dispute.Status, workflow.Action(input.Action), actorRole)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrUnknownAction):
			badRequest(c, "action must be approve or reject")
		case errors.Is(err, workflow.ErrRoleNotAllowed):
			c.JSON(http.StatusForbidden, gin.H{"error": "your role cannot act on this dispute in its current status"})
		case errors.Is(err, workflow.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "dispute status does not permit this action"})
		default:
			serverError(c, h.log, "act on dispute", err)
		}
		return
	}

	workflow.Apply(&dispute, tr, middleware.Username(c), input.Comments, time.Now())
	if err := h.store.SaveDispute(&dispute); err != nil {
		serverError(c, h.log, "act on dispute", err)
		return
	}

	h.log.Info("dispute transitioned",
		"id", dispute.ID, "action", input.Action, "status", dispute.Status,
		"by", middleware.Username(c), "role", actorRole,
	)
	c.JSON(http.StatusOK, gin.H{"message": "dispute updated", "data": dispute})
}
