// Package workflow implements the two-stage dispute review state machine.
//
// A dispute enters at pending. A team leader either rejects it (terminal) or
// approves it into pending_da_review. A data analyst then either approves it
// (terminal) or rejects it back to pending for reconsideration. Reviewer
// stamps are never cleared on a return, so a resubmitted dispute keeps its
// earlier review trail.
package workflow

import (
	"errors"
	"time"

	"collections-backend/models"
)

// Action is what a reviewer does to a dispute.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Stage identifies which reviewer stamp a transition writes.
type Stage int

const (
	StageValidation   Stage = iota + 1 // first reviewer (team leader)
	StageVerification                  // second reviewer (data analyst)
)

var (
	// ErrUnknownAction signals an action outside approve/reject.
	ErrUnknownAction = errors.New("workflow: unknown action")
	// ErrInvalidTransition signals that the dispute's current state has no
	// such transition, for any role.
	ErrInvalidTransition = errors.New("workflow: invalid transition for current status")
	// ErrRoleNotAllowed signals that the transition exists but belongs to
	// the other role. This is an authorization failure, not a state error.
	ErrRoleNotAllowed = errors.New("workflow: role not allowed to perform this transition")
)

// Transition describes the outcome of a permitted (status, action, role)
// triple: the next status and the stamp stage to apply.
type Transition struct {
	Next  models.DisputeStatus
	Stage Stage
}

type rule struct {
	from   models.DisputeStatus
	action Action
	role   models.Role
	to     models.DisputeStatus
	stage  Stage
}

// The full transition table. Anything not listed here is rejected.
var rules = []rule{
	{models.DisputePending, ActionApprove, models.RoleTeamLeader, models.DisputePendingDAReview, StageValidation},
	{models.DisputePending, ActionReject, models.RoleTeamLeader, models.DisputeRejected, StageValidation},
	{models.DisputePendingDAReview, ActionApprove, models.RoleDataAnalyst, models.DisputeApproved, StageVerification},
	{models.DisputePendingDAReview, ActionReject, models.RoleDataAnalyst, models.DisputePending, StageVerification},
}

// Transit resolves a (status, action, role) triple against the transition
// table. It returns ErrRoleNotAllowed when the state/action pair is valid
// but the actor holds the wrong role, so callers can distinguish an
// authorization failure from a stale or terminal state.
func Transit(current models.DisputeStatus, action Action, role models.Role) (Transition, error) {
	if action != ActionApprove && action != ActionReject {
		return Transition{}, ErrUnknownAction
	}

	stateHasAction := false
	for _, r := range rules {
		if r.from != current || r.action != action {
			continue
		}
		stateHasAction = true
		if r.role == role {
			return Transition{Next: r.to, Stage: r.stage}, nil
		}
	}

	if stateHasAction {
		return Transition{}, ErrRoleNotAllowed
	}
	return Transition{}, ErrInvalidTransition
}

// Apply mutates the dispute in place: sets the next status and writes the
// reviewer stamp for the transition's stage. A second-stage rejection keeps
// the first-stage stamp intact so the dispute can be re-reviewed.
func Apply(d *models.Dispute, tr Transition, actor string, comments string, now time.Time) {
	d.Status = tr.Next
	switch tr.Stage {
	case StageValidation:
		d.ValidatedBy = actor
		d.ValidatedAt = &now
		d.ValidationComments = comments
	case StageVerification:
		d.DAVerifiedBy = actor
		d.DAVerifiedAt = &now
		d.DAComments = comments
	}
}

// Terminal reports whether the status admits no further transitions.
func Terminal(s models.DisputeStatus) bool {
	return s == models.DisputeApproved || s == models.DisputeRejected
}
