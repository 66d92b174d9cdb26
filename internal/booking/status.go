package booking

import (
	"strings"
	"time"
)

// Status is a booking's position in the payment-verification workflow.
type Status string

const (
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
	StatusRefunded  Status = "refunded"
)

// ParseStatus normalizes a client-supplied status string. The empty Status
// and false are returned for unknown values.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusVerified, StatusRejected, StatusSuspended, StatusRefunded:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transitions are permitted from s.
// Suspended bookings can still be verified or rejected; pending bookings can
// go anywhere.
func (s Status) Terminal() bool {
	switch s {
	case StatusVerified, StatusRejected, StatusRefunded:
		return true
	}
	return false
}

// Roles carried in the JWT "role" claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor identifies the user requesting a transition.
type Actor struct {
	ID   uint64
	Role string
}

// TransitionInput carries everything the state machine needs to decide a
// transition: the booking's current state, who is asking, and what they ask
// for. OwnerID is the booking's owning user, HasEvidence whether a payment
// screenshot is attached.
type TransitionInput struct {
	From        Status
	To          Status
	Actor       Actor
	OwnerID     uint64
	HasEvidence bool
	Reason      string
	Now         time.Time
}

// Effects are the audit fields a successful transition records. Only the
// pointers relevant to the taken transition are set; the repository persists
// exactly these columns and nothing else.
type Effects struct {
	VerifiedBy       *uint64
	VerifiedAt       *time.Time
	RejectionReason  *string
	SuspensionReason *string
	RefundedBy       *uint64
	RefundedAt       *time.Time
	RefundReason     *string
}

// ApplyTransition validates a requested transition against the table below
// and returns the audit effects to record. The record itself is not touched;
// callers persist the new status together with the effects.
//
//	pending   -> verified | rejected | suspended   (admin)
//	pending   -> refunded                          (owning user)
//	suspended -> verified | rejected               (admin)
//	verified, rejected, refunded                   terminal
//
// Verification additionally requires payment evidence, and rejection a
// non-empty reason. A refund request is only honored from the booking's
// owner while it is still pending; the reason defaults when omitted.
func ApplyTransition(in TransitionInput) (Effects, error) {
	var eff Effects
	if in.From.Terminal() {
		return eff, ErrInvalidTransition
	}
	now := in.Now.UTC()
	reason := strings.TrimSpace(in.Reason)

	switch in.To {
	case StatusVerified, StatusRejected, StatusSuspended:
		if in.Actor.Role != RoleAdmin {
			return eff, ErrForbidden
		}
		if in.To == StatusSuspended && in.From != StatusPending {
			return eff, ErrInvalidTransition
		}
		if in.To == StatusVerified && !in.HasEvidence {
			return eff, ErrEvidenceMissing
		}
		if in.To == StatusRejected && reason == "" {
			return eff, ErrReasonRequired
		}
		eff.VerifiedBy = &in.Actor.ID
		eff.VerifiedAt = &now
		if in.To == StatusRejected {
			eff.RejectionReason = &reason
		}
		if in.To == StatusSuspended && reason != "" {
			eff.SuspensionReason = &reason
		}
		return eff, nil

	case StatusRefunded:
		if in.Actor.ID != in.OwnerID {
			return eff, ErrForbidden
		}
		if in.From != StatusPending {
			return eff, ErrInvalidTransition
		}
		if reason == "" {
			reason = "User requested refund"
		}
		eff.RefundedBy = &in.Actor.ID
		eff.RefundedAt = &now
		eff.RefundReason = &reason
		return eff, nil
	}
	return eff, ErrInvalidTransition
}
