package booking

import (
	"errors"
	"testing"
	"time"
)

var (
	admin = Actor{ID: 9, Role: RoleAdmin}
	owner = Actor{ID: 3, Role: RoleUser}
	other = Actor{ID: 4, Role: RoleUser}
)

func transition(from, to Status, actor Actor, evidence bool, reason string) (Effects, error) {
	return ApplyTransition(TransitionInput{
		From:        from,
		To:          to,
		Actor:       actor,
		OwnerID:     owner.ID,
		HasEvidence: evidence,
		Reason:      reason,
		Now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus("  Verified "); !ok || st != StatusVerified {
		t.Errorf("ParseStatus normalized = %q, %v", st, ok)
	}
	if _, ok := ParseStatus("cancelled"); ok {
		t.Error("unknown status accepted")
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{StatusVerified, StatusRejected, StatusRefunded} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusSuspended} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name     string
		from, to Status
		actor    Actor
		evidence bool
		reason   string
		wantErr  error
	}{
		{"verify with evidence", StatusPending, StatusVerified, admin, true, "", nil},
		{"verify without evidence", StatusPending, StatusVerified, admin, false, "", ErrEvidenceMissing},
		{"verify as user", StatusPending, StatusVerified, owner, true, "", ErrForbidden},
		{"reject with reason", StatusPending, StatusRejected, admin, true, "blurry screenshot", nil},
		{"reject without reason", StatusPending, StatusRejected, admin, true, "  ", ErrReasonRequired},
		{"suspend from pending", StatusPending, StatusSuspended, admin, false, "needs review", nil},
		{"suspend as user", StatusPending, StatusSuspended, owner, false, "", ErrForbidden},
		{"verify from suspended", StatusSuspended, StatusVerified, admin, true, "", nil},
		{"reject from suspended", StatusSuspended, StatusRejected, admin, false, "fraud", nil},
		{"suspend from suspended", StatusSuspended, StatusSuspended, admin, false, "", ErrInvalidTransition},
		{"refund by owner", StatusPending, StatusRefunded, owner, false, "", nil},
		{"refund by other user", StatusPending, StatusRefunded, other, false, "", ErrForbidden},
		{"refund from suspended", StatusSuspended, StatusRefunded, owner, false, "", ErrInvalidTransition},
		{"verified is terminal", StatusVerified, StatusRefunded, owner, true, "", ErrInvalidTransition},
		{"rejected is terminal", StatusRejected, StatusVerified, admin, true, "", ErrInvalidTransition},
		{"refunded is terminal", StatusRefunded, StatusVerified, admin, true, "", ErrInvalidTransition},
		{"no transition to pending", StatusSuspended, StatusPending, admin, false, "", ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := transition(tc.from, tc.to, tc.actor, tc.evidence, tc.reason)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestVerifyEffects(t *testing.T) {
	eff, err := transition(StatusPending, StatusVerified, admin, true, "")
	if err != nil {
		t.Fatal(err)
	}
	if eff.VerifiedBy == nil || *eff.VerifiedBy != admin.ID {
		t.Error("VerifiedBy not recorded")
	}
	if eff.VerifiedAt == nil {
		t.Error("VerifiedAt not recorded")
	}
	if eff.RejectionReason != nil || eff.RefundReason != nil {
		t.Error("unrelated audit fields set")
	}
}

func TestRejectEffects(t *testing.T) {
	eff, err := transition(StatusPending, StatusRejected, admin, true, " duplicate payment ")
	if err != nil {
		t.Fatal(err)
	}
	if eff.RejectionReason == nil || *eff.RejectionReason != "duplicate payment" {
		t.Errorf("RejectionReason = %v, want trimmed reason", eff.RejectionReason)
	}
	if eff.VerifiedBy == nil || *eff.VerifiedBy != admin.ID {
		t.Error("acting admin not recorded")
	}
}

func TestSuspendReasonOptional(t *testing.T) {
	eff, err := transition(StatusPending, StatusSuspended, admin, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if eff.SuspensionReason != nil {
		t.Error("empty suspension reason should stay nil")
	}

	eff, err = transition(StatusPending, StatusSuspended, admin, false, "large amount")
	if err != nil {
		t.Fatal(err)
	}
	if eff.SuspensionReason == nil || *eff.SuspensionReason != "large amount" {
		t.Errorf("SuspensionReason = %v", eff.SuspensionReason)
	}
}

func TestRefundDefaultReason(t *testing.T) {
	eff, err := transition(StatusPending, StatusRefunded, owner, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if eff.RefundReason == nil || *eff.RefundReason != "User requested refund" {
		t.Errorf("RefundReason = %v, want default", eff.RefundReason)
	}
	if eff.RefundedBy == nil || *eff.RefundedBy != owner.ID {
		t.Error("RefundedBy not recorded")
	}

	eff, err = transition(StatusPending, StatusRefunded, owner, false, "changed plans")
	if err != nil {
		t.Fatal(err)
	}
	if eff.RefundReason == nil || *eff.RefundReason != "changed plans" {
		t.Errorf("RefundReason = %v, want supplied reason", eff.RefundReason)
	}
}
