package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/model"
	"github.com/safarnama/tourism-booking/internal/queue"
	"github.com/safarnama/tourism-booking/internal/repository"
)

// fakeStore is an in-memory BookingStore with per-method failure hooks.
type fakeStore struct {
	nextID    uint64
	lastRef   map[int]string // year -> last allocated reference
	items     map[uint64]*model.Booking
	createErr []error // consumed one per CreateWithReference call
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{lastRef: map[int]string{}, items: map[uint64]*model.Booking{}}
}

func (f *fakeStore) CreateWithReference(_ context.Context, b *model.Booking, year int) error {
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		if err != nil {
			return err
		}
	}
	ref, err := booking.NextReference(f.lastRef[year], year)
	if err != nil {
		return err
	}
	f.lastRef[year] = ref
	f.nextID++
	b.ID = f.nextID
	b.BookingReference = ref
	b.Status = booking.StatusPending
	b.CreatedAt = time.Now().UTC()
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]model.Booking, error) {
	out := make([]model.Booking, 0, len(f.items))
	for _, b := range f.items {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	for _, b := range f.items {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uint64, from, to booking.Status, eff booking.Effects) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	b, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != from {
		return repository.ErrConflict
	}
	b.Status = to
	applyEffects(b, eff)
	return nil
}

func (f *fakeStore) AttachScreenshot(_ context.Context, id, userID uint64, screenshot string) error {
	b, ok := f.items[id]
	if !ok || b.UserID != userID || b.Status != booking.StatusPending {
		return repository.ErrConflict
	}
	b.PaymentScreenshot = &screenshot
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newTestService(store BookingStore) (*BookingService, *[]queue.BookingEvent, *[]string) {
	events := &[]queue.BookingEvent{}
	mails := &[]string{}
	svc := &BookingService{
		store: store,
		publish: func(_ context.Context, ev queue.BookingEvent) error {
			*events = append(*events, ev)
			return nil
		},
		notify: func(email, ref, status, reason string) error {
			*mails = append(*mails, email+":"+status)
			return nil
		},
		now: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, events, mails
}

var (
	ownerActor = booking.Actor{ID: 3, Role: booking.RoleUser}
	adminActor = booking.Actor{ID: 9, Role: booking.RoleAdmin}
)

func validInput() CreateInput {
	return CreateInput{
		Name:           "Ali Khan",
		Username:       "alik",
		Email:          "Ali@Example.com",
		Destination:    "Hunza",
		StartDate:      "2025-07-01",
		EndDate:        "2025-07-03",
		Duration:       3,
		People:         2,
		PricePerPerson: 5000,
	}
}

func TestCreateComputesTotalAndAllocatesReference(t *testing.T) {
	store := newFakeStore()
	svc, events, _ := newTestService(store)

	b, err := svc.Create(context.Background(), validInput(), ownerActor)
	if err != nil {
		t.Fatal(err)
	}
	if b.BookingReference != "BOOK-2025-00001" {
		t.Errorf("reference = %q", b.BookingReference)
	}
	if b.TotalAmount != 30000 { // 2 people x 3 days x 5000
		t.Errorf("total = %d, want 30000", b.TotalAmount)
	}
	if b.Status != booking.StatusPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.Email != "ali@example.com" {
		t.Errorf("email not normalized: %q", b.Email)
	}
	if len(*events) != 1 || (*events)[0].Status != "pending" {
		t.Errorf("expected one pending event, got %v", *events)
	}

	b2, err := svc.Create(context.Background(), validInput(), ownerActor)
	if err != nil {
		t.Fatal(err)
	}
	if b2.BookingReference != "BOOK-2025-00002" {
		t.Errorf("second reference = %q", b2.BookingReference)
	}
}

func TestCreateExplicitTotalWins(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	in := validInput()
	in.TotalAmount = 25000 // discounted by an operator
	b, err := svc.Create(context.Background(), in, ownerActor)
	if err != nil {
		t.Fatal(err)
	}
	if b.TotalAmount != 25000 {
		t.Errorf("total = %d, want explicit 25000", b.TotalAmount)
	}
}

func TestCreateValidation(t *testing.T) {
	store := newFakeStore()
	svc, events, _ := newTestService(store)

	mutate := []func(*CreateInput){
		func(in *CreateInput) { in.Name = " " },
		func(in *CreateInput) { in.Email = "" },
		func(in *CreateInput) { in.Destination = "" },
		func(in *CreateInput) { in.StartDate = "" },
		func(in *CreateInput) { in.EndDate = "" },
		func(in *CreateInput) { in.Duration = 0 },
		func(in *CreateInput) { in.People = 0 },
		func(in *CreateInput) { in.PricePerPerson = 0 },
	}
	for i, m := range mutate {
		in := validInput()
		m(&in)
		if _, err := svc.Create(context.Background(), in, ownerActor); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: got %v, want ErrValidation", i, err)
		}
	}
	if len(store.items) != 0 {
		t.Error("invalid input persisted a booking")
	}
	if len(*events) != 0 {
		t.Error("invalid input emitted an event")
	}
}

func TestCreateRetriesOnReferenceCollision(t *testing.T) {
	store := newFakeStore()
	store.createErr = []error{repository.ErrConflict, repository.ErrConflict}
	svc, _, _ := newTestService(store)

	b, err := svc.Create(context.Background(), validInput(), ownerActor)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if b.BookingReference == "" {
		t.Error("no reference allocated after retries")
	}
}

func TestCreateSurfacesPersistentConflict(t *testing.T) {
	store := newFakeStore()
	store.createErr = []error{repository.ErrConflict, repository.ErrConflict, repository.ErrConflict}
	svc, _, _ := newTestService(store)

	if _, err := svc.Create(context.Background(), validInput(), ownerActor); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func seedBooking(t *testing.T, svc *BookingService, store *fakeStore, withEvidence bool) *model.Booking {
	t.Helper()
	in := validInput()
	if withEvidence {
		in.Screenshot = "data:image/png;base64,AAAA"
	}
	b, err := svc.Create(context.Background(), in, ownerActor)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestTransitionVerifyRecordsAudit(t *testing.T) {
	store := newFakeStore()
	svc, events, mails := newTestService(store)
	b := seedBooking(t, svc, store, true)

	out, err := svc.Transition(context.Background(), b.ID, booking.StatusVerified, adminActor, "")
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != booking.StatusVerified {
		t.Errorf("status = %s", out.Status)
	}
	if out.VerifiedBy == nil || *out.VerifiedBy != adminActor.ID {
		t.Error("VerifiedBy not set")
	}
	stored := store.items[b.ID]
	if stored.Status != booking.StatusVerified || stored.VerifiedAt == nil {
		t.Error("audit fields not persisted")
	}
	if len(*events) != 2 { // create + verify
		t.Errorf("events = %d, want 2", len(*events))
	}
	if len(*mails) != 1 || (*mails)[0] != "ali@example.com:verified" {
		t.Errorf("mails = %v", *mails)
	}
}

func TestTransitionVerifyWithoutEvidence(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	b := seedBooking(t, svc, store, false)

	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusVerified, adminActor, ""); !errors.Is(err, booking.ErrEvidenceMissing) {
		t.Fatalf("got %v, want ErrEvidenceMissing", err)
	}
}

func TestTransitionAuth(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	b := seedBooking(t, svc, store, true)

	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusVerified, ownerActor, ""); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("user verify: got %v, want ErrForbidden", err)
	}
	stranger := booking.Actor{ID: 77, Role: booking.RoleUser}
	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusRefunded, stranger, ""); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("stranger refund: got %v, want ErrForbidden", err)
	}
}

func TestTransitionLostRaceMapsToInvalidTransition(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	b := seedBooking(t, svc, store, true)
	store.updateErr = repository.ErrConflict

	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusVerified, adminActor, ""); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionUnknownBooking(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	if _, err := svc.Transition(context.Background(), 404, booking.StatusVerified, adminActor, ""); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRefundFlow(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	b := seedBooking(t, svc, store, false)

	out, err := svc.Transition(context.Background(), b.ID, booking.StatusRefunded, ownerActor, "")
	if err != nil {
		t.Fatal(err)
	}
	if out.RefundReason == nil || *out.RefundReason != "User requested refund" {
		t.Errorf("RefundReason = %v", out.RefundReason)
	}
	// Refunded is terminal.
	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusVerified, adminActor, ""); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestListScoping(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	seedBooking(t, svc, store, false)

	otherIn := validInput()
	if _, err := svc.Create(context.Background(), otherIn, booking.Actor{ID: 8, Role: booking.RoleUser}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(context.Background(), adminActor)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d bookings, want 2", len(all))
	}

	own, err := svc.List(context.Background(), ownerActor)
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 || own[0].UserID != ownerActor.ID {
		t.Errorf("owner list = %v", own)
	}
}

func TestGetOwnerOrAdmin(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	b := seedBooking(t, svc, store, false)

	if _, err := svc.Get(context.Background(), b.ID, ownerActor); err != nil {
		t.Errorf("owner get: %v", err)
	}
	if _, err := svc.Get(context.Background(), b.ID, adminActor); err != nil {
		t.Errorf("admin get: %v", err)
	}
	stranger := booking.Actor{ID: 77, Role: booking.RoleUser}
	if _, err := svc.Get(context.Background(), b.ID, stranger); !errors.Is(err, booking.ErrForbidden) {
		t.Errorf("stranger get: got %v, want ErrForbidden", err)
	}
}

func TestAttachEvidence(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	b := seedBooking(t, svc, store, false)

	if _, err := svc.AttachEvidence(context.Background(), b.ID, ownerActor, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank screenshot: got %v, want ErrValidation", err)
	}
	stranger := booking.Actor{ID: 77, Role: booking.RoleUser}
	if _, err := svc.AttachEvidence(context.Background(), b.ID, stranger, "data:..."); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("stranger upload: got %v, want ErrForbidden", err)
	}

	out, err := svc.AttachEvidence(context.Background(), b.ID, ownerActor, "data:image/png;base64,BBBB")
	if err != nil {
		t.Fatal(err)
	}
	if !out.HasEvidence() {
		t.Error("evidence not attached")
	}

	// Evidence is frozen once the booking leaves pending.
	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusVerified, adminActor, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AttachEvidence(context.Background(), b.ID, ownerActor, "data:new"); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Fatalf("post-verify upload: got %v, want ErrInvalidTransition", err)
	}
}

func TestDeletePolicy(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	// Owner can cancel a pending booking.
	b := seedBooking(t, svc, store, false)
	if err := svc.Delete(context.Background(), b.ID, ownerActor); err != nil {
		t.Fatalf("owner delete pending: %v", err)
	}

	// Owner cannot cancel once verified.
	b = seedBooking(t, svc, store, true)
	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusVerified, adminActor, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), b.ID, ownerActor); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("owner delete verified: got %v, want ErrConflict", err)
	}

	// Admin can remove a verified booking.
	if err := svc.Delete(context.Background(), b.ID, adminActor); err != nil {
		t.Fatalf("admin delete verified: %v", err)
	}

	// But not a refunded one: the audit trail survives.
	b = seedBooking(t, svc, store, false)
	if _, err := svc.Transition(context.Background(), b.ID, booking.StatusRefunded, ownerActor, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), b.ID, adminActor); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("admin delete refunded: got %v, want ErrConflict", err)
	}

	// Strangers get forbidden.
	b = seedBooking(t, svc, store, false)
	stranger := booking.Actor{ID: 77, Role: booking.RoleUser}
	if err := svc.Delete(context.Background(), b.ID, stranger); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("stranger delete: got %v, want ErrForbidden", err)
	}
}
