// Package service composes the booking domain logic with persistence and
// messaging. BookingService is the lifecycle manager: it owns reference
// allocation retries, the verification state machine, and the side effects
// (events, notification mail) each transition triggers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/model"
	"github.com/safarnama/tourism-booking/internal/queue"
	"github.com/safarnama/tourism-booking/internal/repository"
	"github.com/safarnama/tourism-booking/internal/utils"
)

// ErrValidation marks user-correctable input errors (missing or invalid
// trip facts). Handlers translate it into an HTTP 400 response.
var ErrValidation = errors.New("validation error")

// createRetries bounds how often a creation is retried after a booking
// reference collision before the conflict is surfaced to the caller.
const createRetries = 3

// BookingStore is the persistence surface the lifecycle manager needs.
// *repository.BookingRepo satisfies it; tests substitute an in-memory fake.
type BookingStore interface {
	CreateWithReference(ctx context.Context, b *model.Booking, year int) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, from, to booking.Status, eff booking.Effects) error
	AttachScreenshot(ctx context.Context, id, userID uint64, screenshot string) error
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher delivers a booking event to the broker. Failures are
// logged and ignored: messaging must not fail the request.
type EventPublisher func(ctx context.Context, ev queue.BookingEvent) error

// Notifier sends a status-change mail to the traveler.
type Notifier func(email, bookingRef, status, reason string) error

// BookingService implements the booking lifecycle operations.
type BookingService struct {
	store   BookingStore
	publish EventPublisher
	notify  Notifier
	now     func() time.Time
}

// NewBookingService wires the lifecycle manager with its default
// collaborators (RabbitMQ publisher, Resend mailer).
func NewBookingService(store BookingStore) *BookingService {
	return &BookingService{
		store:   store,
		publish: queue.PublishBookingEvent,
		notify:  utils.SendBookingStatus,
		now:     time.Now,
	}
}

// CreateInput carries the trip facts for a new booking. TotalAmount may be
// zero, in which case it is computed as people × duration × price.
type CreateInput struct {
	Name           string
	Username       string
	Email          string
	Destination    string
	StartDate      string
	EndDate        string
	Duration       uint32
	People         uint32
	PricePerPerson int64
	TotalAmount    int64
	Screenshot     string
}

// Create validates the trip facts, allocates a booking reference and
// persists the booking with status pending. Reference collisions under
// concurrent creation are retried as a whole (allocation + insert); the
// final collision surfaces as repository.ErrConflict.
func (s *BookingService) Create(ctx context.Context, in CreateInput, owner booking.Actor) (*model.Booking, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	total := in.TotalAmount
	if total == 0 {
		total = int64(in.People) * int64(in.Duration) * in.PricePerPerson
	}
	b := &model.Booking{
		UserID:         owner.ID,
		Name:           strings.TrimSpace(in.Name),
		Username:       strings.TrimSpace(in.Username),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Destination:    strings.TrimSpace(in.Destination),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Duration:       in.Duration,
		People:         in.People,
		PricePerPerson: in.PricePerPerson,
		TotalAmount:    total,
	}
	if sc := strings.TrimSpace(in.Screenshot); sc != "" {
		b.PaymentScreenshot = &sc
	}

	year := s.now().UTC().Year()
	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		err = s.store.CreateWithReference(ctx, b, year)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	s.emit(ctx, b, "")
	return b, nil
}

// Transition moves a booking through the verification state machine on
// behalf of actor. Reason feeds the rejection/suspension/refund audit
// fields depending on the target state. Returned errors: repository.
// ErrNotFound, booking.ErrForbidden, booking.ErrInvalidTransition,
// booking.ErrEvidenceMissing, booking.ErrReasonRequired.
func (s *BookingService) Transition(ctx context.Context, id uint64, target booking.Status, actor booking.Actor, reason string) (*model.Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	eff, err := booking.ApplyTransition(booking.TransitionInput{
		From:        b.Status,
		To:          target,
		Actor:       actor,
		OwnerID:     b.UserID,
		HasEvidence: b.HasEvidence(),
		Reason:      reason,
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, id, b.Status, target, eff); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost a race against a concurrent transition; the booking is no
			// longer in the state the caller saw.
			return nil, booking.ErrInvalidTransition
		}
		return nil, err
	}

	b.Status = target
	applyEffects(b, eff)
	s.emit(ctx, b, strings.TrimSpace(reason))
	if s.notify != nil && b.Email != "" {
		if err := s.notify(b.Email, b.BookingReference, string(target), strings.TrimSpace(reason)); err != nil {
			log.Printf("booking: status mail for %s failed: %v", b.BookingReference, err)
		}
	}
	return b, nil
}

// List returns the bookings visible to actor: admins see everything,
// users only their own. Newest first.
func (s *BookingService) List(ctx context.Context, actor booking.Actor) ([]model.Booking, error) {
	if actor.Role == booking.RoleAdmin {
		return s.store.ListAll(ctx)
	}
	return s.store.ListByUser(ctx, actor.ID)
}

// Get returns one booking, restricted to its owner or an admin.
func (s *BookingService) Get(ctx context.Context, id uint64, actor booking.Actor) (*model.Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != booking.RoleAdmin && actor.ID != b.UserID {
		return nil, booking.ErrForbidden
	}
	return b, nil
}

// AttachEvidence stores the payment screenshot on a pending booking. Only
// the owner may upload, and only while the booking is still pending.
func (s *BookingService) AttachEvidence(ctx context.Context, id uint64, actor booking.Actor, screenshot string) (*model.Booking, error) {
	screenshot = strings.TrimSpace(screenshot)
	if screenshot == "" {
		return nil, fmt.Errorf("%w: payment screenshot is required", ErrValidation)
	}
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.ID {
		return nil, booking.ErrForbidden
	}
	if b.Status != booking.StatusPending {
		return nil, booking.ErrInvalidTransition
	}
	if err := s.store.AttachScreenshot(ctx, id, actor.ID, screenshot); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, booking.ErrInvalidTransition
		}
		return nil, err
	}
	b.PaymentScreenshot = &screenshot
	return b, nil
}

// Delete hard-removes a booking. Admins may delete any booking except a
// refunded one (the refund audit trail must survive until settled, reported
// as repository.ErrConflict). Owners may cancel only their own bookings
// while still pending.
func (s *BookingService) Delete(ctx context.Context, id uint64, actor booking.Actor) error {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case actor.Role == booking.RoleAdmin:
		if b.Status == booking.StatusRefunded {
			return repository.ErrConflict
		}
	case b.UserID == actor.ID:
		if b.Status != booking.StatusPending {
			return repository.ErrConflict
		}
	default:
		return booking.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

func (s *BookingService) emit(ctx context.Context, b *model.Booking, reason string) {
	if s.publish == nil {
		return
	}
	ev := queue.BookingEvent{
		EventID:          uuid.NewString(),
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		UserID:           b.UserID,
		Destination:      b.Destination,
		Status:           string(b.Status),
		Reason:           reason,
		TotalAmount:      b.TotalAmount,
		OccurredAt:       s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("booking: publish event for %s failed: %v", b.BookingReference, err)
	}
}

func validateCreate(in CreateInput) error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if strings.TrimSpace(in.Name) == "" {
		return missing("name")
	}
	if strings.TrimSpace(in.Email) == "" {
		return missing("email")
	}
	if strings.TrimSpace(in.Destination) == "" {
		return missing("destination")
	}
	if strings.TrimSpace(in.StartDate) == "" {
		return missing("start date")
	}
	if strings.TrimSpace(in.EndDate) == "" {
		return missing("end date")
	}
	if in.Duration == 0 {
		return missing("duration")
	}
	if in.People == 0 {
		return missing("party size")
	}
	if in.PricePerPerson <= 0 && in.TotalAmount <= 0 {
		return fmt.Errorf("%w: price per person must be positive", ErrValidation)
	}
	return nil
}

func applyEffects(b *model.Booking, eff booking.Effects) {
	if eff.VerifiedBy != nil {
		b.VerifiedBy = eff.VerifiedBy
	}
	if eff.VerifiedAt != nil {
		b.VerifiedAt = eff.VerifiedAt
	}
	if eff.RejectionReason != nil {
		b.RejectionReason = eff.RejectionReason
	}
	if eff.SuspensionReason != nil {
		b.SuspensionReason = eff.SuspensionReason
	}
	if eff.RefundedBy != nil {
		b.RefundedBy = eff.RefundedBy
	}
	if eff.RefundedAt != nil {
		b.RefundedAt = eff.RefundedAt
	}
	if eff.RefundReason != nil {
		b.RefundReason = eff.RefundReason
	}
}
