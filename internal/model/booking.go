package model

import (
	"time"

	"github.com/safarnama/tourism-booking/internal/booking"
)

// Booking records a single trip reservation together with its payment
// verification state. It corresponds to a row in the `bookings` table.
// Trip facts (traveler, destination, dates, party size, pricing) are set at
// creation and never change; the verification columns are written only by
// the transition that owns them.
//
// Fields:
//  ID                – primary key identifier.
//  BookingReference  – unique human-readable id, BOOK-<year>-<seq>.
//  UserID            – user who created the booking (its owner).
//  Name              – traveler name as entered on the booking form.
//  Username          – account username snapshot at booking time.
//  Email             – contact email for status notifications.
//  Destination       – destination name (denormalized, as booked).
//  StartDate/EndDate – trip dates, YYYY-MM-DD.
//  Duration          – trip length in days.
//  People            – party size.
//  PricePerPerson    – per person per day price.
//  TotalAmount       – people × duration × price per person.
//  PaymentScreenshot – inline base64 payment evidence (nil until uploaded).
//  Status            – verification status, see internal/booking.
//  VerifiedBy/At     – admin and time of the verify/reject/suspend action.
//  RejectionReason   – set by pending|suspended → rejected.
//  SuspensionReason  – set by pending → suspended when provided.
//  RefundedBy/At     – owner and time of a refund request.
//  RefundReason      – reason text recorded with the refund.
//  CreatedAt         – creation timestamp.
type Booking struct {
	ID                uint64         // bookings.id
	BookingReference  string         // bookings.booking_reference
	UserID            uint64         // bookings.user_id
	Name              string         // bookings.name
	Username          string         // bookings.username
	Email             string         // bookings.email
	Destination       string         // bookings.destination
	StartDate         string         // bookings.start_date
	EndDate           string         // bookings.end_date
	Duration          uint32         // bookings.duration (days)
	People            uint32         // bookings.people
	PricePerPerson    int64          // bookings.price_per_person
	TotalAmount       int64          // bookings.total_amount
	PaymentScreenshot *string        // bookings.payment_screenshot (nullable)
	Status            booking.Status // bookings.verification_status
	VerifiedBy        *uint64        // bookings.verified_by (nullable)
	VerifiedAt        *time.Time     // bookings.verified_at (nullable)
	RejectionReason   *string        // bookings.rejection_reason (nullable)
	SuspensionReason  *string        // bookings.suspension_reason (nullable)
	RefundedBy        *uint64        // bookings.refunded_by (nullable)
	RefundedAt        *time.Time     // bookings.refunded_at (nullable)
	RefundReason      *string        // bookings.refund_reason (nullable)
	CreatedAt         time.Time      // bookings.created_at
}

// HasEvidence reports whether a payment screenshot has been uploaded.
func (b *Booking) HasEvidence() bool {
	return b.PaymentScreenshot != nil && *b.PaymentScreenshot != ""
}
