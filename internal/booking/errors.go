// Package booking holds the payment-verification state machine and the
// booking-reference allocator. Both are pure functions over plain values so
// they can be exercised without a database; the repository and service layers
// compose them with persistence.
package booking

import "errors"

// ErrInvalidTransition is returned when a requested status change is not
// permitted from the booking's current status. Handlers should translate
// this into an HTTP 400 response.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrForbidden is returned when the acting user lacks the role or ownership
// required for a transition (403).
var ErrForbidden = errors.New("forbidden")

// ErrEvidenceMissing is returned when a booking is verified before a payment
// screenshot has been uploaded.
var ErrEvidenceMissing = errors.New("payment evidence missing")

// ErrReasonRequired is returned when a rejection is attempted without a
// rejection reason.
var ErrReasonRequired = errors.New("reason required")

// ErrBadReference is returned when a booking reference does not match the
// BOOK-<year>-<seq> format.
var ErrBadReference = errors.New("malformed booking reference")

// ErrSequenceExhausted is returned when the yearly sequence would exceed the
// five-digit field. References past 99999 would no longer sort correctly, so
// allocation refuses to issue them.
var ErrSequenceExhausted = errors.New("booking reference sequence exhausted for year")
