package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/model"
)

func TestGenerateReceiptPDF(t *testing.T) {
	b := &model.Booking{
		ID:               1,
		BookingReference: "BOOK-2025-00001",
		Name:             "Ali Khan",
		Destination:      "Hunza",
		StartDate:        "2025-07-01",
		EndDate:          "2025-07-03",
		Duration:         3,
		People:           2,
		TotalAmount:      30000,
		Status:           booking.StatusVerified,
	}
	out, err := GenerateReceiptPDF(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF (starts %q)", out[:min(8, len(out))])
	}
}

func TestGenerateReceiptPDFRequiresVerified(t *testing.T) {
	for _, st := range []booking.Status{booking.StatusPending, booking.StatusRejected, booking.StatusSuspended, booking.StatusRefunded} {
		b := &model.Booking{BookingReference: "BOOK-2025-00001", Status: st}
		if _, err := GenerateReceiptPDF(b); !errors.Is(err, booking.ErrInvalidTransition) {
			t.Errorf("status %s: got %v, want ErrInvalidTransition", st, err)
		}
	}
}
