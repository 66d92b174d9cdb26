package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/model"
)

// GenerateReceiptPDF renders a single-page booking confirmation with a QR
// code of the booking reference. Only verified bookings carry a receipt;
// anything else returns booking.ErrInvalidTransition.
func GenerateReceiptPDF(b *model.Booking) ([]byte, error) {
	if b.Status != booking.StatusVerified {
		return nil, booking.ErrInvalidTransition
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetAutoPageBreak(false, 0)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "SAFARNAMA TOURS - BOOKING CONFIRMATION")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	row("Booking Ref", b.BookingReference)
	row("Traveler", b.Name)
	row("Destination", b.Destination)
	row("Travel Dates", fmt.Sprintf("%s to %s (%d days)", b.StartDate, b.EndDate, b.Duration))
	row("Party Size", fmt.Sprintf("%d", b.People))
	row("Total Amount", fmt.Sprintf("PKR %d", b.TotalAmount))
	if b.VerifiedAt != nil {
		row("Verified At", b.VerifiedAt.Format("2006-01-02 15:04 MST"))
	}

	// QR code encodes the booking reference for gate-side lookup.
	png, err := qrcode.Encode(b.BookingReference, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("booking-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("booking-qr", 150, 40, 40, 40, false, opts, 0, "")

	pdf.SetY(270)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Present this confirmation together with a photo ID at departure.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
