package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/model"
	"github.com/safarnama/tourism-booking/internal/service"
)

// BookingHandler serves the traveler-facing booking endpoints under
// /api/payments. Authorization beyond "logged in" lives in the service:
// owners see and mutate only their own bookings.
type BookingHandler struct {
	Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// ----- DTOs -----

type createBookingReq struct {
	Name              string `json:"name"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Destination       string `json:"destination"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	Duration          uint32 `json:"duration"`
	People            uint32 `json:"people"`
	PricePerPerson    int64  `json:"pricePerPerson"`
	TotalAmount       int64  `json:"totalAmount"`
	PaymentScreenshot string `json:"paymentScreenshot"`
}

type screenshotReq struct {
	PaymentScreenshot string `json:"paymentScreenshot"`
}

type refundReq struct {
	Reason string `json:"reason"`
}

// bookingResp mirrors the wire shape clients already consume: _id plus
// camelCase field names.
type bookingResp struct {
	ID                uint64     `json:"_id"`
	BookingReference  string     `json:"bookingReference"`
	UserID            uint64     `json:"userId"`
	Name              string     `json:"name"`
	Username          string     `json:"username,omitempty"`
	Email             string     `json:"email"`
	Destination       string     `json:"destination"`
	StartDate         string     `json:"startDate"`
	EndDate           string     `json:"endDate"`
	Duration          uint32     `json:"duration"`
	People            uint32     `json:"people"`
	PricePerPerson    int64      `json:"pricePerPerson"`
	TotalAmount       int64      `json:"totalAmount"`
	PaymentScreenshot *string    `json:"paymentScreenshot,omitempty"`
	Status            string     `json:"verificationStatus"`
	VerifiedBy        *uint64    `json:"verifiedBy,omitempty"`
	VerifiedAt        *time.Time `json:"verifiedAt,omitempty"`
	RejectionReason   *string    `json:"rejectionReason,omitempty"`
	SuspensionReason  *string    `json:"suspensionReason,omitempty"`
	RefundedBy        *uint64    `json:"refundedBy,omitempty"`
	RefundedAt        *time.Time `json:"refundedAt,omitempty"`
	RefundReason      *string    `json:"refundReason,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:                b.ID,
		BookingReference:  b.BookingReference,
		UserID:            b.UserID,
		Name:              b.Name,
		Username:          b.Username,
		Email:             b.Email,
		Destination:       b.Destination,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		Duration:          b.Duration,
		People:            b.People,
		PricePerPerson:    b.PricePerPerson,
		TotalAmount:       b.TotalAmount,
		PaymentScreenshot: b.PaymentScreenshot,
		Status:            string(b.Status),
		VerifiedBy:        b.VerifiedBy,
		VerifiedAt:        b.VerifiedAt,
		RejectionReason:   b.RejectionReason,
		SuspensionReason:  b.SuspensionReason,
		RefundedBy:        b.RefundedBy,
		RefundedAt:        b.RefundedAt,
		RefundReason:      b.RefundReason,
		CreatedAt:         b.CreatedAt,
	}
}

// Create handles POST /api/payments: validates trip facts, allocates the
// booking reference and stores the booking as pending.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Svc.Create(ctx, service.CreateInput{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		Destination:    req.Destination,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Duration:       req.Duration,
		People:         req.People,
		PricePerPerson: req.PricePerPerson,
		TotalAmount:    req.TotalAmount,
		Screenshot:     req.PaymentScreenshot,
	}, actorFrom(c))
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"_id":              b.ID,
		"bookingReference": b.BookingReference,
	})
}

// List handles GET /api/payments: admins get every booking, travelers their
// own, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Svc.List(ctx, actorFrom(c))
	if err != nil {
		return respondDomainErr(c, err)
	}
	out := make([]bookingResp, 0, len(items))
	for i := range items {
		out = append(out, toBookingResp(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// UserStatus handles GET /api/payments/user/status: a compact view of the
// caller's own bookings for the dashboard status widget.
func (h *BookingHandler) UserStatus(c echo.Context) error {
	actor := actorFrom(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Svc.List(ctx, actor)
	if err != nil {
		return respondDomainErr(c, err)
	}
	type statusPart struct {
		ID               uint64  `json:"_id"`
		BookingReference string  `json:"bookingReference"`
		Destination      string  `json:"destination"`
		Status           string  `json:"verificationStatus"`
		RejectionReason  *string `json:"rejectionReason,omitempty"`
		SuspensionReason *string `json:"suspensionReason,omitempty"`
	}
	out := make([]statusPart, 0, len(items))
	for i := range items {
		b := &items[i]
		if b.UserID != actor.ID {
			continue
		}
		out = append(out, statusPart{
			ID:               b.ID,
			BookingReference: b.BookingReference,
			Destination:      b.Destination,
			Status:           string(b.Status),
			RejectionReason:  b.RejectionReason,
			SuspensionReason: b.SuspensionReason,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/payments/:id (owner or admin).
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Svc.Get(ctx, id, actorFrom(c))
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// AttachScreenshot handles PUT /api/payments/:id/screenshot: the owner
// uploads payment evidence while the booking is still pending.
func (h *BookingHandler) AttachScreenshot(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req screenshotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Svc.AttachEvidence(ctx, id, actorFrom(c), req.PaymentScreenshot)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// RequestRefund handles PUT /api/payments/:id/refund: the owner pulls a
// still-pending booking back. The state machine fills in the default reason
// when none is given.
func (h *BookingHandler) RequestRefund(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req refundReq
	_ = c.Bind(&req)

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Svc.Transition(ctx, id, booking.StatusRefunded, actorFrom(c), req.Reason)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Delete handles DELETE /api/payments/:id. The service enforces the policy:
// admins may remove anything but refunded bookings, owners only their own
// pending ones.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Svc.Delete(ctx, id, actorFrom(c)); err != nil {
		return respondDomainErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Receipt handles GET /api/payments/:id/receipt: a PDF confirmation with a
// QR code, available once the booking is verified.
func (h *BookingHandler) Receipt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Svc.Get(ctx, id, actorFrom(c))
	if err != nil {
		return respondDomainErr(c, err)
	}
	pdf, err := service.GenerateReceiptPDF(b)
	if err != nil {
		return respondDomainErr(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="receipt-`+b.BookingReference+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
