package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/service"
)

// AdminBookingHandler serves the verification endpoint; it is mounted
// behind RequireRole("admin").
type AdminBookingHandler struct {
	Svc *service.BookingService
}

func NewAdminBookingHandler(svc *service.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{Svc: svc}
}

type verifyReq struct {
	Status           string `json:"status"`
	RejectionReason  string `json:"rejectionReason"`
	SuspensionReason string `json:"suspensionReason"`
}

// Verify handles PUT /api/payments/:id/verify. The body names the target
// state (verified, rejected or suspended); the state machine decides
// whether the move is legal from the booking's current state.
func (h *AdminBookingHandler) Verify(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	target, ok := booking.ParseStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	var reason string
	switch target {
	case booking.StatusVerified:
		// no reason on the happy path
	case booking.StatusRejected:
		reason = strings.TrimSpace(req.RejectionReason)
	case booking.StatusSuspended:
		reason = strings.TrimSpace(req.SuspensionReason)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be verified, rejected or suspended"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Svc.Transition(ctx, id, target, actorFrom(c), reason)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}
