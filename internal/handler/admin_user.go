package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/safarnama/tourism-booking/internal/repository"
)

// AdminUserHandler serves the user-management endpoints, mounted behind
// RequireRole("admin").
type AdminUserHandler struct {
	Users *repository.UserRepo
}

func NewAdminUserHandler(u *repository.UserRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: u}
}

type suspendReq struct {
	IsSuspended bool `json:"isSuspended"`
}

// adminUserPart deliberately omits the password hash and reset-token
// columns from the wire shape.
type adminUserPart struct {
	ID          uint64    `json:"_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsSuspended bool      `json:"isSuspended"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List handles GET /api/users.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return respondDomainErr(c, err)
	}
	out := make([]adminUserPart, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserPart{
			ID: u.ID, Username: u.Username, Email: u.Email,
			Role: u.Role, IsSuspended: u.IsSuspended, CreatedAt: u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// SetSuspended handles PUT /api/users/:id, toggling the suspension flag.
func (h *AdminUserHandler) SetSuspended(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req suspendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Users.SetSuspended(ctx, id, req.IsSuspended); err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"_id": id, "isSuspended": req.IsSuspended})
}

// Delete handles DELETE /api/users/:id. Bookings and refresh tokens go with
// the user via ON DELETE CASCADE.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return respondDomainErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
