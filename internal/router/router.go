// Package router maps the HTTP surface onto handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/handler"
	"github.com/safarnama/tourism-booking/internal/middleware"
)

// Deps bundles everything route registration needs.
type Deps struct {
	JWTSecret string

	Auth         *handler.AuthHandler
	Bookings     *handler.BookingHandler
	AdminBooking *handler.AdminBookingHandler
	Destinations *handler.DestinationHandler
	AdminUsers   *handler.AdminUserHandler

	Health    echo.HandlerFunc
	RateLimit echo.MiddlewareFunc // nil disables
	Cache     echo.MiddlewareFunc // nil disables
}

// Register wires all routes. Public reads sit in front of the cache
// middleware; everything under /api (except auth and destinations reads)
// requires a valid access token, and admin routes additionally require the
// admin role.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health)

	// Public catalogue, cacheable.
	pub := e.Group("")
	if d.Cache != nil {
		pub.Use(d.Cache)
	}
	pub.GET("/api/destinations", d.Destinations.List)
	pub.GET("/api/destination/:name", d.Destinations.GetByName)

	// Auth endpoints. Logout also works with just a bearer token, so the
	// JWT middleware is applied to it separately below.
	auth := e.Group("/api/auth")
	if d.RateLimit != nil {
		auth.Use(d.RateLimit)
	}
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/forgotpassword", d.Auth.ForgotPassword)
	auth.PUT("/resetpassword/:token", d.Auth.ResetPassword)

	jwtAuth := middleware.JWTAuth(d.JWTSecret)
	e.GET("/api/auth/me", d.Auth.Me, jwtAuth)

	// Booking lifecycle, owner-scoped inside the service.
	api := e.Group("/api")
	api.Use(jwtAuth)
	if d.RateLimit != nil {
		api.Use(d.RateLimit)
	}
	api.POST("/payments", d.Bookings.Create)
	api.GET("/payments", d.Bookings.List)
	api.GET("/payments/user/status", d.Bookings.UserStatus)
	api.GET("/payments/:id", d.Bookings.Get)
	api.PUT("/payments/:id/screenshot", d.Bookings.AttachScreenshot)
	api.PUT("/payments/:id/refund", d.Bookings.RequestRefund)
	api.DELETE("/payments/:id", d.Bookings.Delete)
	api.GET("/payments/:id/receipt", d.Bookings.Receipt)

	// Admin-only management.
	admin := api.Group("", middleware.RequireRole(booking.RoleAdmin))
	admin.PUT("/payments/:id/verify", d.AdminBooking.Verify)
	admin.POST("/destinations", d.Destinations.Create)
	admin.PUT("/destinations/:id", d.Destinations.Update)
	admin.DELETE("/destinations/:id", d.Destinations.Delete)
	admin.GET("/users", d.AdminUsers.List)
	admin.PUT("/users/:id", d.AdminUsers.SetSuspended)
	admin.DELETE("/users/:id", d.AdminUsers.Delete)
}
