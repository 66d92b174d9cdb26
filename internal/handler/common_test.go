package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/safarnama/tourism-booking/internal/booking"
	"github.com/safarnama/tourism-booking/internal/repository"
	"github.com/safarnama/tourism-booking/internal/service"
)

func TestRespondDomainErrTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", service.ErrValidation, http.StatusBadRequest},
		{"invalid transition", booking.ErrInvalidTransition, http.StatusBadRequest},
		{"evidence missing", booking.ErrEvidenceMissing, http.StatusBadRequest},
		{"reason required", booking.ErrReasonRequired, http.StatusBadRequest},
		{"forbidden", booking.ErrForbidden, http.StatusForbidden},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"conflict", repository.ErrConflict, http.StatusConflict},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"unknown", http.ErrHandlerTimeout, http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if err := respondDomainErr(c, tc.err); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tc.want {
				t.Errorf("code = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
