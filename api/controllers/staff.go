package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/api/middleware"
	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/api/validators"
	"github.com/cardchase/location-portal/internal/staff"
	"github.com/cardchase/location-portal/pkg/logger"
)

const maxSearchLength = 100

func StaffList(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "staff")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		members, err := svc.List(r.Context(), loc.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"staff": members})
	}
}

// StaffSearch finds users who could join the roster.
func StaffSearch(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "staff")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		query := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLength)
		candidates, err := svc.Search(r.Context(), loc.ID, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"results": candidates})
	}
}

type addStaffRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

func StaffAdd(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "staff")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body addStaffRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.Add(r.Context(), loc.ID, middleware.UserIDFromContext(r.Context()), body.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, member)
	}
}

func StaffRemove(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "staff")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		staffID, err := validators.ParsePathUUID(r, "staffId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), loc.ID, staffID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// StaffToggleAdmin flips a member between staff and admin.
func StaffToggleAdmin(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "staff")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		staffID, err := validators.ParsePathUUID(r, "staffId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member, err := svc.ToggleAdmin(r.Context(), loc.ID, staffID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}
