package controllers

import (
	"net/http"

	"github.com/cardchase/location-portal/api/middleware"
	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/api/validators"
	"github.com/cardchase/location-portal/internal/access"
	"github.com/cardchase/location-portal/internal/locations"
	"github.com/cardchase/location-portal/pkg/logger"
)

// IntakeSubmit creates the caller's location application.
func IntakeSubmit(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}

		var body locations.ApplicationInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loc, err := svc.SubmitIntake(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, loc)
	}
}

type pendingResponse struct {
	State    access.State          `json:"state"`
	Location locations.LocationDTO `json:"location"`
}

// PendingStatus shows a submitted application while it awaits review.
func PendingStatus(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc, snap := requireLocation(w, r, logg)
		if loc == nil {
			return
		}
		responses.WriteSuccess(w, pendingResponse{State: snap.State, Location: locations.FromModel(loc)})
	}
}

// PendingUpdate edits an application that has not been approved yet.
func PendingUpdate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body locations.ApplicationInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateApplication(r.Context(), loc, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
