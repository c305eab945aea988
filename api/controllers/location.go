package controllers

import (
	"net/http"

	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/api/validators"
	"github.com/cardchase/location-portal/internal/locations"
	"github.com/cardchase/location-portal/pkg/logger"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

// LocationOverview returns the dashboard summary for an approved location.
func LocationOverview(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		overview, err := svc.Overview(r.Context(), loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

type visibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

func LocationVisibility(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body visibilityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.SetVisibility(r.Context(), loc, *body.Visible)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func LocationBusiness(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body locations.BusinessInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateBusiness(r.Context(), loc, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// LocationAddress saves the street address; the response says whether it
// could be geocoded.
func LocationAddress(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body locations.AddressInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateAddress(r.Context(), loc, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func LocationHours(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}
		responses.WriteSuccess(w, map[string]any{"hours": svc.GetHours(loc)})
	}
}

type hoursRequest struct {
	Hours map[string]timefmt.DayHours `json:"hours" validate:"required"`
}

func LocationUpdateHours(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body hoursRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hours, err := svc.UpdateHours(r.Context(), loc, body.Hours)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"hours": hours})
	}
}

type planRequest struct {
	Tier *int `json:"tier" validate:"required"`
}

func LocationChangePlan(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "location")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body planRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.ChangePlan(r.Context(), loc, *body.Tier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
