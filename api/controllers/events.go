package controllers

import (
	"net/http"

	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/api/validators"
	"github.com/cardchase/location-portal/internal/events"
	"github.com/cardchase/location-portal/pkg/enums"
	"github.com/cardchase/location-portal/pkg/logger"
)

// EventList returns weekly events split into active and inactive slots for the
// location's tier.
func EventList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "events")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		result, err := svc.List(r.Context(), loc.ID, loc.SubscriptionTier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type createEventRequest struct {
	Category  string `json:"category"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func EventCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "events")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body createEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Create(r.Context(), loc.ID, loc.SubscriptionTier, events.CreateInput{
			Category:  enums.EventCategory(body.Category),
			Day:       body.Day,
			StartTime: body.StartTime,
			EndTime:   body.EndTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, event)
	}
}

func EventDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "events")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		eventID, err := validators.ParsePathUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), loc.ID, eventID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
