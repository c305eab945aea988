package controllers

import (
	"net/http"
	"time"

	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/api/validators"
	"github.com/cardchase/location-portal/internal/schedule"
	"github.com/cardchase/location-portal/pkg/logger"
)

// ScheduleWeek returns the Sunday-to-Saturday week containing ?anchor=YYYY-MM-DD,
// defaulting to the current week.
func ScheduleWeek(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "schedule")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		anchor, err := validators.ParseQueryDate(r, "anchor", time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		week, err := svc.Week(r.Context(), loc.ID, anchor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, week)
	}
}

func ScheduleCancelTrade(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "schedule")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		tradeID, err := validators.ParsePathUUID(r, "tradeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		trade, err := svc.CancelTrade(r.Context(), loc, tradeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trade)
	}
}

// ScheduleBlockTime stores a blocked period. Overlapping trades are returned
// and, with cancel_conflicts, cancelled.
func ScheduleBlockTime(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "schedule")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		var body schedule.BlockInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.BlockTime(r.Context(), loc, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, result)
	}
}

func ScheduleListBlocked(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "schedule")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		blocks, err := svc.ListBlocked(r.Context(), loc.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"blocked": blocks})
	}
}

func ScheduleDeleteBlocked(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "schedule")
			return
		}
		loc, _ := requireLocation(w, r, logg)
		if loc == nil {
			return
		}

		blockID, err := validators.ParsePathUUID(r, "blockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteBlocked(r.Context(), loc.ID, blockID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
