package controllers

import (
	"net/http"

	"github.com/cardchase/location-portal/api/middleware"
	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/internal/access"
	"github.com/cardchase/location-portal/pkg/db/models"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/logger"
)

// requireLocation returns the caller's location from the access snapshot. It
// writes the error response and returns nil when there is none.
func requireLocation(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*models.Location, access.Snapshot) {
	snap, ok := middleware.SnapshotFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access snapshot missing"))
		return nil, snap
	}
	loc := snap.Location()
	if loc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "location context missing").
			WithDetails(map[string]string{
				"access_state": snap.State.String(),
				"redirect":     access.RedirectFor(snap.State),
			}))
		return nil, snap
	}
	return loc, snap
}

func serviceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
