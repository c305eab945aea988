package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/api/middleware"
	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/internal/access"
	"github.com/cardchase/location-portal/pkg/enums"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/logger"
)

type accessResponse struct {
	State        access.State    `json:"state"`
	Redirect     string          `json:"redirect"`
	IsAdmin      bool            `json:"is_admin"`
	LocationID   *uuid.UUID      `json:"location_id,omitempty"`
	Role         enums.StaffRole `json:"role,omitempty"`
	Capabilities []string        `json:"capabilities"`
}

// AccessState reports where the caller stands so the client can pick a screen.
func AccessState(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := middleware.SnapshotFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access snapshot missing"))
			return
		}

		resp := accessResponse{
			State:        snap.State,
			Redirect:     access.RedirectFor(snap.State),
			IsAdmin:      snap.IsAdmin,
			Role:         snap.Capabilities.Role(),
			Capabilities: snap.Capabilities.Names(),
		}
		if id := snap.LocationID(); id != uuid.Nil {
			resp.LocationID = &id
		}
		responses.WriteSuccess(w, resp)
	}
}
