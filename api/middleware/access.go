package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/internal/access"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/logger"
)

type accessMetrics interface {
	ObserveAccess(state string)
}

// Access resolves the caller's access snapshot from a fresh read on every
// request. It must run after Auth.
func Access(svc access.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := UserIDFromContext(ctx)
			if userID == uuid.Nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			snap, err := svc.Snapshot(ctx, userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithSnapshot(ctx, snap)
			if logg != nil {
				ctx = logg.WithAccessState(ctx, snap.State.String())
				if id := snap.LocationID(); id != uuid.Nil {
					ctx = logg.WithLocationID(ctx, id.String())
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Gate admits only callers whose access state is in allowed. Refusals carry
// the state and the portal path the client should navigate to.
func Gate(metrics accessMetrics, logg *logger.Logger, allowed ...access.State) func(http.Handler) http.Handler {
	permitted := make(map[access.State]struct{}, len(allowed))
	for _, state := range allowed {
		permitted[state] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, ok := SnapshotFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access snapshot missing"))
				return
			}
			if metrics != nil {
				metrics.ObserveAccess(snap.State.String())
			}

			if _, ok := permitted[snap.State]; !ok {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "not available in the current access state").
					WithDetails(map[string]string{
						"access_state": snap.State.String(),
						"redirect":     access.RedirectFor(snap.State),
					})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
