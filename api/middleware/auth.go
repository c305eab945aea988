package middleware

import (
	"errors"
	"net/http"

	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/api/validators"
	pkgAuth "github.com/cardchase/location-portal/pkg/auth"
	"github.com/cardchase/location-portal/pkg/auth/session"
	"github.com/cardchase/location-portal/pkg/config"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/logger"
)

const msgTokenExpired = "token expired"

// Auth authenticates the bearer token and checks that its session is still
// live. It seeds the context with the user id and token id; location state is
// resolved later by Access. Expired tokens get their own message so clients
// know to refresh.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reject := func(err error) { responses.WriteError(ctx, logg, w, err) }

			raw := validators.BearerToken(r)
			if raw == "" {
				reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, raw)
			switch {
			case errors.Is(err, pkgAuth.ErrTokenExpired):
				reject(pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgTokenExpired))
				return
			case err != nil:
				reject(pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			case claims.ID == "":
				reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				live, err := verifier.HasSession(ctx, claims.ID)
				if err != nil {
					reject(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !live {
					reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx = WithAccessID(WithUserID(ctx, claims.UserID), claims.ID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
