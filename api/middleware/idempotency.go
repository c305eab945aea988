package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cardchase/location-portal/api/responses"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/logger"
	pkgredis "github.com/cardchase/location-portal/pkg/redis"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	replayedHeader        = "Idempotent-Replayed"
	defaultIdempotencyTTL = 24 * time.Hour
	reviewIdempotencyTTL  = 7 * 24 * time.Hour
)

// idempotentRoute is a path template; {name} segments match any value. The
// middleware runs at group level, before chi resolves the final pattern, so
// templates are matched against the raw path.
type idempotentRoute struct {
	method   string
	segments []string
	ttl      time.Duration
}

func route(method, template string, ttl time.Duration) idempotentRoute {
	return idempotentRoute{method: method, segments: splitPath(template), ttl: ttl}
}

var idempotentRoutes = []idempotentRoute{
	route(http.MethodPost, "/api/v1/intake", defaultIdempotencyTTL),
	route(http.MethodPost, "/api/v1/staff", defaultIdempotencyTTL),
	route(http.MethodPost, "/api/v1/events", defaultIdempotencyTTL),
	route(http.MethodPost, "/api/v1/schedule/blocked", defaultIdempotencyTTL),
	route(http.MethodPost, "/api/v1/schedule/trades/{tradeId}/cancel", defaultIdempotencyTTL),
	route(http.MethodPost, "/api/v1/admin/applications/{applicationId}/approve", reviewIdempotencyTTL),
	route(http.MethodPost, "/api/v1/admin/applications/{applicationId}/reject", reviewIdempotencyTTL),
}

func (rt idempotentRoute) matches(method string, segments []string) bool {
	if rt.method != method || len(rt.segments) != len(segments) {
		return false
	}
	for i, want := range rt.segments {
		if strings.HasPrefix(want, "{") && strings.HasSuffix(want, "}") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if want != segments[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func routeTTL(method, path string) (time.Duration, bool) {
	segments := splitPath(path)
	for _, rt := range idempotentRoutes {
		if rt.matches(method, segments) {
			return rt.ttl, true
		}
	}
	return 0, false
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the first response for a repeated Idempotency-Key on
// the mutating routes above. The header is optional. Server errors are not
// recorded so a retry can succeed.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			ttl, ok := routeTTL(r.Method, r.URL.Path)
			if !ok || key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			scope := strings.Join([]string{UserIDFromContext(ctx).String(), r.Method, r.URL.Path}, "|")
			storeKey := store.IdempotencyKey(scope, key)

			stored, err := store.Get(ctx, storeKey)
			switch {
			case err != nil && !errors.Is(err, redis.Nil):
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			case stored != "":
				var record idempotencyRecord
				if err := json.Unmarshal([]byte(stored), &record); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				replay(w, record)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			status := capture.statusCode()
			if status >= http.StatusInternalServerError {
				return
			}
			payload, err := json.Marshal(idempotencyRecord{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				ContentType: capture.Header().Get("Content-Type"),
				RequestHash: requestHash,
			})
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "marshal idempotency record", err)
				}
				return
			}
			if _, err := store.SetNX(ctx, storeKey, string(payload), ttl); err != nil && logg != nil {
				logg.Error(ctx, "persist idempotency record", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, record idempotencyRecord) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
