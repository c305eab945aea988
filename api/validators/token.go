package validators

import (
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

// BearerToken returns the token from the Authorization header, or "" when the
// header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(raw[len(bearerPrefix):])
}
