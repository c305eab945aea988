package instance

import (
	"os"

	"github.com/cardchase/location-portal/pkg/env"
)

// ID names this process in logs. PORTAL_INSTANCE_ID wins, then DYNO, then the
// hostname.
func ID() string {
	if id := env.Get("PORTAL_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
