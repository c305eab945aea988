package env

import (
	"os"
	"strconv"
	"strings"
)

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// Bool parses key as a boolean; unparseable values yield fallback.
func Bool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(Get(key, ""))
	if err != nil {
		return fallback
	}
	return parsed
}
