package web

import (
	"fmt"
	"net/http"
	"strconv"
)

// Query parameter parsing for list/search endpoints. Every helper treats an
// absent parameter as "not supplied" and a malformed one as a validation
// failure the caller reports with EC 1 / HTTP 400.

// QueryInt returns the named parameter as an int, or def when absent.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return v, nil
}

// QueryOptInt64 returns the named parameter as *int64, nil when absent.
func QueryOptInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return &v, nil
}

// QueryOptFloat returns the named parameter as *float64, nil when absent.
func QueryOptFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return &v, nil
}

// QueryOptBool returns the named parameter as *bool, nil when absent.
func QueryOptBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return &v, nil
}

// Clamp bounds v to the inclusive range [low, high].
func Clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
