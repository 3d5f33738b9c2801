package handler

import (
	"net/http"
	"time"

	"salonops-backend/internal/identity"
)

// parseDateQuery reads an optional date query parameter, accepting the
// flexible formats clients use (02/01/2006, 2-1-06, 02012006).
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := identity.ParseFlexibleDate(value, false)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDateTimeField parses a required date-time body field.
func parseDateTimeField(value string) (time.Time, error) {
	return identity.ParseFlexibleDate(value, true)
}
