package geofence

import (
	"context"
	"errors"
	"fmt"
	"math"
)

const (
	// RadiusInMeters is the radius of every reminder geofence
	RadiusInMeters = 100.0
	// MaxGeofences mirrors the per-app limit of platform geofencing
	MaxGeofences = 100
	// MaxPerRequest is the number of geofences accepted by a single Add call
	MaxPerRequest = 5
)

// Status codes reported alongside geofencing errors
const (
	StatusNotAvailable          = 1000
	StatusTooManyGeofences      = 1001
	StatusTooManyPendingIntents = 1002
)

var (
	ErrNotAvailable          = &Error{Code: StatusNotAvailable, msg: "geofence service is not available"}
	ErrTooManyGeofences      = &Error{Code: StatusTooManyGeofences, msg: "too many geofences registered"}
	ErrTooManyPendingIntents = &Error{Code: StatusTooManyPendingIntents, msg: "too many geofences in one request"}
)

// Error is a geofencing failure with its status code
type Error struct {
	Code int
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NotAvailable wraps a backend failure as ErrNotAvailable
func NotAvailable(err error) error {
	return &Error{Code: StatusNotAvailable, msg: ErrNotAvailable.msg, err: err}
}

// ErrorMessage returns the user-facing text for a geofencing error
func ErrorMessage(err error) string {
	var gerr *Error
	if !errors.As(err, &gerr) {
		return "Unknown error: the Geofence service is not available now."
	}
	switch gerr.Code {
	case StatusNotAvailable:
		return "Geofence service is not available now. Go to Settings>Location>Mode and choose High accuracy."
	case StatusTooManyGeofences:
		return "Your app has registered too many geofences."
	case StatusTooManyPendingIntents:
		return "You have provided too many PendingIntents to the addGeofences() call."
	default:
		return "Unknown error: the Geofence service is not available now."
	}
}

// Geofence is a circular region around a reminder's location
type Geofence struct {
	RequestID    string  `json:"request_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// Contains reports whether the point lies inside the fence
func (g Geofence) Contains(lat, lng float64) bool {
	return Distance(g.Latitude, g.Longitude, lat, lng) <= g.RadiusMeters
}

// Registry stores geofences and answers containment queries.
// Geofences never expire; they stay until removed.
type Registry interface {
	Add(ctx context.Context, fences ...Geofence) error
	Remove(ctx context.Context, requestIDs ...string) error
	RemoveAll(ctx context.Context) error
	Containing(ctx context.Context, lat, lng float64) ([]Geofence, error)
}

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters (haversine)
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
