package geofence

import (
	"context"
	"sort"
	"sync"
)

// MemoryRegistry keeps geofences in process memory
type MemoryRegistry struct {
	mu        sync.RWMutex
	fences    map[string]Geofence
	radius    float64
	maxFences int
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates a registry; zero values fall back to the defaults
func NewMemoryRegistry(radiusMeters float64, maxFences int) *MemoryRegistry {
	if radiusMeters <= 0 {
		radiusMeters = RadiusInMeters
	}
	if maxFences <= 0 {
		maxFences = MaxGeofences
	}
	return &MemoryRegistry{
		fences:    make(map[string]Geofence),
		radius:    radiusMeters,
		maxFences: maxFences,
	}
}

// Add registers the fences. Re-adding a request id replaces it. The call is
// rejected as a whole if it would exceed either limit.
func (m *MemoryRegistry) Add(ctx context.Context, fences ...Geofence) error {
	if err := ctx.Err(); err != nil {
		return NotAvailable(err)
	}
	if len(fences) > MaxPerRequest {
		return ErrTooManyPendingIntents
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	added := make(map[string]struct{}, len(fences))
	for _, f := range fences {
		if _, exists := m.fences[f.RequestID]; !exists {
			added[f.RequestID] = struct{}{}
		}
	}
	if len(m.fences)+len(added) > m.maxFences {
		return ErrTooManyGeofences
	}

	for _, f := range fences {
		f.RadiusMeters = m.radius
		m.fences[f.RequestID] = f
	}
	return nil
}

func (m *MemoryRegistry) Remove(ctx context.Context, requestIDs ...string) error {
	if err := ctx.Err(); err != nil {
		return NotAvailable(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range requestIDs {
		delete(m.fences, id)
	}
	return nil
}

func (m *MemoryRegistry) RemoveAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return NotAvailable(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.fences = make(map[string]Geofence)
	return nil
}

// Containing returns the fences around the point, nearest first
func (m *MemoryRegistry) Containing(ctx context.Context, lat, lng float64) ([]Geofence, error) {
	if err := ctx.Err(); err != nil {
		return nil, NotAvailable(err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Geofence, 0)
	for _, f := range m.fences {
		if f.Contains(lat, lng) {
			matches = append(matches, f)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return Distance(lat, lng, matches[i].Latitude, matches[i].Longitude) <
			Distance(lat, lng, matches[j].Latitude, matches[j].Longitude)
	})
	return matches, nil
}

// Len returns the number of registered fences
func (m *MemoryRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.fences)
}
