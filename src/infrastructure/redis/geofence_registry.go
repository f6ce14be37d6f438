package redis

import (
	"context"
	"errors"

	"location-reminder/src/geofence"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// GeofenceRegistry stores geofence centers in a Redis geo set.
// Every fence in the set shares the registry radius, so a GEORADIUS
// query around the device position finds exactly the fences containing it.
type GeofenceRegistry struct {
	client    *Client
	key       string
	radius    float64
	maxFences int
	logger    *logrus.Logger
}

var _ geofence.Registry = (*GeofenceRegistry)(nil)

// NewGeofenceRegistry creates a registry on the given key
func NewGeofenceRegistry(client *Client, key string, radiusMeters float64, maxFences int, logger *logrus.Logger) *GeofenceRegistry {
	if radiusMeters <= 0 {
		radiusMeters = geofence.RadiusInMeters
	}
	if maxFences <= 0 {
		maxFences = geofence.MaxGeofences
	}
	return &GeofenceRegistry{
		client:    client,
		key:       key,
		radius:    radiusMeters,
		maxFences: maxFences,
		logger:    logger,
	}
}

// maxAddAttempts bounds the optimistic retries when the set changes between
// the limit check and GEOADD
const maxAddAttempts = 5

// Add registers the fences with GEOADD after checking the registry limits.
// The check and the write run under WATCH on the key, so concurrent adds
// cannot push the set past maxFences.
func (r *GeofenceRegistry) Add(ctx context.Context, fences ...geofence.Geofence) error {
	if len(fences) == 0 {
		return nil
	}
	if len(fences) > geofence.MaxPerRequest {
		return geofence.ErrTooManyPendingIntents
	}

	locations := make([]*redis.GeoLocation, 0, len(fences))
	for _, f := range fences {
		locations = append(locations, &redis.GeoLocation{
			Name:      f.RequestID,
			Longitude: f.Longitude,
			Latitude:  f.Latitude,
		})
	}

	add := func(tx *redis.Tx) error {
		count, err := tx.ZCard(ctx, r.key).Result()
		if err != nil {
			return err
		}

		added, err := r.countNew(ctx, tx, fences)
		if err != nil {
			return err
		}
		if int(count)+added > r.maxFences {
			return geofence.ErrTooManyGeofences
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.GeoAdd(ctx, r.key, locations...)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		err = r.client.Watch(ctx, add, r.key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		r.logger.WithField("attempt", attempt+1).Debug("ジオフェンスの登録が競合したため再試行します")
	}

	if err != nil {
		if errors.Is(err, geofence.ErrTooManyGeofences) {
			return err
		}
		r.logger.WithError(err).Error("ジオフェンスの登録に失敗")
		return geofence.NotAvailable(err)
	}

	r.logger.WithField("count", len(fences)).Debug("ジオフェンスを登録しました")
	return nil
}

// countNew returns how many distinct request ids among the fences are not in the set yet
func (r *GeofenceRegistry) countNew(ctx context.Context, tx *redis.Tx, fences []geofence.Geofence) (int, error) {
	ids := make([]string, 0, len(fences))
	seen := make(map[string]struct{}, len(fences))
	for _, f := range fences {
		if _, ok := seen[f.RequestID]; ok {
			continue
		}
		seen[f.RequestID] = struct{}{}
		ids = append(ids, f.RequestID)
	}

	cmds := make([]*redis.FloatCmd, 0, len(ids))
	_, err := tx.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			cmds = append(cmds, pipe.ZScore(ctx, r.key, id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}

	added := 0
	for _, cmd := range cmds {
		if errors.Is(cmd.Err(), redis.Nil) {
			added++
		}
	}
	return added, nil
}

func (r *GeofenceRegistry) Remove(ctx context.Context, requestIDs ...string) error {
	if len(requestIDs) == 0 {
		return nil
	}

	members := make([]interface{}, len(requestIDs))
	for i, id := range requestIDs {
		members[i] = id
	}

	if err := r.client.ZRem(ctx, r.key, members...).Err(); err != nil {
		return geofence.NotAvailable(err)
	}
	return nil
}

func (r *GeofenceRegistry) RemoveAll(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return geofence.NotAvailable(err)
	}
	return nil
}

// Containing returns the fences around the point, nearest first
func (r *GeofenceRegistry) Containing(ctx context.Context, lat, lng float64) ([]geofence.Geofence, error) {
	locations, err := r.client.GeoRadius(ctx, r.key, lng, lat, &redis.GeoRadiusQuery{
		Radius:    r.radius,
		Unit:      "m",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, geofence.NotAvailable(err)
	}

	fences := make([]geofence.Geofence, 0, len(locations))
	for _, loc := range locations {
		fences = append(fences, geofence.Geofence{
			RequestID:    loc.Name,
			Latitude:     loc.Latitude,
			Longitude:    loc.Longitude,
			RadiusMeters: r.radius,
		})
	}
	return fences, nil
}
