// Package cache keeps a short-lived Redis snapshot of pending profile lists.
// Every mutation invalidates, so stale reads are bounded by the TTL and the
// store remains the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"legacylink/internal/account/models"
	id "legacylink/pkg/domain"
)

const keyPrefix = "verification:pending:"

// PendingQueue caches pending profile listings per tenant scope. All methods
// are nil-receiver safe so callers need no branching when Redis is not
// configured.
type PendingQueue struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PendingQueue {
	if client == nil {
		return nil
	}
	return &PendingQueue{client: client, ttl: ttl, logger: logger}
}

func scopeKey(tenant *id.UniversityID) string {
	if tenant == nil {
		return keyPrefix + "all"
	}
	return keyPrefix + tenant.String()
}

// Get returns the cached listing for the scope, or (nil, false) on miss or
// any Redis failure.
func (q *PendingQueue) Get(ctx context.Context, tenant *id.UniversityID) ([]*models.Profile, bool) {
	if q == nil {
		return nil, false
	}
	raw, err := q.client.Get(ctx, scopeKey(tenant)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			q.logger.WarnContext(ctx, "pending cache read failed", "error", err)
		}
		return nil, false
	}
	var profiles []*models.Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		q.logger.WarnContext(ctx, "pending cache entry corrupt", "error", err)
		return nil, false
	}
	return profiles, true
}

// Set stores a listing for the scope. Failures are logged and swallowed.
func (q *PendingQueue) Set(ctx context.Context, tenant *id.UniversityID, profiles []*models.Profile) {
	if q == nil {
		return
	}
	raw, err := json.Marshal(profiles)
	if err != nil {
		q.logger.WarnContext(ctx, "pending cache encode failed", "error", err)
		return
	}
	if err := q.client.Set(ctx, scopeKey(tenant), raw, q.ttl).Err(); err != nil {
		q.logger.WarnContext(ctx, "pending cache write failed", "error", err)
	}
}

// Invalidate drops the tenant's cached listing along with the all-tenants
// listing, since both contain the mutated profile.
func (q *PendingQueue) Invalidate(ctx context.Context, tenant *id.UniversityID) {
	if q == nil {
		return
	}
	keys := []string{scopeKey(nil)}
	if tenant != nil {
		keys = append(keys, scopeKey(tenant))
	}
	if err := q.client.Del(ctx, keys...).Err(); err != nil {
		q.logger.WarnContext(ctx, "pending cache invalidation failed", "error", err)
	}
}
