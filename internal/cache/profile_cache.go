package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/events"
)

const keyPrefix = "visage:profile:"

// ProfileCache keeps public identities in Redis for the profile endpoints.
// Failures are logged and treated as misses so the identity store stays authoritative.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProfileCache returns a cache; a nil client yields a pass-through cache.
func NewProfileCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProfileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileCache{client: client, ttl: ttl, logger: logger}
}

func profileKey(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

// Get returns the cached identity, if any.
func (c *ProfileCache) Get(ctx context.Context, userID int64) (*domain.Identity, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("profile cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil, false
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		c.logger.Warn("profile cache entry corrupt", zap.Int64("user_id", userID), zap.Error(err))
		return nil, false
	}
	return &identity, true
}

// Set stores the identity for the configured TTL.
func (c *ProfileCache) Set(ctx context.Context, identity *domain.Identity) {
	if c == nil || c.client == nil || identity == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, profileKey(identity.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache write failed", zap.Int64("user_id", identity.ID), zap.Error(err))
	}
}

// Invalidate drops the cached identity.
func (c *ProfileCache) Invalidate(ctx context.Context, userID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, profileKey(userID)).Err()
}

// HandleEvent evicts the subject of any identity mutation.
func (c *ProfileCache) HandleEvent(ctx context.Context, event events.Event) error {
	if event.SubjectID == 0 {
		return nil
	}
	return c.Invalidate(ctx, event.SubjectID)
}

// InvalidatingEvents lists the events after which a cached profile is stale.
var InvalidatingEvents = []events.EventType{
	events.EventUserUpdated,
	events.EventUserDeleted,
	events.EventProfileUpdated,
	events.EventPasswordChanged,
}
