package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const roleCachePrefix = "support-bot:member-roles:"

// RoleCache keeps guild member role lists in Redis for a bounded time.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache creates a cache on top of r. A zero ttl disables expiry.
func NewRoleCache(r *Redis, ttl time.Duration) *RoleCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &RoleCache{client: r.Client, ttl: ttl}
}

func roleKey(guildID, userID string) string {
	return roleCachePrefix + guildID + ":" + userID
}

// GetRoles returns the cached roles and whether an entry existed.
func (c *RoleCache) GetRoles(ctx context.Context, guildID, userID string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, roleKey(guildID, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read role cache: %w", err)
	}
	var roles []string
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, false, fmt.Errorf("decode role cache: %w", err)
	}
	return roles, true, nil
}

// SetRoles stores the roles of a member.
func (c *RoleCache) SetRoles(ctx context.Context, guildID, userID string, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	encoded, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("encode role cache: %w", err)
	}
	if err := c.client.Set(ctx, roleKey(guildID, userID), encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("write role cache: %w", err)
	}
	return nil
}
