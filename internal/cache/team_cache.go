// Package cache provides a Redis read-through cache over the team store.
// Every slash command needs the team's access token and bot user, so those
// lookups are cached; the cache is best-effort and falls back to the store on
// any Redis failure.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JosephusPaye/memelord/internal/domain"
)

const defaultTeamTTL = time.Hour

// NewRedisClient creates a go-redis client from a URL and verifies the
// connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// TeamCache decorates a TeamRepository with cached team reads. Divider
// operations pass straight through: a divider changes on every /divide, so
// caching it buys nothing.
type TeamCache struct {
	inner domain.TeamRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewTeamCache(inner domain.TeamRepository, rdb *redis.Client) *TeamCache {
	return &TeamCache{inner: inner, rdb: rdb, ttl: defaultTeamTTL}
}

func teamKey(teamID string) string {
	return "team:" + teamID
}

func (c *TeamCache) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	cached, err := c.rdb.Get(ctx, teamKey(teamID)).Bytes()
	if err == nil {
		team := &domain.Team{}
		if err := json.Unmarshal(cached, team); err == nil {
			return team, nil
		}
		slog.Warn("discarding undecodable cached team", "team_id", teamID)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("team cache read failed", "team_id", teamID, "error", err)
	}

	team, err := c.inner.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(team); err == nil {
		if err := c.rdb.Set(ctx, teamKey(teamID), encoded, c.ttl).Err(); err != nil {
			slog.Warn("team cache write failed", "team_id", teamID, "error", err)
		}
	}
	return team, nil
}

func (c *TeamCache) UpsertTeam(ctx context.Context, team *domain.Team) error {
	if err := c.inner.UpsertTeam(ctx, team); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, teamKey(team.TeamID)).Err(); err != nil {
		slog.Warn("team cache invalidation failed", "team_id", team.TeamID, "error", err)
	}
	return nil
}

func (c *TeamCache) SaveDivider(ctx context.Context, teamID, messageID string) error {
	return c.inner.SaveDivider(ctx, teamID, messageID)
}

func (c *TeamCache) GetDivider(ctx context.Context, teamID string) (string, error) {
	return c.inner.GetDivider(ctx, teamID)
}
