package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/config"
)

// Standing is one entry of the live standings sorted set.
type Standing struct {
	TeamID int `json:"team_id"`
	Score  int `json:"score"`
}

// StandingsCache mirrors team scores into a Redis sorted set so the judge
// dashboard can read live standings without hitting Postgres. The database
// stays the source of truth; the cache is advisory and rebuilt on reset.
type StandingsCache struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewStandingsCache creates a new StandingsCache.
func NewStandingsCache(rdb *redis.Client, log zerolog.Logger) *StandingsCache {
	return &StandingsCache{
		rdb: rdb,
		log: log.With().Str("component", "standings_cache").Logger(),
	}
}

/// Update sets a team's live score. Errors are logged, not propagated:
// a stale standing must never fail a submission.
func (c *StandingsCache) Update(ctx context.Context, teamID, score int) {
	err := c.rdb.ZAdd(ctx, config.CacheKey.StandingsKey(), redis.Z{
		Score:  float64(score),
		Member: strconv.Itoa(teamID),
	}).Err()
	if err != nil {
		c.log.Warn().Err(err).Int("team_id", teamID).Msg("failed to update standings")
	}
}

// Top returns up to n standings ordered by score descending.
func (c *StandingsCache) Top(ctx context.Context, n int) ([]Standing, error) {
	zs, err := c.rdb.ZRevRangeWithScores(ctx, config.CacheKey.StandingsKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	standings := make([]Standing, 0, len(zs))
	for _, z := range zs {
		id, err := strconv.Atoi(z.Member.(string))
		if err != nil {
			continue
		}
		standings = append(standings, Standing{TeamID: id, Score: int(z.Score)})
	}
	return standings, nil
}

// Clear drops the whole sorted set. Used on round reset.
func (c *StandingsCache) Clear(ctx context.Context) {
	if err := c.rdb.Del(ctx, config.CacheKey.StandingsKey()).Err(); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear standings")
	}
}
