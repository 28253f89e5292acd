// Package cache memoizes a problem's enumerated placements in Redis,
// keyed by problem hash instead of a token or room id.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crossplay/backend/pkg/xword"
)

const placementsTTL = 24 * time.Hour

// Cache wraps a Redis client. A nil *Cache is valid and every method on it
// is a no-op, so callers can run with GetPlacements/SetPlacements unused
// when Redis is unreachable at startup — the same "running in demo mode"
// degradation cmd/server/main.go applies to its database connection.
type Cache struct {
	rdb *redis.Client
}

// New parses redisURL and pings it once. It returns a nil *Cache (not an
// error) when the connection cannot be established, so callers degrade
// instead of failing startup.
func New(redisURL string) *Cache {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil
	}

	return &Cache{rdb: rdb}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func placementsKey(problemHash string) string {
	return "placements:" + problemHash
}

// PlacementRecord is the JSON shape stashed per enumerated placement —
// enough to reconstruct a *xword.Placement against a Problem's dictionary
// without retaining the owning Problem's word arena across the cache
// boundary.
type PlacementRecord struct {
	Y, X        int
	Orientation int
	Word        string
}

// SetPlacements stores the enumerated placements for a problem, identified
// by problemHash (the caller's content hash of height/width/open/dictionary).
// No-op on a nil Cache.
func (c *Cache) SetPlacements(ctx context.Context, problemHash string, records []PlacementRecord) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("cache: marshal placements: %w", err)
	}
	return c.rdb.Set(ctx, placementsKey(problemHash), data, placementsTTL).Err()
}

// GetPlacements returns the cached placements for problemHash, or
// (nil, false, nil) on a cache miss. No-op (always a miss) on a nil Cache.
func (c *Cache) GetPlacements(ctx context.Context, problemHash string) ([]PlacementRecord, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, placementsKey(problemHash)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get placements: %w", err)
	}
	var records []PlacementRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, false, fmt.Errorf("cache: unmarshal placements: %w", err)
	}
	return records, true, nil
}

// RecordsFromPlacements converts enumerated placements to their cache
// representation.
func RecordsFromPlacements(places []*xword.Placement) []PlacementRecord {
	records := make([]PlacementRecord, len(places))
	for i, p := range places {
		records[i] = PlacementRecord{Y: p.Y, X: p.X, Orientation: int(p.Orientation), Word: p.Word.String()}
	}
	return records
}

// PlacementsFromRecords resolves cached placement records back against
// problem's dictionary, re-minting *xword.Placement values anchored in
// problem's own word arena. A record whose word is no longer in the
// dictionary is skipped.
func PlacementsFromRecords(records []PlacementRecord, problem *xword.Problem) []*xword.Placement {
	byWord := make(map[string]xword.Word, len(problem.Dictionary))
	for _, w := range problem.Dictionary {
		byWord[w.String()] = w
	}

	places := make([]*xword.Placement, 0, len(records))
	for i, r := range records {
		word, ok := byWord[r.Word]
		if !ok {
			continue
		}
		places = append(places, &xword.Placement{
			ID:          xword.PlacementID(i),
			Y:           r.Y,
			X:           r.X,
			Orientation: xword.Orientation(r.Orientation),
			Word:        word,
		})
	}
	return places
}
