package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/comrelyy/blog-7-Eleven/localcache"
)

// Legacy cache keys written by the local-only predecessor of this layer.
const (
	cacheKeyEvents    = "checkin-events"
	cacheKeyRecords   = "checkin-records"
	cacheKeyPositions = "checkin-positions"
	cacheKeyThoughts  = "thoughts"
)

// MigrateCheckinIfNeeded moves a legacy local-only check-in snapshot into
// the remote store exactly once. Remote data present means the remote is
// already authoritative and the call is a no-op, regardless of cache
// content. A failed remote existence check returns an error without
// touching anything; the caller should rerun the whole startup sequence.
// The cache is cleared only after the remote write is confirmed.
func (c *Client) MigrateCheckinIfNeeded(ctx context.Context) (bool, error) {
	if c.cache == nil {
		return false, nil
	}

	remote, err := c.LoadCheckin(ctx)
	if err != nil {
		return false, fmt.Errorf("checking remote checkin data: %w", err)
	}
	if remote != nil {
		return false, nil
	}

	data := NewCheckinData()
	if err := c.readCachedJSON(ctx, cacheKeyEvents, &data.Events); err != nil {
		return false, err
	}
	if err := c.readCachedJSON(ctx, cacheKeyRecords, &data.Records); err != nil {
		return false, err
	}
	if err := c.readCachedJSON(ctx, cacheKeyPositions, &data.Positions); err != nil {
		return false, err
	}
	if data.Positions == nil {
		data.Positions = map[string]CheckinPosition{}
	}
	if data.IsEmpty() {
		return false, nil
	}

	if err := c.SaveCheckin(ctx, data); err != nil {
		return false, fmt.Errorf("migrating checkin data: %w", err)
	}

	for _, key := range []string{cacheKeyEvents, cacheKeyRecords, cacheKeyPositions} {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("clearing migrated cache entry failed")
		}
	}
	c.log.Info().Msg("migrated local checkin data to remote store")
	return true, nil
}

// MigrateThoughtsIfNeeded is the notes variant: locally cached thoughts are
// pushed once, gated on the probe window coming back empty. An incomplete
// probe (unreadable shards) is a soft failure, not proof of emptiness.
func (c *Client) MigrateThoughtsIfNeeded(ctx context.Context) (bool, error) {
	if c.cache == nil {
		return false, nil
	}

	remote, failed, err := c.fetchThoughts(ctx)
	if err != nil {
		return false, err
	}
	if failed > 0 {
		return false, fmt.Errorf("remote thoughts probe incomplete (%d shards unreadable)", failed)
	}
	if len(remote) > 0 {
		return false, nil
	}

	var cached []Thought
	if err := c.readCachedJSON(ctx, cacheKeyThoughts, &cached); err != nil {
		return false, err
	}
	if len(cached) == 0 {
		return false, nil
	}

	if err := c.PushThoughts(ctx, cached, nil); err != nil {
		return false, fmt.Errorf("migrating thoughts: %w", err)
	}
	if err := c.cache.Delete(ctx, cacheKeyThoughts); err != nil {
		c.log.Warn().Err(err).Msg("clearing migrated thoughts cache failed")
	}
	c.log.Info().Int("count", len(cached)).Msg("migrated local thoughts to remote store")
	return true, nil
}

// readCachedJSON decodes the value under key into out; an absent key leaves
// out untouched.
func (c *Client) readCachedJSON(ctx context.Context, key string, out any) error {
	b, err := c.cache.Get(ctx, key)
	if errors.Is(err, localcache.ErrNoEntry) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading local cache %q: %w", key, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parsing local cache %q: %w", key, err)
	}
	return nil
}
