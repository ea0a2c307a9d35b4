package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/comrelyy/blog-7-Eleven/internal/shard"
	"github.com/comrelyy/blog-7-Eleven/internal/syncq"
	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

// PushThoughts durably persists the full in-memory collection by rewriting
// every changed shard. changed lists the shard keys (YYYY-MM) touched since
// the last successful write; nil means all. Each written shard carries its
// complete post-mutation record array.
func (c *Client) PushThoughts(ctx context.Context, thoughts []Thought, changed []string) error {
	groups := make(map[string][]Thought)
	for _, t := range thoughts {
		key, err := shard.Key(t.Date)
		if err != nil {
			return fmt.Errorf("thought %s: %w", t.ID, err)
		}
		groups[key] = append(groups[key], t)
	}

	// An emptied collection ships a single placeholder so the collection
	// path keeps resolving.
	if len(thoughts) == 0 {
		files := []commitFile{{Path: c.thoughtsRoot + "/.gitkeep", Content: []byte{}}}
		return c.commitFiles(ctx, c.thoughtsRoot, "update thoughts (empty)", files)
	}

	var keys []string
	if changed == nil {
		for k := range groups {
			keys = append(keys, k)
		}
	} else {
		seen := make(map[string]struct{}, len(changed))
		for _, k := range changed {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	files := make([]commitFile, 0, len(keys))
	for _, key := range keys {
		recs := groups[key]
		if recs == nil {
			// A changed shard with no surviving records is rewritten empty.
			recs = []Thought{}
		}
		body, err := json.MarshalIndent(recs, "", "\t")
		if err != nil {
			return fmt.Errorf("serializing shard %s: %w", key, err)
		}
		files = append(files, commitFile{Path: shard.Path(c.thoughtsRoot, key), Content: body})
	}

	message := fmt.Sprintf("update thoughts (%s)", strings.Join(keys, ", "))
	return c.commitFiles(ctx, c.thoughtsRoot, message, files)
}

// SubmitThoughts enqueues a push on the sync queue, preserving FIFO order
// per collection. The slices are snapshotted, so the caller may keep
// mutating its copy.
func (c *Client) SubmitThoughts(ctx context.Context, thoughts []Thought, changed []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := append([]Thought(nil), thoughts...)
	var changedCopy []string
	if changed != nil {
		changedCopy = append([]string(nil), changed...)
	}

	j := syncq.JobFunc(func(jobCtx context.Context) error {
		return c.PushThoughts(jobCtx, snapshot, changedCopy)
	})
	if err := c.exec.Submit(ctx, c.thoughtsRoot, j); err != nil {
		return c.submitErr(err)
	}
	return nil
}

// FetchThoughts reconstructs the collection from the probe window, newest
// first. Absent shards are skipped silently; unreadable or malformed shards
// are skipped with a log line, preferring partial results over total
// failure. The returned error is non-nil only when ctx is cancelled.
func (c *Client) FetchThoughts(ctx context.Context) ([]Thought, error) {
	all, _, err := c.fetchThoughts(ctx)
	return all, err
}

// fetchThoughts additionally reports how many shard probes failed, so the
// migration coordinator can refuse to treat an unreadable remote as empty.
func (c *Client) fetchThoughts(ctx context.Context) ([]Thought, int, error) {
	var all []Thought
	failed := 0

	for _, key := range shard.Window(c.now(), c.window) {
		if err := ctx.Err(); err != nil {
			return nil, failed, err
		}

		b, err := c.git.ReadPath(ctx, shard.Path(c.thoughtsRoot, key), c.branch)
		if errors.Is(err, objectstore.ErrNotFound) {
			continue
		}
		if err != nil {
			failed++
			shardProbesSkippedTotal.Inc()
			c.log.Warn().Err(err).Str("shard", key).Msg("skipping unreadable shard")
			continue
		}

		var page []Thought
		if err := json.Unmarshal(b, &page); err != nil {
			failed++
			shardProbesSkippedTotal.Inc()
			c.log.Warn().Err(err).Str("shard", key).Msg("skipping malformed shard")
			continue
		}
		all = append(all, page...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp > all[j].Timestamp })
	return all, failed, nil
}
