package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/comrelyy/blog-7-Eleven/internal/syncq"
	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

func (c *Client) checkinPath() string { return c.checkinRoot + "/data.json" }

// LoadCheckin fetches the aggregate document. An absent document is "no
// data yet" and yields (nil, nil); a malformed document fails the whole
// load, never a partial aggregate.
func (c *Client) LoadCheckin(ctx context.Context) (*CheckinData, error) {
	b, err := c.git.ReadPath(ctx, c.checkinPath(), c.branch)
	if errors.Is(err, objectstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkin data: %w", err)
	}

	var d CheckinData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parsing checkin data: %w", err)
	}
	if d.Positions == nil {
		d.Positions = map[string]CheckinPosition{}
	}
	return &d, nil
}

// SaveCheckin writes the aggregate as one document through the same commit
// pipeline used for shards, with a single tree entry.
func (c *Client) SaveCheckin(ctx context.Context, d *CheckinData) error {
	body, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing checkin data: %w", err)
	}
	files := []commitFile{{Path: c.checkinPath(), Content: body}}
	return c.commitFiles(ctx, c.checkinPath(), "update checkin data", files)
}

// ScheduleCheckin records d as the state to persist and (re)arms the
// trailing-edge debounce timer. Within a burst of mutations only the last
// scheduled state is ever written. The snapshot is deep-copied, so the UI
// may keep mutating its own copy.
func (c *Client) ScheduleCheckin(d *CheckinData) {
	c.mu.Lock()
	c.pendingCheckin = d.Clone()
	c.mu.Unlock()

	if c.deb.Schedule(c.enqueueCheckinFlush) {
		flushesCoalescedTotal.Inc()
	}
}

// FlushCheckin forces any pending debounced write out immediately and waits
// for the queue to drain it.
func (c *Client) FlushCheckin(ctx context.Context) error {
	c.deb.Fire()
	return c.await(ctx, c.checkinPath())
}

// enqueueCheckinFlush runs on the debounce timer goroutine. The executor's
// per-key FIFO makes the flush single-flight: a second flush for the same
// document queues behind the first instead of overlapping it.
func (c *Client) enqueueCheckinFlush() {
	c.mu.Lock()
	d := c.pendingCheckin
	c.pendingCheckin = nil
	c.mu.Unlock()
	if d == nil {
		return
	}

	j := syncq.JobFunc(func(jobCtx context.Context) error {
		return c.SaveCheckin(jobCtx, d)
	})
	if err := c.exec.Submit(context.Background(), c.checkinPath(), j); err != nil {
		c.log.Error().Err(err).Msg("enqueueing checkin flush failed")
		// Restore the state so a later schedule or flush can retry it.
		c.mu.Lock()
		if c.pendingCheckin == nil {
			c.pendingCheckin = d
		}
		c.mu.Unlock()
	}
}
