// Package store is the persistence and synchronization layer for the
// dashboard's small, frequently-mutated JSON collections: month-sharded
// thoughts and the habit-tracker aggregate. All durability goes through a
// remote content-addressable object store reached by four git primitives;
// the local cache is only a migration source and crash-recovery hedge.
package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/comrelyy/blog-7-Eleven/internal/debounce"
	"github.com/comrelyy/blog-7-Eleven/internal/ghapi"
	"github.com/comrelyy/blog-7-Eleven/internal/syncq"
	"github.com/comrelyy/blog-7-Eleven/localcache"
	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

const (
	defaultBranch       = "main"
	defaultThoughtsRoot = "src/data/thoughts"
	defaultCheckinRoot  = "src/app/checkin"
	defaultProbeWindow  = 12
	defaultFlushDelay   = time.Second
)

// Client is the facade over both collections. Construct with New, release
// with Close.
type Client struct {
	git objectstore.Store

	branch       string
	thoughtsRoot string
	checkinRoot  string
	window       int
	flushDelay   time.Duration

	exec  executor
	deb   *debounce.Debouncer
	cache localcache.Cache
	log   zerolog.Logger
	now   func() time.Time

	mu             sync.Mutex
	pendingCheckin *CheckinData

	// inputs for the default backend, unused when an object store is injected
	owner       string
	repo        string
	token       string
	apiBaseURL  string
	httpTimeout time.Duration

	closedOnce uint32
}

// New constructs a Client for one repository. The token is the
// caller-acquired credential; an empty token restricts the client to public
// read paths and writes will fail Unauthorized.
func New(owner, repo, token string, opts ...Option) *Client {
	c := &Client{
		branch:       defaultBranch,
		thoughtsRoot: defaultThoughtsRoot,
		checkinRoot:  defaultCheckinRoot,
		window:       defaultProbeWindow,
		flushDelay:   defaultFlushDelay,
		log:          log.With().Str("component", "store").Logger(),
		now:          time.Now,
		owner:        owner,
		repo:         repo,
		token:        token,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	if c.git == nil {
		if owner == "" || repo == "" {
			panic("owner and repo cannot be empty")
		}
		c.git = ghapi.New(ghapi.Config{
			Owner:   owner,
			Repo:    repo,
			Token:   token,
			BaseURL: c.apiBaseURL,
			Timeout: c.httpTimeout,
		})
	}
	if c.exec == nil {
		cfg, err := syncq.LoadConfig()
		if err != nil {
			panic(err)
		}
		cfg.ErrorHandler = func(err error) {
			c.log.Error().Err(err).Msg("background sync failed")
		}
		c.exec = syncq.New(cfg)
	}
	c.deb = debounce.New(c.flushDelay)

	return c
}

// Close flushes any pending debounced write into the queue, then stops the
// executor, draining queued work. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.deb.Fire()
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// AwaitThoughts blocks until all previously submitted thought pushes have
// been executed, by queueing a no-op job behind them (FIFO per key).
func (c *Client) AwaitThoughts(ctx context.Context) error {
	return c.await(ctx, c.thoughtsRoot)
}

func (c *Client) await(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	j := syncq.JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := c.exec.Submit(ctx, key, j); err != nil {
		return c.submitErr(err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *Client) submitErr(err error) error {
	if errors.Is(err, syncq.ErrQueueFull) {
		return ErrBackPressure
	}
	return err
}
