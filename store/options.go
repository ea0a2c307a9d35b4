package store

// Functional options applied during New. Keeping them in a standalone file
// makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comrelyy/blog-7-Eleven/localcache"
	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

// Option mutates the Client during New().
type Option func(*Client) error

// WithBranch targets a branch other than main.
func WithBranch(branch string) Option {
	return func(c *Client) error {
		if branch == "" {
			return fmt.Errorf("empty branch")
		}
		c.branch = branch
		return nil
	}
}

// WithThoughtsRoot changes the collection root for sharded thoughts.
func WithThoughtsRoot(root string) Option {
	return func(c *Client) error {
		if root == "" {
			return fmt.Errorf("empty thoughts root")
		}
		c.thoughtsRoot = root
		return nil
	}
}

// WithCheckinRoot changes the directory holding the check-in aggregate
// document (data.json).
func WithCheckinRoot(root string) Option {
	return func(c *Client) error {
		if root == "" {
			return fmt.Errorf("empty checkin root")
		}
		c.checkinRoot = root
		return nil
	}
}

// WithProbeWindow sets how many months of shards the reader probes,
// current month included.
func WithProbeWindow(months int) Option {
	return func(c *Client) error {
		if months <= 0 {
			return fmt.Errorf("probe window must be > 0")
		}
		c.window = months
		return nil
	}
}

// WithFlushDelay sets the trailing-edge debounce interval for check-in
// writes.
func WithFlushDelay(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("flush delay must be > 0")
		}
		c.flushDelay = d
		return nil
	}
}

// WithCache attaches the local fallback cache consumed by the migration
// coordinator. Without it, migration is a no-op.
func WithCache(cache localcache.Cache) Option {
	return func(c *Client) error {
		if cache == nil {
			return fmt.Errorf("nil cache")
		}
		c.cache = cache
		return nil
	}
}

// WithObjectStore injects a custom backend, replacing the default GitHub
// client. Used by tests and alternative git hosts.
func WithObjectStore(s objectstore.Store) Option {
	return func(c *Client) error {
		if s == nil {
			return fmt.Errorf("nil object store")
		}
		c.git = s
		return nil
	}
}

// WithAPIBaseURL points the default backend at a GitHub-compatible API,
// e.g. an enterprise host.
func WithAPIBaseURL(url string) Option {
	return func(c *Client) error {
		if url == "" {
			return fmt.Errorf("empty API base URL")
		}
		c.apiBaseURL = url
		return nil
	}
}

// WithHTTPTimeout bounds each request of the default backend. Prefer
// per-call context deadlines; this is a coarse safety net.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.httpTimeout = d
		return nil
	}
}

// WithLogger replaces the default component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithoutExecutor disables the internal sync queue. Useful for short-lived
// CLI invocations that only call synchronous methods.
func WithoutExecutor() Option {
	return func(c *Client) error {
		c.exec = noOpExecutor{}
		return nil
	}
}
