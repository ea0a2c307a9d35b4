package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

// maxRefConflictRetries bounds the compare-and-swap loop: a pipeline is
// re-run from the ref read at most this many extra times when the branch
// moves underneath it.
const maxRefConflictRetries = 3

// commitFile is one complete post-mutation file shipped by a write. Writes
// always replace whole files, never patch.
type commitFile struct {
	Path    string
	Content []byte
}

// commitFiles runs the write pipeline: read head, upload blobs, snapshot a
// tree on top of head, commit, advance the branch pointer. The pointer is
// only touched in the final step, so a failure anywhere leaves the remote
// collection unchanged for readers. Ref conflicts retry the whole pipeline
// under exponential backoff; anything else aborts.
func (c *Client) commitFiles(ctx context.Context, collection, message string, files []commitFile) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 250 * time.Millisecond
	exp.MaxInterval = 2 * time.Second

	op := func() error {
		err := c.commitOnce(ctx, collection, message, files)
		if err == nil {
			return nil
		}
		if errors.Is(err, objectstore.ErrRefConflict) {
			refConflictsTotal.Inc()
			c.log.Warn().Str("collection", collection).Msg("branch moved during write, retrying pipeline")
			return err
		}
		return backoff.Permanent(err)
	}

	start := time.Now()
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(exp, maxRefConflictRetries), ctx))
	pipelineDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	if err != nil {
		pipelineFailuresTotal.WithLabelValues(collection).Inc()
		return err
	}
	return nil
}

func (c *Client) commitOnce(ctx context.Context, collection, message string, files []commitFile) error {
	pipelineAttemptsTotal.WithLabelValues(collection).Inc()

	head, err := c.git.GetBranchHead(ctx, c.branch)
	if err != nil {
		return fmt.Errorf("fetching ref: %w", err)
	}

	// Blob creation carries no ordering dependency; failed attempts leave
	// only inert content-addressed garbage behind.
	entries := make([]objectstore.TreeEntry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			sha, err := c.git.CreateBlob(gctx, f.Content)
			if err != nil {
				return err
			}
			entries[i] = objectstore.TreeEntry{Path: f.Path, BlobSHA: sha}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("building blobs: %w", err)
	}

	tree, err := c.git.CreateTree(ctx, entries, head)
	if err != nil {
		return fmt.Errorf("building tree: %w", err)
	}

	commit, err := c.git.CreateCommit(ctx, message, tree, []string{head})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	// Compare-and-swap guard: only advance the pointer if it still equals
	// the head this pipeline was built on. The backend's fast-forward check
	// in UpdateRef closes the remaining race window.
	current, err := c.git.GetBranchHead(ctx, c.branch)
	if err != nil {
		return fmt.Errorf("updating ref: %w", err)
	}
	if current != head {
		return fmt.Errorf("updating ref: %w", objectstore.ErrRefConflict)
	}
	if err := c.git.UpdateRef(ctx, c.branch, commit); err != nil {
		return fmt.Errorf("updating ref: %w", err)
	}

	c.log.Info().Str("collection", collection).Str("commit", commit).Int("files", len(files)).Msg("synced")
	return nil
}
