// Package objectstore defines the contract for the remote content-addressable
// object store the sync layer writes to. The store exposes exactly the git
// data primitives: read a branch pointer, create immutable blobs, snapshot a
// tree, create a commit, advance the pointer, and read a file by path.
//
// Implementations live elsewhere (internal/ghapi for the GitHub backend);
// consumers depend only on this interface so tests can swap in a fake.
package objectstore

import (
	"context"
	"errors"
)

// Sentinel errors shared by every backend. Callers compare with errors.Is;
// implementations may wrap them with transport diagnostics.
var (
	// ErrNotFound reports an absent branch, path, or object. On read paths
	// this is data ("empty collection"), not a failure.
	ErrNotFound = errors.New("object not found")

	// ErrUnauthorized reports a missing or rejected credential. Fatal to the
	// operation; never retried.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRefConflict reports a non-fast-forward ref update: the branch moved
	// after the caller observed its head. Retryable by re-running the whole
	// write pipeline.
	ErrRefConflict = errors.New("ref conflict (branch moved)")
)

// TreeEntry names one regular file in a tree snapshot.
type TreeEntry struct {
	Path    string
	BlobSHA string
}

// Store is the minimal object-store surface the sync layer consumes.
type Store interface {
	// GetBranchHead returns the commit SHA the branch currently points at.
	GetBranchHead(ctx context.Context, branch string) (string, error)

	// CreateBlob stores content as an immutable blob and returns its SHA.
	// Content-addressed: identical content yields an identical SHA.
	CreateBlob(ctx context.Context, content []byte) (string, error)

	// CreateTree snapshots entries on top of base (a commit or tree SHA)
	// and returns the new tree SHA.
	CreateTree(ctx context.Context, entries []TreeEntry, base string) (string, error)

	// CreateCommit creates a commit for tree with the given parents.
	CreateCommit(ctx context.Context, message, tree string, parents []string) (string, error)

	// UpdateRef advances the branch pointer to sha. Fast-forward only: a
	// moved branch yields ErrRefConflict.
	UpdateRef(ctx context.Context, branch, sha string) error

	// ReadPath returns the decoded content of the file at path on ref.
	// Absent files yield ErrNotFound.
	ReadPath(ctx context.Context, path, ref string) ([]byte, error)
}
