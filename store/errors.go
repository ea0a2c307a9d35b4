package store

import (
	"errors"

	"github.com/comrelyy/blog-7-Eleven/internal/shard"
	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

// ErrBackPressure is returned when the client's internal sync queue is full.
var ErrBackPressure = errors.New("back-pressure (sync queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Re-exported sentinels so callers compare against a single package.
var (
	ErrNotFound     = objectstore.ErrNotFound
	ErrUnauthorized = objectstore.ErrUnauthorized
	ErrRefConflict  = objectstore.ErrRefConflict
	ErrInvalidDate  = shard.ErrInvalidDate
)
