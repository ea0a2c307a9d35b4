package store

import (
	"context"

	"github.com/comrelyy/blog-7-Eleven/internal/syncq"
)

// executor abstracts the internal async job runner used by the async write
// paths.
type executor interface {
	Submit(context.Context, string, syncq.Job) error
	Stop()
}

// noOpExecutor backs sync-only clients built with WithoutExecutor.
type noOpExecutor struct{}

func (noOpExecutor) Submit(context.Context, string, syncq.Job) error {
	panic("attempted async operation (SubmitThoughts/ScheduleCheckin) on sync-only client")
}
func (noOpExecutor) Stop() {}
