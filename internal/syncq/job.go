package syncq

import "context"

// Job is a unit of work executed by an Executor, typically one full commit
// pipeline for a collection.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a closure to the Job interface.
type JobFunc func(ctx context.Context) error

// Run implements Job.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }
