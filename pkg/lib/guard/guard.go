// Package guard admits at most one execution of an operation at a time.
// Triggers that arrive while one is in flight are dropped, not queued.
package guard

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type Guard struct {
	sem *semaphore.Weighted
}

func New() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

// TryRun runs fn synchronously if nothing else is running and reports
// whether it did. The slot is released when fn returns or panics.
func (g *Guard) TryRun(ctx context.Context, fn func(context.Context)) bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	defer g.sem.Release(1)
	fn(ctx)
	return true
}

// InFlight reports whether an execution currently holds the slot.
func (g *Guard) InFlight() bool {
	if !g.sem.TryAcquire(1) {
		return true
	}
	g.sem.Release(1)
	return false
}
