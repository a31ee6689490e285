package sampler

import (
	"context"

	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

// Census is the result of one pass over the process table.
type Census struct {
	Running uint64
	Blocked uint64
}

// CountTasks walks the process table once. The counts hold for some instant
// inside the walk; tasks forked or reaped meanwhile may be missed or seen.
func CountTasks(ctx context.Context, src source.CounterSource) (Census, error) {
	var c Census
	err := src.Tasks(ctx, func(st source.TaskState) {
		switch st {
		case source.TaskRunning:
			c.Running++
		case source.TaskUninterruptible:
			c.Blocked++
		}
	})
	if err != nil {
		return Census{}, err
	}
	return c, nil
}
