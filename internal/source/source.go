// Package source defines the read-only view of operating system counters the
// snapshot core depends on, with a Linux implementation backed by /proc and
// a fixed in-memory implementation for tests.
package source

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

import "context"

// Counter names used when reporting an unavailable source.
const (
	CounterUptime     = "uptime"
	CounterMemory     = "meminfo"
	CounterTasks      = "tasks"
	CounterEvents     = "vmstat"
	CounterInterrupts = "interrupts"
	CounterCPUTimes   = "stat"
)

// CounterSource exposes the counters owned by the surrounding system.
// Implementations must never block writers of those counters; every
// method is a read.
type CounterSource interface {
	// Uptime returns whole seconds since boot.
	Uptime(ctx context.Context) (uint64, error)
	// Memory returns global memory and swap totals in pages.
	Memory(ctx context.Context) (MemoryInfo, error)
	// Tasks calls visit once per process known at some instant of the
	// traversal. Processes created or reaped meanwhile may or may not be seen.
	Tasks(ctx context.Context, visit func(TaskState)) error
	// Events returns vm event accumulators for each online unit.
	Events(ctx context.Context) ([]EventCounters, error)
	// Interrupts returns interrupt accumulators for each possible unit.
	Interrupts(ctx context.Context) ([]InterruptCounters, error)
	// CPUTimes returns time-category accumulators for each possible unit.
	CPUTimes(ctx context.Context) ([]CPUTimes, error)
}

// MemoryInfo holds instantaneous totals, counted in pages of PageSize bytes.
type MemoryInfo struct {
	PageSize  uint64
	Free      uint64
	Buffer    uint64
	Cache     uint64
	TotalSwap uint64
	FreeSwap  uint64
}

// TaskState is the one-letter scheduler state shown in /proc/<pid>/stat.
type TaskState byte

const (
	TaskRunning         TaskState = 'R'
	TaskSleeping        TaskState = 'S'
	TaskUninterruptible TaskState = 'D'
	TaskStopped         TaskState = 'T'
	TaskZombie          TaskState = 'Z'
	TaskIdle            TaskState = 'I'
)

// EventCounters are monotonic vm event counts for one unit.
type EventCounters struct {
	Unit    int
	SwapIn  uint64
	SwapOut uint64
	PageIn  uint64
	PageOut uint64
}

// InterruptCounters are monotonic interrupt accumulators for one unit.
// IRQTime is nanoseconds spent servicing hardware interrupts.
type InterruptCounters struct {
	Unit       int
	Interrupts uint64
	IRQTime    uint64
}

// CPUTimes are monotonic nanosecond accumulators for one unit, one per
// mutually exclusive time category.
type CPUTimes struct {
	Unit    int
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}
