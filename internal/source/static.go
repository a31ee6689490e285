package source

import (
	"context"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
)

// Static is a CounterSource returning fixed values. It is never mutated by
// its methods, so one value may be shared by concurrent readers.
type Static struct {
	UptimeSeconds uint64
	Mem           MemoryInfo
	States        []TaskState
	EventUnits    []EventCounters
	IRQUnits      []InterruptCounters
	CPUUnits      []CPUTimes

	// Errs maps a Counter* name to the error its method should return.
	Errs map[string]error
}

var _ CounterSource = (*Static)(nil)

func (s *Static) fail(counter string) error {
	return apperrors.NewSourceUnavailable(counter, s.Errs[counter])
}

func (s *Static) Uptime(ctx context.Context) (uint64, error) {
	if err := s.fail(CounterUptime); err != nil {
		return 0, err
	}
	return s.UptimeSeconds, ctx.Err()
}

func (s *Static) Memory(ctx context.Context) (MemoryInfo, error) {
	if err := s.fail(CounterMemory); err != nil {
		return MemoryInfo{}, err
	}
	return s.Mem, ctx.Err()
}

func (s *Static) Tasks(ctx context.Context, visit func(TaskState)) error {
	if err := s.fail(CounterTasks); err != nil {
		return err
	}
	for _, st := range s.States {
		visit(st)
	}
	return ctx.Err()
}

func (s *Static) Events(ctx context.Context) ([]EventCounters, error) {
	if err := s.fail(CounterEvents); err != nil {
		return nil, err
	}
	return append([]EventCounters(nil), s.EventUnits...), ctx.Err()
}

func (s *Static) Interrupts(ctx context.Context) ([]InterruptCounters, error) {
	if err := s.fail(CounterInterrupts); err != nil {
		return nil, err
	}
	return append([]InterruptCounters(nil), s.IRQUnits...), ctx.Err()
}

func (s *Static) CPUTimes(ctx context.Context) ([]CPUTimes, error) {
	if err := s.fail(CounterCPUTimes); err != nil {
		return nil, err
	}
	return append([]CPUTimes(nil), s.CPUUnits...), ctx.Err()
}

// Demo returns a small two-CPU system with plausible values. vmsnapd and
// vmstat -fake serve it when no real /proc is wanted.
func Demo() *Static {
	return &Static{
		UptimeSeconds: 3600,
		Mem: MemoryInfo{
			PageSize:  4096,
			Free:      262144,
			Buffer:    16384,
			Cache:     131072,
			TotalSwap: 524288,
			FreeSwap:  520192,
		},
		States: []TaskState{
			TaskRunning, TaskSleeping, TaskSleeping, TaskUninterruptible,
			TaskSleeping, TaskIdle, TaskRunning, TaskZombie,
		},
		EventUnits: []EventCounters{
			{Unit: 0, SwapIn: 1800, SwapOut: 3600, PageIn: 360000, PageOut: 720000},
			{Unit: 1, SwapIn: 1800, SwapOut: 0, PageIn: 360000, PageOut: 360000},
		},
		IRQUnits: []InterruptCounters{
			{Unit: 0, Interrupts: 720000, IRQTime: 1_800_000_000},
			{Unit: 1, Interrupts: 360000, IRQTime: 1_800_000_000},
		},
		CPUUnits: []CPUTimes{
			{Unit: 0, User: 900e9, Nice: 0, System: 300e9, Idle: 2200e9, IOWait: 100e9, IRQ: 50e9, SoftIRQ: 50e9},
			{Unit: 1, User: 700e9, Nice: 100e9, System: 200e9, Idle: 2500e9, IOWait: 50e9, IRQ: 25e9, SoftIRQ: 25e9},
		},
	}
}
