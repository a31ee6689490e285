// Package sampler assembles vmstat snapshots from a CounterSource.
package sampler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/vmsnap/internal/logging"
	"github.com/Dicklesworthstone/vmsnap/internal/model"
	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

// Snapshotter produces one fresh Snapshot per call.
type Snapshotter interface {
	Snapshot(ctx context.Context) (model.Snapshot, error)
}

// Sampler builds Snapshots. It holds no state between calls.
type Sampler struct {
	src      source.CounterSource
	log      logging.Logger
	parallel bool
}

var _ Snapshotter = (*Sampler)(nil)

// Option configures a Sampler.
type Option func(*Sampler)

// WithLogger sets the logger used for per-snapshot debug lines.
func WithLogger(l logging.Logger) Option {
	return func(s *Sampler) { s.log = l }
}

// WithParallel runs the collectors concurrently once uptime is read.
func WithParallel(on bool) Option {
	return func(s *Sampler) { s.parallel = on }
}

func New(src source.CounterSource, opts ...Option) *Sampler {
	s := &Sampler{src: src, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// parts are the collector outputs combined into one Snapshot.
type parts struct {
	census Census
	mem    Memory
	events EventRates
	irqs   InterruptRates
	cpu    CPUShares
}

// Snapshot reads uptime once, runs every collector against it and combines
// the results. Any collector error fails the whole snapshot.
func (s *Sampler) Snapshot(ctx context.Context) (model.Snapshot, error) {
	start := time.Now()
	uptime, err := s.src.Uptime(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}

	var p parts
	if s.parallel {
		err = s.collectParallel(ctx, uptime, &p)
	} else {
		err = s.collect(ctx, uptime, &p)
	}
	if err != nil {
		return model.Snapshot{}, err
	}

	snap := p.snapshot()
	s.log.Debug("snapshot assembled",
		logging.Uint64("uptime_s", uptime),
		logging.Duration("took", time.Since(start)),
		logging.Uint64("procs_running", snap.ProcsRunning))
	return snap, nil
}

func (s *Sampler) collect(ctx context.Context, uptime uint64, p *parts) error {
	var err error
	if p.census, err = CountTasks(ctx, s.src); err != nil {
		return err
	}
	if p.mem, err = ReadMemory(ctx, s.src); err != nil {
		return err
	}
	if p.events, err = EventRatesSince(ctx, s.src, uptime); err != nil {
		return err
	}
	if p.irqs, err = InterruptRatesSince(ctx, s.src, uptime); err != nil {
		return err
	}
	p.cpu, err = CPUSharesSince(ctx, s.src)
	return err
}

// collectParallel writes each part from its own goroutine; the fields are
// disjoint and read only after Wait.
func (s *Sampler) collectParallel(ctx context.Context, uptime uint64, p *parts) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.census, err = CountTasks(ctx, s.src)
		return
	})
	g.Go(func() (err error) {
		p.mem, err = ReadMemory(ctx, s.src)
		return
	})
	g.Go(func() (err error) {
		p.events, err = EventRatesSince(ctx, s.src, uptime)
		return
	})
	g.Go(func() (err error) {
		p.irqs, err = InterruptRatesSince(ctx, s.src, uptime)
		return
	})
	g.Go(func() (err error) {
		p.cpu, err = CPUSharesSince(ctx, s.src)
		return
	})
	return g.Wait()
}

func (p parts) snapshot() model.Snapshot {
	return model.Snapshot{
		ProcsRunning: p.census.Running,
		ProcsBlocked: p.census.Blocked,
		MemSwpd:      p.mem.Swpd,
		MemFree:      p.mem.Free,
		MemBuff:      p.mem.Buff,
		MemCache:     p.mem.Cache,
		SwapSI:       p.events.SwapIn,
		SwapSO:       p.events.SwapOut,
		IOBI:         p.events.PageIn,
		IOBO:         p.events.PageOut,
		SystemIn:     p.irqs.Interrupts,
		SystemCS:     p.irqs.ContextSwitches,
		CPUUs:        p.cpu.User,
		CPUSy:        p.cpu.System,
		CPUId:        p.cpu.Idle,
		CPUWa:        p.cpu.IOWait,
		CPUSt:        p.cpu.Steal,
	}
}

// Update is one result delivered by Stream.
type Update struct {
	Snapshot model.Snapshot
	Err      error
	At       time.Time
}

// Stream requests a fresh snapshot immediately and then once per interval
// until ctx is done. The channel is closed when the stream stops.
func Stream(ctx context.Context, snap Snapshotter, interval time.Duration) <-chan Update {
	ch := make(chan Update)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		send := func(t time.Time) bool {
			s, err := snap.Snapshot(ctx)
			select {
			case ch <- Update{Snapshot: s, Err: err, At: t}:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if !send(time.Now()) {
			return
		}
		for {
			select {
			case t := <-ticker.C:
				if !send(t) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
