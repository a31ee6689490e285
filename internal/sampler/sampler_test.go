package sampler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
	"github.com/Dicklesworthstone/vmsnap/internal/logging"
	"github.com/Dicklesworthstone/vmsnap/internal/model"
	"github.com/Dicklesworthstone/vmsnap/internal/source"
	"github.com/Dicklesworthstone/vmsnap/internal/source/mocks"
)

func referenceSource() *source.Static {
	return &source.Static{
		UptimeSeconds: 20,
		Mem:           source.MemoryInfo{PageSize: 4096, Free: 1000, Buffer: 100, Cache: 500, TotalSwap: 2000, FreeSwap: 1500},
		States:        []source.TaskState{'R', 'S', 'D', 'R', 'S'},
		EventUnits: []source.EventCounters{
			{Unit: 0, SwapIn: 120, SwapOut: 20, PageIn: 400, PageOut: 800},
			{Unit: 1, SwapIn: 80, SwapOut: 20, PageIn: 0, PageOut: 0},
		},
		IRQUnits: []source.InterruptCounters{
			{Unit: 0, Interrupts: 300, IRQTime: 1000},
			{Unit: 1, Interrupts: 100, IRQTime: 1000},
		},
		CPUUnits: []source.CPUTimes{
			{User: 50, Nice: 0, System: 30, Idle: 100, IOWait: 10, IRQ: 5, SoftIRQ: 5, Steal: 0},
		},
	}
}

func referenceSnapshot() model.Snapshot {
	return model.Snapshot{
		ProcsRunning: 2, ProcsBlocked: 1,
		MemSwpd: 2000, MemFree: 4000, MemBuff: 400, MemCache: 2000,
		SwapSI: 10, SwapSO: 2,
		IOBI: 20, IOBO: 40,
		SystemIn: 20, SystemCS: 100,
		CPUUs: 25, CPUSy: 20, CPUId: 50, CPUWa: 5, CPUSt: 0,
	}
}

func TestSampler_Snapshot(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			s := New(referenceSource(), WithParallel(parallel))
			got, err := s.Snapshot(context.Background())
			if err != nil {
				t.Fatalf("Snapshot() error = %v", err)
			}
			if want := referenceSnapshot(); got != want {
				t.Errorf("Snapshot() =\n%+v\nwant\n%+v", got, want)
			}
			if got.CPUSum() != 100 {
				t.Errorf("CPUSum() = %d, want 100", got.CPUSum())
			}
		})
	}
}

func TestSampler_ZeroUptime(t *testing.T) {
	src := referenceSource()
	src.UptimeSeconds = 0

	got, err := New(src).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	rates := []uint64{got.SwapSI, got.SwapSO, got.IOBI, got.IOBO, got.SystemIn, got.SystemCS}
	for i, r := range rates {
		if r != 0 {
			t.Errorf("rate field %d = %d, want 0 at zero uptime", i, r)
		}
	}
	if got.MemFree != 4000 || got.CPUId != 50 {
		t.Errorf("non-rate fields should be unaffected: %+v", got)
	}
}

func TestSampler_EmptySystem(t *testing.T) {
	got, err := New(&source.Static{}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if got != (model.Snapshot{}) {
		t.Errorf("Snapshot() of empty source = %+v, want zero", got)
	}
}

func TestSampler_AllOrNothing(t *testing.T) {
	counters := []string{
		source.CounterUptime, source.CounterTasks, source.CounterMemory,
		source.CounterEvents, source.CounterInterrupts, source.CounterCPUTimes,
	}
	for _, counter := range counters {
		for _, parallel := range []bool{false, true} {
			t.Run(counter, func(t *testing.T) {
				src := referenceSource()
				src.Errs = map[string]error{counter: errors.New("read failed")}

				got, err := New(src, WithParallel(parallel)).Snapshot(context.Background())
				var sue apperrors.SourceUnavailableError
				if !errors.As(err, &sue) || sue.Counter != counter {
					t.Fatalf("Snapshot() error = %v, want SourceUnavailableError(%s)", err, counter)
				}
				if got != (model.Snapshot{}) {
					t.Errorf("Snapshot() returned partial result %+v", got)
				}
			})
		}
	}
}

func TestSampler_UptimeReadFirstAndOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockCounterSource(ctrl)

	up := src.EXPECT().Uptime(gomock.Any()).Return(uint64(10), nil).Times(1)
	src.EXPECT().Tasks(gomock.Any(), gomock.Any()).After(up).
		DoAndReturn(func(_ context.Context, visit func(source.TaskState)) error {
			visit(source.TaskRunning)
			visit(source.TaskUninterruptible)
			return nil
		})
	src.EXPECT().Memory(gomock.Any()).After(up).Return(source.MemoryInfo{PageSize: 1024, Free: 8}, nil)
	src.EXPECT().Events(gomock.Any()).After(up).Return([]source.EventCounters{{SwapIn: 100}}, nil)
	src.EXPECT().Interrupts(gomock.Any()).After(up).Return([]source.InterruptCounters{{Interrupts: 50, IRQTime: 20}}, nil)
	src.EXPECT().CPUTimes(gomock.Any()).After(up).Return([]source.CPUTimes{{Idle: 1}}, nil)

	got, err := New(src, WithParallel(true)).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	// Both rate groups share the one uptime read.
	if got.SwapSI != 10 || got.SystemIn != 5 || got.SystemCS != 2 {
		t.Errorf("rates = si:%d in:%d cs:%d, want 10 5 2", got.SwapSI, got.SystemIn, got.SystemCS)
	}
	if got.ProcsRunning != 1 || got.ProcsBlocked != 1 || got.MemFree != 8 || got.CPUId != 100 {
		t.Errorf("Snapshot() = %+v", got)
	}
}

func TestSampler_UptimeFailureStopsEarly(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockCounterSource(ctrl)
	cause := apperrors.NewSourceUnavailable(source.CounterUptime, errors.New("no clock"))
	src.EXPECT().Uptime(gomock.Any()).Return(uint64(0), cause)

	if _, err := New(src).Snapshot(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("Snapshot() error = %v, want %v", err, cause)
	}
}

func TestSampler_SequentialStopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockCounterSource(ctrl)
	cause := errors.New("meminfo gone")
	gomock.InOrder(
		src.EXPECT().Uptime(gomock.Any()).Return(uint64(5), nil),
		src.EXPECT().Tasks(gomock.Any(), gomock.Any()).Return(nil),
		src.EXPECT().Memory(gomock.Any()).Return(source.MemoryInfo{}, cause),
	)

	if _, err := New(src).Snapshot(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("Snapshot() error = %v, want %v", err, cause)
	}
}

func TestSampler_LogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "sampler")
	if _, err := New(referenceSource(), WithLogger(logger)).Snapshot(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "snapshot assembled") || !strings.Contains(buf.String(), `"uptime_s":20`) {
		t.Errorf("debug log missing, got: %s", buf.String())
	}
}

type countingSnapshotter struct {
	calls atomic.Int64
	err   error
}

func (c *countingSnapshotter) Snapshot(context.Context) (model.Snapshot, error) {
	n := c.calls.Add(1)
	return model.Snapshot{ProcsRunning: uint64(n)}, c.err
}

func TestStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snap := &countingSnapshotter{}
	ch := Stream(ctx, snap, 5*time.Millisecond)

	first := <-ch
	if first.Err != nil || first.Snapshot.ProcsRunning != 1 {
		t.Fatalf("first update = %+v, want fresh snapshot 1", first)
	}
	second := <-ch
	if second.Snapshot.ProcsRunning != 2 {
		t.Errorf("second update = %+v, want fresh snapshot 2", second)
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Stream did not close after cancel")
		}
	}
}

func TestStream_DeliversErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cause := errors.New("boom")
	u := <-Stream(ctx, &countingSnapshotter{err: cause}, time.Hour)
	if !errors.Is(u.Err, cause) {
		t.Errorf("update error = %v, want %v", u.Err, cause)
	}
}
