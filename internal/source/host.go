package source

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
	"github.com/shirou/gopsutil/v3/common"
	"github.com/shirou/gopsutil/v3/cpu"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
)

// Host reads live counters from a Linux proc mount. Every counter,
// uptime and swap included, is read below the configured root.
type Host struct {
	root     string
	fs       procfs.FS
	pageSize uint64
}

var _ CounterSource = (*Host)(nil)

// NewHost opens the proc filesystem mounted at root ("" means /proc).
func NewHost(root string) (*Host, error) {
	if root == "" {
		root = procfs.DefaultMountPoint
	}
	pfs, err := procfs.NewFS(root)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable("procfs", err)
	}
	return &Host{root: root, fs: pfs, pageSize: uint64(os.Getpagesize())}, nil
}

// env points gopsutil at the same proc mount as procfs.
func (h *Host) env(ctx context.Context) context.Context {
	return context.WithValue(ctx, common.EnvKey, common.EnvMap{common.HostProcEnvKey: h.root})
}

// Uptime reads whole seconds since boot from <root>/uptime.
func (h *Host) Uptime(ctx context.Context) (uint64, error) {
	b, err := os.ReadFile(filepath.Join(h.root, "uptime"))
	if err != nil {
		return 0, apperrors.NewSourceUnavailable(CounterUptime, err)
	}
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return 0, apperrors.NewSourceUnavailable(CounterUptime, fmt.Errorf("empty uptime file"))
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || secs < 0 {
		return 0, apperrors.NewSourceUnavailable(CounterUptime, fmt.Errorf("malformed uptime %q", fields[0]))
	}
	return uint64(secs), ctx.Err()
}

// Memory reads <root>/meminfo. Cache is the file-backed page count:
// page cache, buffers and swap cache, without reclaimable slab.
func (h *Host) Memory(ctx context.Context) (MemoryInfo, error) {
	mi, err := h.fs.Meminfo()
	if err != nil {
		return MemoryInfo{}, apperrors.NewSourceUnavailable(CounterMemory, err)
	}
	if mi.MemFree == nil {
		return MemoryInfo{}, apperrors.NewSourceUnavailable(CounterMemory, fmt.Errorf("meminfo has no MemFree"))
	}
	pages := func(kb *uint64) uint64 {
		if kb == nil {
			return 0
		}
		return *kb * 1024 / h.pageSize
	}
	return MemoryInfo{
		PageSize:  h.pageSize,
		Free:      pages(mi.MemFree),
		Buffer:    pages(mi.Buffers),
		Cache:     pages(mi.Cached) + pages(mi.Buffers) + pages(mi.SwapCached),
		TotalSwap: pages(mi.SwapTotal),
		FreeSwap:  pages(mi.SwapFree),
	}, ctx.Err()
}

// Tasks lists /proc once and stats each pid. A pid that exits between the
// listing and its stat read is skipped.
func (h *Host) Tasks(ctx context.Context, visit func(TaskState)) error {
	procs, err := h.fs.AllProcs()
	if err != nil {
		return apperrors.NewSourceUnavailable(CounterTasks, err)
	}
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return err
		}
		st, err := p.Stat()
		if err != nil || st.State == "" {
			continue
		}
		visit(TaskState(st.State[0]))
	}
	return nil
}

// Events reports the global <root>/vmstat counts as unit 0; Linux does not
// export the per-CPU vm event arrays to user space. Counters the kernel
// does not list read as zero.
func (h *Host) Events(ctx context.Context) ([]EventCounters, error) {
	f, err := os.Open(filepath.Join(h.root, "vmstat"))
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(CounterEvents, err)
	}
	defer f.Close()

	ev := EventCounters{Unit: 0}
	fields := map[string]*uint64{
		"pswpin":  &ev.SwapIn,
		"pswpout": &ev.SwapOut,
		"pgpgin":  &ev.PageIn,
		"pgpgout": &ev.PageOut,
	}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name, value, ok := strings.Cut(sc.Text(), " ")
		dst, want := fields[name]
		if !ok || !want {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, apperrors.NewSourceUnavailable(CounterEvents, fmt.Errorf("vmstat %s: %w", name, err))
		}
		*dst = v
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.NewSourceUnavailable(CounterEvents, err)
	}
	return []EventCounters{ev}, ctx.Err()
}

func (h *Host) Interrupts(ctx context.Context) ([]InterruptCounters, error) {
	perCPU, err := h.deviceIRQs()
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(CounterInterrupts, err)
	}
	times, err := h.CPUTimes(ctx)
	if err != nil {
		return nil, err
	}
	irqTime := make(map[int]uint64, len(times))
	for _, t := range times {
		irqTime[t.Unit] = t.IRQ
	}

	n := len(perCPU)
	for unit := range irqTime {
		if unit+1 > n {
			n = unit + 1
		}
	}
	out := make([]InterruptCounters, 0, n)
	for unit := 0; unit < n; unit++ {
		c := InterruptCounters{Unit: unit, IRQTime: irqTime[unit]}
		if unit < len(perCPU) {
			c.Interrupts = perCPU[unit]
		}
		out = append(out, c)
	}
	return out, nil
}

// deviceIRQs sums the numbered lines of /proc/interrupts column by column.
// Architecture lines (LOC, RES, NMI, ...) are not device interrupts and are
// left out, as are the single-valued ERR and MIS lines.
func (h *Host) deviceIRQs() ([]uint64, error) {
	f, err := os.Open(filepath.Join(h.root, "interrupts"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty interrupts file")
	}
	ncpu := len(strings.Fields(sc.Text()))
	sums := make([]uint64, ncpu)

	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		label := strings.TrimSuffix(fields[0], ":")
		if _, err := strconv.Atoi(label); err != nil {
			continue
		}
		for i := 0; i < ncpu && i+1 < len(fields); i++ {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				break
			}
			sums[i] += v
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}

func (h *Host) CPUTimes(ctx context.Context) ([]CPUTimes, error) {
	stats, err := cpu.TimesWithContext(h.env(ctx), true)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(CounterCPUTimes, err)
	}
	// gopsutil hides a missing or truncated stat file behind an empty list.
	if len(stats) == 0 {
		return nil, apperrors.NewSourceUnavailable(CounterCPUTimes, fmt.Errorf("no cpu lines in %s", filepath.Join(h.root, "stat")))
	}
	out := make([]CPUTimes, 0, len(stats))
	for i, st := range stats {
		unit, err := strconv.Atoi(strings.TrimPrefix(st.CPU, "cpu"))
		if err != nil {
			unit = i
		}
		out = append(out, CPUTimes{
			Unit:    unit,
			User:    nanos(st.User),
			Nice:    nanos(st.Nice),
			System:  nanos(st.System),
			Idle:    nanos(st.Idle),
			IOWait:  nanos(st.Iowait),
			IRQ:     nanos(st.Irq),
			SoftIRQ: nanos(st.Softirq),
			Steal:   nanos(st.Steal),
		})
	}
	return out, nil
}

func nanos(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(math.Round(seconds * 1e9))
}
