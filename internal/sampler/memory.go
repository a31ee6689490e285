package sampler

import (
	"context"
	"math/bits"

	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

// Memory holds memory and swap totals in KiB.
type Memory struct {
	Swpd  uint64
	Free  uint64
	Buff  uint64
	Cache uint64
}

// ReadMemory reads the memory totals once and converts pages to KiB.
// Swap in use is clamped at zero if the source reports more free swap than
// swap capacity.
func ReadMemory(ctx context.Context, src source.CounterSource) (Memory, error) {
	info, err := src.Memory(ctx)
	if err != nil {
		return Memory{}, err
	}
	toKiB := pageShifter(info.PageSize)

	var swpd uint64
	if info.TotalSwap > info.FreeSwap {
		swpd = info.TotalSwap - info.FreeSwap
	}
	return Memory{
		Swpd:  toKiB(swpd),
		Free:  toKiB(info.Free),
		Buff:  toKiB(info.Buffer),
		Cache: toKiB(info.Cache),
	}, nil
}

// pageShifter returns a pages-to-KiB conversion for a power-of-two page
// size. A page size of 0 is treated as already being KiB.
func pageShifter(pageSize uint64) func(uint64) uint64 {
	if pageSize == 0 {
		return func(n uint64) uint64 { return n }
	}
	shift := bits.TrailingZeros64(pageSize) - 10
	if shift >= 0 {
		return func(n uint64) uint64 { return n << uint(shift) }
	}
	return func(n uint64) uint64 { return n >> uint(-shift) }
}
