package sampler

import (
	"context"
	"math/bits"

	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

// CPUShares are whole-percent shares of CPU time since boot. Each share is
// floored independently, so the five may add up to less than 100.
type CPUShares struct {
	User   uint64 // user + nice
	System uint64 // system + irq + softirq
	Idle   uint64
	IOWait uint64
	Steal  uint64
}

// CPUSharesSince sums the eight time categories over every unit and converts
// them to percentages of the grand total. A zero total yields all zeros.
func CPUSharesSince(ctx context.Context, src source.CounterSource) (CPUShares, error) {
	units, err := src.CPUTimes(ctx)
	if err != nil {
		return CPUShares{}, err
	}
	var sum categories
	for _, u := range units {
		sum.add(u)
	}
	return sum.shares(), nil
}

func sharesOf(t source.CPUTimes) CPUShares {
	var c categories
	c.add(t)
	return c.shares()
}

// u128 is a 128-bit accumulator; sums over many units of nanosecond
// counters can pass 2^64.
type u128 struct{ hi, lo uint64 }

func (a *u128) add(v uint64) {
	var carry uint64
	a.lo, carry = bits.Add64(a.lo, v, 0)
	a.hi += carry
}

func (a u128) shr(n uint) uint64 {
	switch {
	case n == 0:
		return a.lo
	case n >= 64:
		return a.hi >> (n - 64)
	default:
		return a.lo>>n | a.hi<<(64-n)
	}
}

// categories accumulates user, nice, system, idle, iowait, irq, softirq
// and steal in that order.
type categories [8]u128

func (c *categories) add(t source.CPUTimes) {
	for i, v := range [8]uint64{t.User, t.Nice, t.System, t.Idle, t.IOWait, t.IRQ, t.SoftIRQ, t.Steal} {
		c[i].add(v)
	}
}

// shares scales every category by the same power of two until the total
// fits in 64 bits, then floors each share.
func (c *categories) shares() CPUShares {
	var total u128
	for _, v := range c {
		total.add(v.lo)
		total.hi += v.hi
	}
	if total.hi == 0 && total.lo == 0 {
		return CPUShares{}
	}
	shift := uint(bits.Len64(total.hi))
	var v [8]uint64
	var t uint64
	for i := range c {
		v[i] = c[i].shr(shift)
		t += v[i]
	}
	if t == 0 {
		return CPUShares{}
	}
	const (
		user = iota
		nice
		system
		idle
		iowait
		irq
		softirq
		steal
	)
	return CPUShares{
		User:   percent(v[user]+v[nice], t),
		System: percent(v[system]+v[irq]+v[softirq], t),
		Idle:   percent(v[idle], t),
		IOWait: percent(v[iowait], t),
		Steal:  percent(v[steal], t),
	}
}

// percent computes floor(100*part/total) without overflowing the product.
func percent(part, total uint64) uint64 {
	hi, lo := bits.Mul64(100, part)
	if hi >= total {
		return 100
	}
	q, _ := bits.Div64(hi, lo, total)
	return q
}
