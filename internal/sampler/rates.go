package sampler

import (
	"context"

	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

// EventRates are swap and paging averages since boot, per second.
type EventRates struct {
	SwapIn  uint64
	SwapOut uint64
	PageIn  uint64
	PageOut uint64
}

// EventRatesSince sums the vm event accumulators of every online unit and
// divides by uptime. Units are read one after another while they keep
// counting, so the total is only consistent to within one update per unit.
func EventRatesSince(ctx context.Context, src source.CounterSource, uptime uint64) (EventRates, error) {
	units, err := src.Events(ctx)
	if err != nil {
		return EventRates{}, err
	}
	var sum EventRates
	for _, u := range units {
		sum.SwapIn += u.SwapIn
		sum.SwapOut += u.SwapOut
		sum.PageIn += u.PageIn
		sum.PageOut += u.PageOut
	}
	return EventRates{
		SwapIn:  perSecond(sum.SwapIn, uptime),
		SwapOut: perSecond(sum.SwapOut, uptime),
		PageIn:  perSecond(sum.PageIn, uptime),
		PageOut: perSecond(sum.PageOut, uptime),
	}, nil
}

// InterruptRates are interrupt and context-switch averages since boot.
type InterruptRates struct {
	Interrupts      uint64
	ContextSwitches uint64
}

// InterruptRatesSince sums interrupts and hardware-interrupt service time
// across every possible unit, online or not. The service time stands in for
// the context-switch count, which is what the historical report shows.
func InterruptRatesSince(ctx context.Context, src source.CounterSource, uptime uint64) (InterruptRates, error) {
	units, err := src.Interrupts(ctx)
	if err != nil {
		return InterruptRates{}, err
	}
	var irqs, irqTime uint64
	for _, u := range units {
		irqs += u.Interrupts
		irqTime += u.IRQTime
	}
	return InterruptRates{
		Interrupts:      perSecond(irqs, uptime),
		ContextSwitches: perSecond(irqTime, uptime),
	}, nil
}

func perSecond(total, uptime uint64) uint64 {
	if uptime == 0 {
		return 0
	}
	return total / uptime
}
