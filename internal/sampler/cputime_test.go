package sampler

import (
	"context"
	"errors"
	"testing"

	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

func TestCPUSharesSince(t *testing.T) {
	tests := []struct {
		name  string
		units []source.CPUTimes
		want  CPUShares
	}{
		{
			name: "reference breakdown",
			units: []source.CPUTimes{
				{User: 50, Nice: 0, System: 30, Idle: 100, IOWait: 10, IRQ: 5, SoftIRQ: 5, Steal: 0},
			},
			want: CPUShares{User: 25, System: 20, Idle: 50, IOWait: 5, Steal: 0},
		},
		{
			name: "summed across units",
			units: []source.CPUTimes{
				{Unit: 0, User: 25, System: 15, Idle: 50, IOWait: 5, IRQ: 5},
				{Unit: 1, User: 25, System: 15, Idle: 50, IOWait: 5, SoftIRQ: 5},
			},
			want: CPUShares{User: 25, System: 20, Idle: 50, IOWait: 5},
		},
		{
			name:  "truncation loses points",
			units: []source.CPUTimes{{User: 1, System: 1, Idle: 1}},
			want:  CPUShares{User: 33, System: 33, Idle: 33},
		},
		{
			name:  "nice counts as user, steal separate",
			units: []source.CPUTimes{{Nice: 30, Idle: 60, Steal: 10}},
			want:  CPUShares{User: 30, Idle: 60, Steal: 10},
		},
		{
			name:  "zero total",
			units: []source.CPUTimes{{}, {}},
			want:  CPUShares{},
		},
		{
			name:  "no units",
			units: nil,
			want:  CPUShares{},
		},
		{
			name:  "large nanosecond counts",
			units: []source.CPUTimes{{User: 1 << 62, Idle: 1 << 62}},
			want:  CPUShares{User: 50, Idle: 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CPUSharesSince(context.Background(), &source.Static{CPUUnits: tt.units})
			if err != nil {
				t.Fatalf("CPUSharesSince() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CPUSharesSince() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCPUSharesSince_SourceError(t *testing.T) {
	cause := errors.New("stat missing")
	src := &source.Static{Errs: map[string]error{source.CounterCPUTimes: cause}}
	if _, err := CPUSharesSince(context.Background(), src); !errors.Is(err, cause) {
		t.Fatalf("CPUSharesSince() error = %v", err)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct{ part, total, want uint64 }{
		{0, 1, 0},
		{1, 1, 100},
		{1, 3, 33},
		{2, 3, 66},
		{^uint64(0), ^uint64(0), 100},
		{^uint64(0) / 2, ^uint64(0), 49},
	}
	for _, tt := range tests {
		if got := percent(tt.part, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
}

func TestCPUSharesSince_TotalPast64Bits(t *testing.T) {
	tests := []struct {
		name string
		unit source.CPUTimes
		want CPUShares
	}{
		{"even split", source.CPUTimes{User: 1 << 62, Idle: 1 << 62}, CPUShares{User: 50, Idle: 50}},
		{"three to one", source.CPUTimes{User: 3 << 61, Idle: 1 << 61}, CPUShares{User: 75, Idle: 25}},
		{"all categories", source.CPUTimes{
			User: 1 << 60, Nice: 1 << 60, System: 1 << 60, Idle: 1 << 62,
			IOWait: 1 << 60, IRQ: 1 << 59, SoftIRQ: 1 << 59, Steal: 1 << 60,
		}, CPUShares{User: 20, System: 20, Idle: 40, IOWait: 10, Steal: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// four units push every total to 2^65 or more
			units := []source.CPUTimes{tt.unit, tt.unit, tt.unit, tt.unit}
			got, err := CPUSharesSince(context.Background(), &source.Static{CPUUnits: units})
			if err != nil {
				t.Fatalf("CPUSharesSince() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CPUSharesSince() = %+v, want %+v", got, tt.want)
			}
			if sum := got.User + got.System + got.Idle + got.IOWait + got.Steal; sum > 100 {
				t.Errorf("shares sum to %d", sum)
			}
		})
	}
}

func TestU128Shr(t *testing.T) {
	v := u128{hi: 0b101, lo: 1 << 63}
	tests := []struct {
		n    uint
		want uint64
	}{
		{0, 1 << 63},
		{1, 1<<63 | 1<<62},
		{3, 0b101<<61 | 1<<60},
		{64, 0b101},
		{66, 1},
	}
	for _, tt := range tests {
		if got := v.shr(tt.n); got != tt.want {
			t.Errorf("shr(%d) = %#x, want %#x", tt.n, got, tt.want)
		}
	}
}
