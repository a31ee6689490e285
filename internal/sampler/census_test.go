package sampler

import (
	"context"
	"errors"
	"testing"

	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

func TestCountTasks(t *testing.T) {
	tests := []struct {
		name    string
		states  []source.TaskState
		running uint64
		blocked uint64
	}{
		{"empty table", nil, 0, 0},
		{"only sleepers", []source.TaskState{'S', 'S', 'I'}, 0, 0},
		{"mixed", []source.TaskState{'R', 'S', 'D', 'R', 'Z', 'T', 'D', 'D'}, 2, 3},
		{"all running", []source.TaskState{'R', 'R', 'R'}, 3, 0},
		{"idle kernel threads are not blocked", []source.TaskState{source.TaskIdle, source.TaskIdle, source.TaskUninterruptible}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &source.Static{States: tt.states}
			got, err := CountTasks(context.Background(), src)
			if err != nil {
				t.Fatalf("CountTasks() error = %v", err)
			}
			if got.Running != tt.running || got.Blocked != tt.blocked {
				t.Errorf("CountTasks() = %+v, want running=%d blocked=%d", got, tt.running, tt.blocked)
			}
		})
	}
}

func TestCountTasks_MatchesIndependentCensus(t *testing.T) {
	states := make([]source.TaskState, 0, 1000)
	letters := []source.TaskState{'R', 'S', 'D', 'I', 'Z', 'T'}
	var wantR, wantD uint64
	for i := 0; i < 1000; i++ {
		st := letters[(i*7+i/3)%len(letters)]
		states = append(states, st)
		switch st {
		case 'R':
			wantR++
		case 'D':
			wantD++
		}
	}
	got, err := CountTasks(context.Background(), &source.Static{States: states})
	if err != nil {
		t.Fatal(err)
	}
	if got.Running != wantR || got.Blocked != wantD {
		t.Errorf("CountTasks() = %+v, want running=%d blocked=%d", got, wantR, wantD)
	}
}

func TestCountTasks_SourceError(t *testing.T) {
	cause := errors.New("proc not mounted")
	src := &source.Static{States: []source.TaskState{'R'}, Errs: map[string]error{source.CounterTasks: cause}}
	got, err := CountTasks(context.Background(), src)
	if !errors.Is(err, cause) {
		t.Fatalf("CountTasks() error = %v, want %v", err, cause)
	}
	if got != (Census{}) {
		t.Errorf("CountTasks() on error = %+v, want zero", got)
	}
}
