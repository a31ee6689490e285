package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
	"github.com/Dicklesworthstone/vmsnap/internal/sampler"
	"github.com/Dicklesworthstone/vmsnap/internal/transport"
	"github.com/Dicklesworthstone/vmsnap/internal/ui"
)

// snapshotter asks vmsnapd over its socket, or assembles in-process for
// -local and -fake.
func (a *Application) snapshotter() (sampler.Snapshotter, error) {
	if a.Config.Local || a.Config.Fake {
		return a.sampler()
	}
	return transport.NewClient(a.Config.Socket), nil
}

// RunClient prints one report (or JSON), or runs the watch view, and
// returns the exit code. Failures print a single diagnostic line.
func (a *Application) RunClient(ctx context.Context, out io.Writer) int {
	err := a.runClient(ctx, out)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "%s: %v\n", a.Name, err)
	}
	return apperrors.ExitCode(err)
}

func (a *Application) runClient(ctx context.Context, out io.Writer) error {
	snap, err := a.snapshotter()
	if err != nil {
		return err
	}
	if a.Config.Watch {
		return ui.RunWatch(snap, a.Config.Interval)
	}

	s, err := snap.Snapshot(ctx)
	if err != nil {
		return err
	}
	if a.Config.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return ui.WriteReport(out, s)
}
