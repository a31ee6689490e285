package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
	"github.com/Dicklesworthstone/vmsnap/internal/logging"
	"github.com/Dicklesworthstone/vmsnap/internal/metrics"
	"github.com/Dicklesworthstone/vmsnap/internal/sampler"
	"github.com/Dicklesworthstone/vmsnap/internal/transport"
)

const shutdownTimeout = 5 * time.Second

// RunDaemon serves snapshots on the configured socket, and on /metrics
// when metrics_addr is set, until ctx is done.
func (a *Application) RunDaemon(ctx context.Context) int {
	err := a.runDaemon(ctx)
	if err != nil {
		a.Log.Error("vmsnapd stopped", err)
	}
	return apperrors.ExitCode(err)
}

func (a *Application) runDaemon(ctx context.Context) error {
	smp, err := a.sampler()
	if err != nil {
		return err
	}
	ln, err := transport.Listen(a.Config.Socket)
	if err != nil {
		return apperrors.TransferError{Op: "listen " + a.Config.Socket, Cause: err}
	}
	a.Log.Info("vmsnapd listening",
		logging.String("socket", a.Config.Socket),
		logging.String("proc", a.Config.ProcRoot),
		logging.String("version", Version))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return transport.NewServer(smp, transport.WithServerLogger(a.Log)).Serve(gctx, ln)
	})
	if a.Config.MetricsAddr != "" {
		g.Go(func() error {
			return a.serveMetrics(gctx, smp)
		})
	}
	err = g.Wait()
	a.Log.Info("vmsnapd stopped gracefully")
	return err
}

// MetricsHandler exposes one freshly assembled snapshot per scrape.
func MetricsHandler(snap sampler.Snapshotter) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(snap))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (a *Application) serveMetrics(ctx context.Context, snap sampler.Snapshotter) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(snap))
	srv := &http.Server{
		Addr:              a.Config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("serving metrics", logging.String("addr", a.Config.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- apperrors.TransferError{Op: "metrics " + a.Config.MetricsAddr, Cause: err}
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
