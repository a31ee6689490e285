package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
	"github.com/Dicklesworthstone/vmsnap/internal/logging"
	"github.com/Dicklesworthstone/vmsnap/internal/sampler"
)

// DefaultSocket is where vmsnapd listens unless configured otherwise.
const DefaultSocket = "/run/vmsnap.sock"

const defaultTimeout = 5 * time.Second

// Server answers one request per connection.
type Server struct {
	snap    sampler.Snapshotter
	log     logging.Logger
	timeout time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

func WithServerLogger(l logging.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// WithIOTimeout bounds the read and write of each connection.
func WithIOTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

func NewServer(snap sampler.Snapshotter, opts ...ServerOption) *Server {
	s := &Server{snap: snap, log: logging.Nop(), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen opens a unix socket at path, replacing a stale socket file left
// by an earlier run.
func Listen(path string) (net.Listener, error) {
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSocket != 0 {
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o666); err != nil {
		ln.Close()
		return nil, err
	}
	return ln, nil
}

// Serve accepts connections until ctx is done, then closes ln and waits
// for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	id := uuid.NewString()
	if s.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.timeout))
	}

	cmd, err := readRequest(conn)
	if err != nil {
		s.log.Error("request read failed", apperrors.TransferError{Op: "read request", Cause: err},
			logging.String("conn", id))
		return
	}

	if cmd != CmdGetSnapshot {
		reqErr := apperrors.InvalidRequestError{Code: cmd}
		s.log.Info("rejected request", logging.String("conn", id), logging.Err(reqErr))
		s.reply(id, writeFailure(conn, StatusInvalidRequest, reqErr.Error()))
		return
	}

	snap, err := s.snap.Snapshot(ctx)
	if apperrors.IsContextError(err) {
		// Shutting down: close without a status so the client sees a
		// transfer failure rather than a source failure.
		s.log.Info("request abandoned", logging.String("conn", id), logging.Err(err))
		return
	}
	if err != nil {
		s.log.Error("snapshot failed", err, logging.String("conn", id))
		s.reply(id, writeFailure(conn, StatusSourceUnavailable, err.Error()))
		return
	}
	s.reply(id, writeOK(conn, snap))
	s.log.Debug("snapshot served", logging.String("conn", id))
}

func (s *Server) reply(id string, err error) {
	if err != nil {
		s.log.Error("reply failed", apperrors.TransferError{Op: "write response", Cause: err},
			logging.String("conn", id))
	}
}
