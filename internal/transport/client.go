package transport

import (
	"context"
	"net"
	"time"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
	"github.com/Dicklesworthstone/vmsnap/internal/model"
	"github.com/Dicklesworthstone/vmsnap/internal/sampler"
)

// Client requests snapshots from a vmsnapd socket.
type Client struct {
	Socket  string
	Timeout time.Duration
}

var _ sampler.Snapshotter = (*Client)(nil)

func NewClient(socket string) *Client {
	return &Client{Socket: socket, Timeout: defaultTimeout}
}

// Snapshot requests one snapshot.
func (c *Client) Snapshot(ctx context.Context) (model.Snapshot, error) {
	return c.Do(ctx, CmdGetSnapshot)
}

// Do sends a raw command code and reads the response.
func (c *Client) Do(ctx context.Context, cmd uint32) (model.Snapshot, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.Socket)
	if err != nil {
		return model.Snapshot{}, apperrors.TransferError{Op: "dial " + c.Socket, Cause: err}
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := writeRequest(conn, cmd); err != nil {
		return model.Snapshot{}, apperrors.TransferError{Op: "write request", Cause: err}
	}
	return readResponse(conn, cmd)
}
