// Package transport carries snapshots between vmsnapd and its clients over
// a fixed-layout request/response exchange.
package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
	"github.com/Dicklesworthstone/vmsnap/internal/model"
)

// PayloadSize is the encoded size of a Snapshot.
const PayloadSize = model.NumFields * 8

// CmdGetSnapshot is the only accepted command:
// _IOR('v', 1, struct of 17 unsigned longs).
const CmdGetSnapshot uint32 = 2<<30 | PayloadSize<<16 | 'v'<<8 | 1

// Response status codes, errno-valued like the historical device.
const (
	StatusOK                uint32 = 0
	StatusSourceUnavailable uint32 = 5  // EIO
	StatusInvalidRequest    uint32 = 22 // EINVAL
)

const maxMessage = 1<<16 - 1

var order = binary.LittleEndian

// Encode writes the fixed 136-byte payload for s.
func Encode(s model.Snapshot) []byte {
	buf := make([]byte, PayloadSize)
	for i, v := range s.Values() {
		order.PutUint64(buf[i*8:], v)
	}
	return buf
}

// Decode parses a payload produced by Encode.
func Decode(b []byte) (model.Snapshot, error) {
	if len(b) != PayloadSize {
		return model.Snapshot{}, fmt.Errorf("payload is %d bytes, want %d", len(b), PayloadSize)
	}
	var v [model.NumFields]uint64
	for i := range v {
		v[i] = order.Uint64(b[i*8:])
	}
	return model.FromValues(v), nil
}

func writeRequest(w io.Writer, cmd uint32) error {
	return binary.Write(w, order, cmd)
}

func readRequest(r io.Reader) (uint32, error) {
	var cmd uint32
	err := binary.Read(r, order, &cmd)
	return cmd, err
}

// writeOK sends status 0 and the payload in a single write.
func writeOK(w io.Writer, s model.Snapshot) error {
	buf := make([]byte, 4, 4+PayloadSize)
	order.PutUint32(buf, StatusOK)
	buf = append(buf, Encode(s)...)
	_, err := w.Write(buf)
	return err
}

func writeFailure(w io.Writer, status uint32, msg string) error {
	if len(msg) > maxMessage {
		msg = msg[:maxMessage]
		for !utf8.ValidString(msg) {
			msg = msg[:len(msg)-1]
		}
	}
	buf := make([]byte, 6, 6+len(msg))
	order.PutUint32(buf, status)
	order.PutUint16(buf[4:], uint16(len(msg)))
	buf = append(buf, msg...)
	_, err := w.Write(buf)
	return err
}

// readResponse decodes one response and maps failure statuses back onto
// the error taxonomy.
func readResponse(r io.Reader, cmd uint32) (model.Snapshot, error) {
	var status uint32
	if err := binary.Read(r, order, &status); err != nil {
		return model.Snapshot{}, apperrors.TransferError{Op: "read status", Cause: err}
	}
	if status == StatusOK {
		buf := make([]byte, PayloadSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return model.Snapshot{}, apperrors.TransferError{Op: "read payload", Cause: err}
		}
		return Decode(buf)
	}

	var n uint16
	if err := binary.Read(r, order, &n); err != nil {
		return model.Snapshot{}, apperrors.TransferError{Op: "read message", Cause: err}
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(r, msg); err != nil {
		return model.Snapshot{}, apperrors.TransferError{Op: "read message", Cause: err}
	}
	return model.Snapshot{}, statusError(status, string(msg), cmd)
}

func statusError(status uint32, msg string, cmd uint32) error {
	switch status {
	case StatusInvalidRequest:
		return apperrors.InvalidRequestError{Code: cmd}
	case StatusSourceUnavailable:
		return apperrors.SourceUnavailableError{Counter: "remote", Cause: remoteError(msg)}
	default:
		return fmt.Errorf("server status %d: %s", status, msg)
	}
}

type remoteError string

func (e remoteError) Error() string { return string(e) }
