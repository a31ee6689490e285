// Package logging provides the structured logging interface used by the
// snapshot core, the transport and both binaries. The only backend is
// zerolog; tests and library callers that want silence use Nop.
package logging
