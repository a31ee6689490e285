// Package app wires configuration, sources and transports into the vmstat
// client and the vmsnapd daemon.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Dicklesworthstone/vmsnap/internal/config"
	"github.com/Dicklesworthstone/vmsnap/internal/logging"
	"github.com/Dicklesworthstone/vmsnap/internal/sampler"
	"github.com/Dicklesworthstone/vmsnap/internal/source"
)

// Version is reported by -version.
var Version = "0.1.0"

// Application is one configured vmstat or vmsnapd invocation.
type Application struct {
	Name      string
	Config    config.Config
	ErrWriter io.Writer
	Log       logging.Logger

	openSource func(cfg config.Config) (source.CounterSource, error)
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource replaces the counter source opened from the config.
func WithSource(src source.CounterSource) AppOption {
	return func(a *Application) {
		a.openSource = func(config.Config) (source.CounterSource, error) { return src, nil }
	}
}

// WithLogger replaces the zerolog logger built from the config.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Log = l }
}

// New parses args (program name first) and builds an Application.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	name := "vmstat"
	var cmdArgs []string
	if len(args) > 0 {
		name = args[0]
		cmdArgs = args[1:]
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}

	cfg, err := config.Load(name, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	a := &Application{Name: name, Config: cfg, ErrWriter: errWriter, openSource: openSource}
	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.Log = logging.NewLogger(errWriter, name).WithLevel(level)
	}
	return a, nil
}

func openSource(cfg config.Config) (source.CounterSource, error) {
	if cfg.Fake {
		return source.Demo(), nil
	}
	return source.NewHost(cfg.ProcRoot)
}

// sampler builds an in-process Sampler over the configured source.
func (a *Application) sampler() (*sampler.Sampler, error) {
	src, err := a.openSource(a.Config)
	if err != nil {
		return nil, err
	}
	return sampler.New(src,
		sampler.WithLogger(a.Log),
		sampler.WithParallel(a.Config.Parallel)), nil
}

// HasVersionFlag reports whether args ask only for the version.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the program name and version.
func PrintVersion(w io.Writer, name string) {
	fmt.Fprintf(w, "%s %s\n", name, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
