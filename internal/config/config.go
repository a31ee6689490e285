package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Dicklesworthstone/vmsnap/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VMSNAP_"

// Config carries runtime options for vmstat and vmsnapd.
type Config struct {
	Socket      string        `yaml:"socket" validate:"required"`
	ProcRoot    string        `yaml:"proc_root" validate:"required"`
	MetricsAddr string        `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Interval    time.Duration `yaml:"interval" validate:"gt=0"`
	Parallel    bool          `yaml:"parallel"`
	Fake        bool          `yaml:"fake"`
	LogLevel    string        `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Client-only switches; not read from the config file.
	Watch bool `yaml:"-"`
	JSON  bool `yaml:"-"`
	Local bool `yaml:"-"`

	ConfigFile string `yaml:"-"`
	EnvFile    string `yaml:"-"`
}

func Default() Config {
	return Config{
		Socket:   "/run/vmsnap.sock",
		ProcRoot: "/proc",
		Interval: time.Second,
		LogLevel: "info",
	}
}

// setting ties one flag to its config field and env key.
type setting struct {
	flag  string
	env   string // without EnvPrefix; "" means flag only
	copy  func(dst, src *Config)
	parse func(c *Config, v string) bool
}

var settings = []setting{
	{"socket", "SOCKET", func(d, s *Config) { d.Socket = s.Socket }, func(c *Config, v string) bool { c.Socket = v; return true }},
	{"proc", "PROC", func(d, s *Config) { d.ProcRoot = s.ProcRoot }, func(c *Config, v string) bool { c.ProcRoot = v; return true }},
	{"metrics-addr", "METRICS_ADDR", func(d, s *Config) { d.MetricsAddr = s.MetricsAddr }, func(c *Config, v string) bool { c.MetricsAddr = v; return true }},
	{"interval", "INTERVAL", func(d, s *Config) { d.Interval = s.Interval }, parseInterval},
	{"parallel", "PARALLEL", func(d, s *Config) { d.Parallel = s.Parallel }, func(c *Config, v string) bool { return parseBool(v, &c.Parallel) }},
	{"fake", "FAKE", func(d, s *Config) { d.Fake = s.Fake }, func(c *Config, v string) bool { return parseBool(v, &c.Fake) }},
	{"log-level", "LOG_LEVEL", func(d, s *Config) { d.LogLevel = s.LogLevel }, func(c *Config, v string) bool { c.LogLevel = strings.ToLower(v); return true }},
	{"watch", "", func(d, s *Config) { d.Watch = s.Watch }, nil},
	{"json", "", func(d, s *Config) { d.JSON = s.JSON }, nil},
	{"local", "", func(d, s *Config) { d.Local = s.Local }, nil},
}

// Load builds a Config from, in increasing precedence: defaults, the YAML
// file named by -config, the env file named by -env-file together with the
// process environment, and explicitly set flags.
func Load(name string, args []string, errOut io.Writer) (Config, error) {
	flagged := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&flagged.Socket, "socket", flagged.Socket, "unix socket path of vmsnapd")
	fs.StringVar(&flagged.ProcRoot, "proc", flagged.ProcRoot, "proc filesystem mount point")
	fs.StringVar(&flagged.MetricsAddr, "metrics-addr", flagged.MetricsAddr, "serve Prometheus metrics on host:port (daemon)")
	fs.DurationVar(&flagged.Interval, "interval", flagged.Interval, "refresh interval for -watch")
	fs.BoolVar(&flagged.Parallel, "parallel", flagged.Parallel, "run collectors concurrently")
	fs.BoolVar(&flagged.Fake, "fake", flagged.Fake, "serve a fixed demo system instead of /proc")
	fs.StringVar(&flagged.LogLevel, "log-level", flagged.LogLevel, "debug|info|warn|error")
	fs.BoolVar(&flagged.Watch, "watch", false, "refresh the report until q is pressed")
	fs.BoolVar(&flagged.JSON, "json", false, "print the snapshot as JSON")
	fs.BoolVar(&flagged.Local, "local", false, "assemble the snapshot in-process instead of asking vmsnapd")
	fs.StringVar(&flagged.ConfigFile, "config", "", "YAML config file")
	fs.StringVar(&flagged.EnvFile, "env-file", "", "file of VMSNAP_* variables to load")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, apperrors.NewConfigError("%v", err)
	}

	cfg := Default()
	cfg.ConfigFile, cfg.EnvFile = flagged.ConfigFile, flagged.EnvFile

	if cfg.ConfigFile != "" {
		if err := loadFile(&cfg, cfg.ConfigFile); err != nil {
			return Config{}, err
		}
	}
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			return Config{}, apperrors.NewConfigError("env file %s: %v", cfg.EnvFile, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		for _, s := range settings {
			if s.flag == f.Name {
				s.copy(&cfg, &flagged)
			}
		}
	})

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError("config file: %v", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return apperrors.NewConfigError("config file %s: %v", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	for _, s := range settings {
		if s.env == "" {
			continue
		}
		v, ok := os.LookupEnv(EnvPrefix + s.env)
		if !ok || v == "" {
			continue
		}
		if !s.parse(cfg, v) {
			return apperrors.NewConfigError("invalid %s%s=%q", EnvPrefix, s.env, v)
		}
	}
	return nil
}

// parseInterval accepts a Go duration or a bare number of seconds.
func parseInterval(c *Config, v string) bool {
	if d, err := time.ParseDuration(v); err == nil {
		c.Interval = d
		return true
	}
	if d, err := time.ParseDuration(v + "s"); err == nil {
		c.Interval = d
		return true
	}
	return false
}

func parseBool(v string, dst *bool) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		*dst = true
	case "0", "false", "no":
		*dst = false
	default:
		return false
	}
	return true
}

var validate = validator.New()

// Validate checks field constraints and reports the first violation.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.NewConfigError("invalid %s: %v fails %q", strings.ToLower(fe.Field()), fe.Value(), fe.Tag())
	}
	return apperrors.NewConfigError("%v", err)
}
