// Package config loads mxprobe settings for the CLI and the HTTP server.
//
// Sources are applied in order: .env files, an optional TOML file, then
// MXPROBE_* environment variables. The merged result is validated once.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/optimode/mxprobe"
)

// ErrInvalidConfig is returned when the merged configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration accepts Go duration syntax ("10s") or bare milliseconds ("10000").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseDuration parses s as milliseconds when it is a bare integer and as a
// Go duration otherwise.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Config is the full application configuration.
type Config struct {
	Probe   ProbeConfig   `toml:"probe"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

// ProbeConfig mirrors mxprobe.Options.
type ProbeConfig struct {
	MailFrom        string   `toml:"mail_from" validate:"required,email"`
	HeloDomain      string   `toml:"helo_domain" validate:"required,hostname"`
	ConnectTimeout  Duration `toml:"connect_timeout" validate:"gt=0"`
	CommandTimeout  Duration `toml:"command_timeout" validate:"gt=0"`
	ShortTimeout    Duration `toml:"short_timeout" validate:"gt=0"`
	DNSTimeout      Duration `toml:"dns_timeout" validate:"gt=0"`
	MaxMXHosts      int      `toml:"max_mx_hosts" validate:"min=1,max=10"`
	CatchAll        bool     `toml:"catch_all"`
	StartTLS        bool     `toml:"starttls"`
	Port            string   `toml:"smtp_port" validate:"required,numeric"`
	MXCacheTTL      Duration `toml:"mx_cache_ttl" validate:"gte=0"`
	BreakerFailures uint32   `toml:"host_breaker_failures"`
	BreakerOpenFor  Duration `toml:"host_breaker_open_for" validate:"gte=0"`
}

// ServerConfig configures `mxprobe serve`.
type ServerConfig struct {
	ListenAddr      string   `toml:"listen_addr" validate:"required"`
	RequestTimeout  Duration `toml:"request_timeout" validate:"gt=0"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn warning error"`
	Format string `toml:"format" validate:"oneof=text console json"`
}

// Default returns the configuration used when nothing is set.
// The sender identity has no default and must be provided.
func Default() *Config {
	opts := mxprobe.DefaultOptions("", "")
	return &Config{
		Probe: ProbeConfig{
			ConnectTimeout: Duration(opts.ConnectTimeout),
			CommandTimeout: Duration(opts.CommandTimeout),
			ShortTimeout:   Duration(opts.ShortTimeout),
			DNSTimeout:     Duration(opts.DNSTimeout),
			MaxMXHosts:     opts.MaxMXHosts,
			CatchAll:       opts.CatchAll,
			StartTLS:       opts.StartTLS,
			Port:           opts.Port,
			BreakerOpenFor: Duration(opts.BreakerOpenFor),
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			RequestTimeout:  Duration(60 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Overrides are applied last, on top of file and environment. Empty
// fields leave the loaded value alone. The CLI fills these from flags.
type Overrides struct {
	MailFrom   string
	HeloDomain string
	LogLevel   string
}

func (o Overrides) apply(c *Config) {
	if o.MailFrom != "" {
		c.Probe.MailFrom = o.MailFrom
	}
	if o.HeloDomain != "" {
		c.Probe.HeloDomain = o.HeloDomain
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
}

// Load builds the configuration. With no envFiles, a .env file in the
// working directory is loaded if present. path may be empty.
func Load(path string, envFiles ...string) (*Config, error) {
	return LoadWith(path, envFiles, Overrides{})
}

// LoadWith is Load with explicit overrides.
func LoadWith(path string, envFiles []string, o Overrides) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	o.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	p := &c.Probe
	envString("MXPROBE_MAIL_FROM", &p.MailFrom)
	envString("MXPROBE_HELO_DOMAIN", &p.HeloDomain)
	envString("MXPROBE_SMTP_PORT", &p.Port)
	envString("MXPROBE_LISTEN_ADDR", &c.Server.ListenAddr)
	envString("MXPROBE_LOG_LEVEL", &c.Logging.Level)
	envString("MXPROBE_LOG_FORMAT", &c.Logging.Format)

	durations := map[string]*Duration{
		"MXPROBE_CONNECT_TIMEOUT": &p.ConnectTimeout,
		"MXPROBE_COMMAND_TIMEOUT": &p.CommandTimeout,
		"MXPROBE_SHORT_TIMEOUT":   &p.ShortTimeout,
		"MXPROBE_DNS_TIMEOUT":     &p.DNSTimeout,
		"MXPROBE_MX_CACHE_TTL":    &p.MXCacheTTL,
	}
	for key, dst := range durations {
		if err := envDuration(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookupEnv("MXPROBE_MAX_MX_HOSTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MXPROBE_MAX_MX_HOSTS: %w", err)
		}
		p.MaxMXHosts = n
	}
	if v, ok := lookupEnv("MXPROBE_HOST_BREAKER"); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("MXPROBE_HOST_BREAKER: %w", err)
		}
		p.BreakerFailures = uint32(n)
	}
	if err := envBool("MXPROBE_CATCH_ALL", &p.CatchAll); err != nil {
		return err
	}
	return envBool("MXPROBE_STARTTLS", &p.StartTLS)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envString(key string, dst *string) {
	if v, ok := lookupEnv(key); ok {
		*dst = v
	}
}

func envDuration(key string, dst *Duration) error {
	v, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	d, err := ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their TOML key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration and reports every failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "hostname":
			msgs = append(msgs, field+" must be a valid hostname")
		case "gt", "gte":
			msgs = append(msgs, field+" must be positive")
		case "min", "max":
			msgs = append(msgs, field+" must be between 1 and 10")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// ProbeOptions converts the probe section into mxprobe.Options.
func (c *Config) ProbeOptions() mxprobe.Options {
	p := c.Probe
	return mxprobe.Options{
		MailFrom:        p.MailFrom,
		HeloDomain:      p.HeloDomain,
		ConnectTimeout:  time.Duration(p.ConnectTimeout),
		CommandTimeout:  time.Duration(p.CommandTimeout),
		ShortTimeout:    time.Duration(p.ShortTimeout),
		DNSTimeout:      time.Duration(p.DNSTimeout),
		MaxMXHosts:      p.MaxMXHosts,
		CatchAll:        p.CatchAll,
		StartTLS:        p.StartTLS,
		Port:            p.Port,
		MXCacheTTL:      time.Duration(p.MXCacheTTL),
		BreakerFailures: p.BreakerFailures,
		BreakerOpenFor:  time.Duration(p.BreakerOpenFor),
	}
}
