package mxprobe

import (
	"fmt"
	"time"
)

// Options configures a Prober. Start from DefaultOptions and override fields.
type Options struct {
	// MailFrom is the address sent in the MAIL FROM command. Required, e.g. "verify@myapp.com"
	MailFrom string
	// HeloDomain is the identity sent in HELO/EHLO. Required, e.g. "myapp.com"
	HeloDomain string
	// ConnectTimeout is the maximum time for the TCP connection. Default: 10s
	ConnectTimeout time.Duration
	// CommandTimeout is the maximum response time for each SMTP command. Default: 10s
	CommandTimeout time.Duration
	// ShortTimeout caps both timeouts for the catch-all probe. Default: 5s
	ShortTimeout time.Duration
	// DNSTimeout bounds the MX lookup. Default: 5s
	DNSTimeout time.Duration
	// MaxMXHosts is how many MX hosts to try sequentially. Default: 3
	MaxMXHosts int
	// CatchAll enables the second probe with a random local part. Default: true
	CatchAll bool
	// StartTLS enables opportunistic STARTTLS without certificate checks. Default: false
	StartTLS bool
	// Port is the SMTP port. Default: 25
	Port string
	// MXCacheTTL caches MX lookups across requests when > 0. Default: 0 (off)
	MXCacheTTL time.Duration
	// BreakerFailures opens a per-exchanger circuit breaker after this many
	// consecutive transport faults when > 0. Default: 0 (off)
	BreakerFailures uint32
	// BreakerOpenFor is how long an open breaker skips its exchanger. Default: 1m
	BreakerOpenFor time.Duration
}

// DefaultOptions returns the default configuration with the two required
// identity fields filled in.
func DefaultOptions(mailFrom, heloDomain string) Options {
	return Options{
		MailFrom:       mailFrom,
		HeloDomain:     heloDomain,
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: 10 * time.Second,
		ShortTimeout:   5 * time.Second,
		DNSTimeout:     5 * time.Second,
		MaxMXHosts:     3,
		CatchAll:       true,
		Port:           "25",
		BreakerOpenFor: time.Minute,
	}
}

// withDefaults fills unset durations and limits. Booleans are taken as given.
func (o Options) withDefaults() Options {
	def := DefaultOptions(o.MailFrom, o.HeloDomain)
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = def.ConnectTimeout
	}
	if o.CommandTimeout <= 0 {
		o.CommandTimeout = def.CommandTimeout
	}
	if o.ShortTimeout <= 0 {
		o.ShortTimeout = def.ShortTimeout
	}
	if o.DNSTimeout <= 0 {
		o.DNSTimeout = def.DNSTimeout
	}
	if o.MaxMXHosts == 0 {
		o.MaxMXHosts = def.MaxMXHosts
	}
	if o.Port == "" {
		o.Port = def.Port
	}
	if o.BreakerOpenFor <= 0 {
		o.BreakerOpenFor = def.BreakerOpenFor
	}
	return o
}

func (o Options) validate() error {
	if o.MailFrom == "" || o.HeloDomain == "" {
		return fmt.Errorf("%w: MailFrom and HeloDomain are required", ErrInvalidOptions)
	}
	if o.MaxMXHosts < 0 {
		return fmt.Errorf("%w: MaxMXHosts must not be negative", ErrInvalidOptions)
	}
	return nil
}
