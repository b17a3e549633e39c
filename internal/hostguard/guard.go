// Package hostguard keeps one circuit breaker per mail exchanger so that an
// exchanger which keeps refusing or timing out is skipped for a while
// instead of being hammered by every request.
package hostguard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Config configures the breakers.
type Config struct {
	// Failures is the number of consecutive transport faults that open the breaker.
	Failures uint32
	// OpenFor is how long an open breaker rejects attempts before probing again.
	OpenFor time.Duration
	// Interval resets failure counts while closed. Zero keeps counts until a success.
	Interval time.Duration
}

// Guard holds the breakers, keyed by exchanger host name.
type Guard struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// New creates a Guard. A nil logger discards breaker state changes.
func New(cfg Config, logger *slog.Logger) *Guard {
	if cfg.Failures == 0 {
		cfg.Failures = 5
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guard{
		cfg:      cfg,
		logger:   logger.With("component", "hostguard"),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Do runs fn through the breaker for host. fn returns an error only for
// transport faults; those are the ones that count towards opening.
// When the breaker is open, fn is not called and gobreaker.ErrOpenState
// (or ErrTooManyRequests while half-open) is returned.
func (g *Guard) Do(host string, fn func() error) error {
	_, err := g.breaker(host).Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// State reports the breaker state for host.
func (g *Guard) State(host string) gobreaker.State {
	return g.breaker(host).State()
}

func (g *Guard) breaker(host string) *gobreaker.CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[host]; ok {
		return cb
	}

	failures := g.cfg.Failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    g.cfg.Interval,
		Timeout:     g.cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			g.logger.Info("Exchanger breaker state changed",
				"host", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	g.breakers[host] = cb
	return cb
}
