package hostguard_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"github.com/optimode/mxprobe/internal/hostguard"
)

func TestGuard_OpensAfterConsecutiveFailures(t *testing.T) {
	g := hostguard.New(hostguard.Config{Failures: 2, OpenFor: time.Minute}, nil)
	fault := errors.New("i/o timeout")

	calls := 0
	fail := func() error { calls++; return fault }

	assert.ErrorIs(t, g.Do("mx1.example.com", fail), fault)
	assert.ErrorIs(t, g.Do("mx1.example.com", fail), fault)
	assert.Equal(t, gobreaker.StateOpen, g.State("mx1.example.com"))

	err := g.Do("mx1.example.com", fail)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, calls, "open breaker must not call through")

	// other hosts are unaffected
	assert.Equal(t, gobreaker.StateClosed, g.State("mx2.example.com"))
	assert.NoError(t, g.Do("mx2.example.com", func() error { return nil }))
}

func TestGuard_SuccessResetsCount(t *testing.T) {
	g := hostguard.New(hostguard.Config{Failures: 2}, nil)
	fault := errors.New("connection refused")

	_ = g.Do("mx.example.com", func() error { return fault })
	_ = g.Do("mx.example.com", func() error { return nil })
	_ = g.Do("mx.example.com", func() error { return fault })

	assert.Equal(t, gobreaker.StateClosed, g.State("mx.example.com"))
}

func TestGuard_HalfOpenAfterTimeout(t *testing.T) {
	g := hostguard.New(hostguard.Config{Failures: 1, OpenFor: 50 * time.Millisecond}, nil)

	_ = g.Do("mx.example.com", func() error { return errors.New("refused") })
	assert.Equal(t, gobreaker.StateOpen, g.State("mx.example.com"))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, g.State("mx.example.com"))

	assert.NoError(t, g.Do("mx.example.com", func() error { return nil }))
	assert.Equal(t, gobreaker.StateClosed, g.State("mx.example.com"))
}
