package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optimode/mxprobe/internal/parse"
)

func TestNewEmail_ASCII(t *testing.T) {
	e := parse.NewEmail("user@example.com")
	assert.True(t, e.Valid)
	assert.Equal(t, "user", e.Local)
	assert.Equal(t, "example.com", e.Domain)
	assert.Equal(t, "example.com", e.DomainUnicode)
	assert.Equal(t, "user@example.com", e.Address())
}

func TestNewEmail_Whitespace(t *testing.T) {
	e := parse.NewEmail("  user@example.com  ")
	assert.True(t, e.Valid)
	assert.Equal(t, "user", e.Local)
	assert.Equal(t, "user@example.com", e.Raw)
}

func TestNewEmail_Invalid(t *testing.T) {
	tests := []string{
		"",
		"noatsign",
		"@nodomain.com",
		"nolocal@",
		"user@localhost",
		"two@at@example.com",
		"user name@example.com",
		"user@exa mple.com",
		"user@.com",
		"user@example.",
	}
	for _, raw := range tests {
		e := parse.NewEmail(raw)
		assert.False(t, e.Valid, "expected invalid for %q", raw)
		assert.Equal(t, raw, e.Raw)
	}
}

func TestNewEmail_GateIsPragmatic(t *testing.T) {
	// The gate only looks at shape; RFC strictness is left to the exchanger.
	for _, raw := range []string{"a..b@example.com", ".lead@example.com", "x@a.b"} {
		assert.True(t, parse.NewEmail(raw).Valid, "expected valid for %q", raw)
	}
}

func TestNewEmail_LocalCasePreserved(t *testing.T) {
	e := parse.NewEmail("John.Doe@EXAMPLE.COM")
	assert.True(t, e.Valid)
	assert.Equal(t, "John.Doe", e.Local)
	assert.Equal(t, "example.com", e.Domain)
}

func TestNewEmail_IDN_UnicodeDomain(t *testing.T) {
	e := parse.NewEmail("user@münchen.de")
	assert.True(t, e.Valid)
	assert.Equal(t, "xn--mnchen-3ya.de", e.Domain)
	assert.Equal(t, "münchen.de", e.DomainUnicode)
	assert.Equal(t, "user@xn--mnchen-3ya.de", e.Address())
}

func TestNewEmail_IDN_PunycodeDomain(t *testing.T) {
	e := parse.NewEmail("user@xn--mnchen-3ya.de")
	assert.True(t, e.Valid)
	assert.Equal(t, "xn--mnchen-3ya.de", e.Domain)
	assert.Equal(t, "münchen.de", e.DomainUnicode)
}

func TestNewEmail_IDN_CyrillicDomain(t *testing.T) {
	e := parse.NewEmail("user@почта.рф")
	assert.True(t, e.Valid)
	assert.Equal(t, "xn--80a1acny.xn--p1ai", e.Domain)
}

func TestEmail_WithLocal(t *testing.T) {
	e := parse.NewEmail("user@Example.com")
	probe := e.WithLocal("user-abc123")

	assert.Equal(t, "user-abc123", probe.Local)
	assert.Equal(t, "example.com", probe.Domain)
	assert.Equal(t, "user-abc123@example.com", probe.Address())
	assert.Equal(t, "user", e.Local, "original must not change")
}
