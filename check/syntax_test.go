package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/mxprobe/check"
)

func TestSyntax(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		wantOK bool
	}{
		{"valid simple", "user@example.com", true},
		{"valid with plus", "user+tag@example.com", true},
		{"valid with dots", "first.last@example.com", true},
		{"valid subdomain", "user@mail.example.co.uk", true},
		{"surrounding whitespace", "  user@example.com\t", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"no at sign", "userexample.com", false},
		{"no domain", "user@", false},
		{"no local", "@example.com", false},
		{"two at signs", "a@b@example.com", false},
		{"inner whitespace", "us er@example.com", false},
		{"domain without dot", "user@localhost", false},

		// IDN (Internationalized Domain Names)
		{"valid IDN german", "user@münchen.de", true},
		{"valid IDN cyrillic", "user@почта.рф", true},
		{"valid Punycode", "user@xn--mnchen-3ya.de", true},

		// EAI (Email Address Internationalization / RFC 6531)
		{"valid EAI chinese local", "用户@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := check.Syntax(tt.email)
			if tt.wantOK {
				require.NoError(t, err)
				assert.True(t, email.Valid)
				return
			}
			assert.ErrorIs(t, err, check.ErrInvalidSyntax)
			assert.False(t, email.Valid)
		})
	}
}

func TestSyntax_NormalizesDomain(t *testing.T) {
	email, err := check.Syntax("John@Example.COM.")
	require.NoError(t, err)
	assert.Equal(t, "John", email.Local)
	assert.Equal(t, "example.com", email.Domain)
	assert.Equal(t, "John@example.com", email.Address())
}
