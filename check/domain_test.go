package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optimode/mxprobe/check"
)

func TestProviderTable_Suggest(t *testing.T) {
	table := check.DefaultProviders()

	tests := []struct {
		domain string
		want   string
	}{
		{"gmial.com", "gmail.com"},
		{"GMAL.COM.", "gmail.com"},
		{"hotmial.com", "hotmail.com"},
		{"yahooo.com", "yahoo.com"},
		{"gmail.com", ""},
		{"example.org", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Suggest(tt.domain, 2))
		})
	}

	assert.Empty(t, table.Suggest("gmial.com", 0), "zero distance disables suggestions")
	assert.Empty(t, check.ProviderTable{}.Suggest("gmial.com", 2))
}
