package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optimode/mxprobe/check"
)

func TestProviderTable_Match(t *testing.T) {
	table := check.DefaultProviders()

	tests := []struct {
		name    string
		domain  string
		mxHosts []string
		want    string
		wantOK  bool
	}{
		{"exact consumer domain", "outlook.com", nil, "Microsoft", true},
		{"domain case-insensitive", "Hotmail.COM", nil, "Microsoft", true},
		{"tenant on Microsoft 365", "contoso.com", []string{"contoso-com.mail.protection.outlook.com"}, "Microsoft", true},
		{"yahoo by mx", "sbcglobal.net", []string{"mx-biz.mail.am0.yahoodns.net"}, "Yahoo", true},
		{"aol domain", "aol.com", []string{"mx-aol.mail.gm0.yahoodns.net"}, "Yahoo", true},
		{"workspace tenant", "example.org", []string{"aspmx.l.google.com", "alt1.aspmx.l.google.com"}, "Google", true},
		{"mx upper case", "example.org", []string{"ASPMX.L.GOOGLE.COM"}, "Google", true},
		{"gateway only", "bank.example", []string{"us-smtp-inbound-1.mimecast.com"}, "Mimecast", true},
		{"proofpoint", "corp.example", []string{"mx0a-001.pphosted.com"}, "Proofpoint", true},
		{"second mx matches", "corp.example", []string{"mx.corp.example", "corp.iphmx.com"}, "Cisco", true},
		{"no match", "example.com", []string{"mx.example.com"}, "", false},
		{"no hosts", "example.com", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Match(tt.domain, tt.mxHosts)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderTable_FirstMatchWins(t *testing.T) {
	table := check.ProviderTable{
		{Name: "first", MXSubstrings: []string{"shared.example"}},
		{Name: "second", Domains: []string{"corp.example"}, MXSubstrings: []string{"shared.example"}},
	}

	got, ok := table.Match("corp.example", []string{"mx.shared.example"})
	assert.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestProviderTable_Empty(t *testing.T) {
	var table check.ProviderTable
	_, ok := table.Match("outlook.com", []string{"outlook-com.olc.protection.outlook.com"})
	assert.False(t, ok)
}
