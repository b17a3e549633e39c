package check

import "strings"

// Provider is one match rule for a large mailbox provider that is known
// to suppress or falsify RCPT TO signals (tarpitting, accept-then-bounce,
// dropping unknown probers).
type Provider struct {
	Name string
	// Domains are matched exactly against the address domain.
	Domains []string
	// MXSubstrings are matched as substrings of each MX host name.
	MXSubstrings []string
}

// ProviderTable is an ordered list of rules. The first matching rule wins.
type ProviderTable []Provider

// defaultProviders is process-wide and never mutated.
var defaultProviders = ProviderTable{
	{
		Name:         "Microsoft",
		Domains:      []string{"outlook.com", "hotmail.com", "hotmail.co.uk", "live.com", "msn.com", "passport.com"},
		MXSubstrings: []string{"protection.outlook.com", "olc.protection.outlook.com", "hotmail.com"},
	},
	{
		Name:         "Yahoo",
		Domains:      []string{"yahoo.com", "yahoo.co.uk", "yahoo.fr", "yahoo.de", "ymail.com", "rocketmail.com", "aol.com"},
		MXSubstrings: []string{"yahoodns.net", "aol.com"},
	},
	{
		Name:         "Google",
		Domains:      []string{"gmail.com", "googlemail.com"},
		MXSubstrings: []string{"google.com", "googlemail.com"},
	},
	{
		Name:         "Apple",
		Domains:      []string{"icloud.com", "me.com", "mac.com"},
		MXSubstrings: []string{"mail.icloud.com"},
	},
	{
		Name:         "Proton",
		Domains:      []string{"protonmail.com", "proton.me", "pm.me"},
		MXSubstrings: []string{"protonmail.ch"},
	},
	{
		Name:         "Zoho",
		Domains:      []string{"zoho.com", "zohomail.com"},
		MXSubstrings: []string{"zoho.com", "zoho.eu"},
	},
	{
		Name:         "Yandex",
		Domains:      []string{"yandex.com", "yandex.ru", "ya.ru"},
		MXSubstrings: []string{"yandex.net", "yandex.ru"},
	},
	{
		Name:         "GMX",
		Domains:      []string{"gmx.com", "gmx.net", "gmx.de", "web.de", "mail.com"},
		MXSubstrings: []string{"gmx.net", "web.de", "mail.com"},
	},
	{
		Name:         "Mimecast",
		MXSubstrings: []string{"mimecast.com"},
	},
	{
		Name:         "Proofpoint",
		MXSubstrings: []string{"pphosted.com", "ppe-hosted.com"},
	},
	{
		Name:         "Barracuda",
		MXSubstrings: []string{"barracudanetworks.com"},
	},
	{
		Name:         "Cisco",
		MXSubstrings: []string{"iphmx.com"},
	},
}

// DefaultProviders returns the built-in table.
func DefaultProviders() ProviderTable {
	return defaultProviders
}

// Match returns the name of the first provider whose domain list contains
// domain, or one of whose MX substrings occurs in any of mxHosts.
// Comparison is case-insensitive.
func (t ProviderTable) Match(domain string, mxHosts []string) (string, bool) {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	hosts := make([]string, len(mxHosts))
	for i, h := range mxHosts {
		hosts[i] = strings.ToLower(h)
	}

	for _, p := range t {
		if p.matches(domain, hosts) {
			return p.Name, true
		}
	}
	return "", false
}

func (p Provider) matches(domain string, hosts []string) bool {
	for _, d := range p.Domains {
		if domain == d {
			return true
		}
	}
	for _, sub := range p.MXSubstrings {
		for _, h := range hosts {
			if strings.Contains(h, sub) {
				return true
			}
		}
	}
	return false
}
