package parse

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// addressPattern is the pragmatic syntactic gate: one "@", no whitespace,
// and a dot inside the domain with text on both sides of it.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email is the internal representation of a probe request address.
// The check/ package and the prober receive this as parameter.
type Email struct {
	Raw           string // the original, trimmed input
	Local         string // the part before @, case preserved
	Domain        string // the part after @, lower-case ASCII/Punycode form (for DNS/SMTP)
	DomainUnicode string // the part after @, Unicode form (for display)
	Valid         bool   // false if Raw does not pass the syntactic gate
}

// Address returns local@domain using the ASCII domain form.
// This is the form sent in RCPT TO.
func (e Email) Address() string {
	return e.Local + "@" + e.Domain
}

// WithLocal returns a copy of e addressed to a different local part
// on the same domain.
func (e Email) WithLocal(local string) Email {
	e.Local = local
	e.Raw = local + "@" + e.DomainUnicode
	return e
}

// NewEmail decomposes the given address into local part and domain.
// If the address fails the gate, Valid=false but Raw is always populated.
// Internationalized domain names (IDNA2008) are converted to Punycode.
func NewEmail(raw string) Email {
	raw = strings.TrimSpace(raw)

	if !addressPattern.MatchString(raw) {
		return Email{Raw: raw, Valid: false}
	}

	atIdx := strings.IndexByte(raw, '@')
	return buildEmail(raw, raw[:atIdx], raw[atIdx+1:])
}

// buildEmail constructs an Email with proper IDNA domain handling.
// The Domain field is always ASCII/Punycode (for DNS/SMTP),
// DomainUnicode is the human-readable Unicode form.
func buildEmail(raw, local, domain string) Email {
	domainLower := strings.ToLower(strings.TrimSuffix(domain, "."))

	asciiDomain, unicodeDomain, ok := convertDomain(domainLower)
	if !ok {
		return Email{Raw: raw, Valid: false}
	}

	return Email{
		Raw:           raw,
		Local:         local,
		Domain:        asciiDomain,
		DomainUnicode: unicodeDomain,
		Valid:         true,
	}
}

// convertDomain converts a domain to both ASCII/Punycode and Unicode forms.
// Returns (ascii, unicode, ok). ok is false if the domain contains
// non-ASCII characters that fail IDNA2008 validation.
func convertDomain(domain string) (ascii, unicode string, ok bool) {
	hasNonASCII := false
	for _, r := range domain {
		if r > 127 {
			hasNonASCII = true
			break
		}
	}

	if hasNonASCII {
		a, err := idna.Lookup.ToASCII(domain)
		if err != nil {
			return "", "", false
		}
		return a, domain, true
	}

	// Pure ASCII domain: try to get Unicode display form
	// (handles existing Punycode like xn--mnchen-3ya.de → münchen.de)
	u, err := idna.Display.ToUnicode(domain)
	if err != nil {
		u = domain
	}
	return domain, u, true
}
