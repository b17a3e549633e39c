package check

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/optimode/mxprobe/types"
)

// classRule maps message substrings (lower-case) to a kind.
type classRule struct {
	kind    types.ErrorKind
	needles []string
}

// classRules are evaluated in order; the first rule with a matching
// substring wins.
var classRules = []classRule{
	{types.KindTimeout, []string{"timeout", "timed out", "deadline exceeded"}},
	{types.KindRefused, []string{"connection refused", "econnrefused", "actively refused"}},
	{types.KindDNS, []string{"no such host", "enotfound", "server misbehaving", "name resolution", "no mx records", "lookup "}},
	{types.KindTLS, []string{"tls", "handshake", "certificate", "x509"}},
	{types.KindGreeting, []string{"greeting", "banner"}},
	{types.KindTemp, []string{"multiple errors", "aggregate", "circuit breaker is open", "too many requests"}},
	{types.KindNetwork, []string{"connection reset", "broken pipe", "network is unreachable", "no route to host", "eof", "use of closed network connection"}},
}

// Classify maps any fault raised by resolution or by a Session into an
// ErrorClass. It never panics, and every input maps to exactly one kind:
// nil is "unknown" and anything unrecognised is "other".
func Classify(err error) types.ErrorClass {
	if err == nil {
		return types.ErrorClass{Kind: types.KindUnknown}
	}
	return types.ErrorClass{Kind: classifyKind(err), Message: err.Error()}
}

func classifyKind(err error) types.ErrorKind {
	if kind, ok := classifyTyped(err); ok {
		return kind
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range classRules {
		for _, needle := range rule.needles {
			if strings.Contains(msg, needle) {
				return rule.kind
			}
		}
	}
	return types.KindOther
}

// classifyTyped recognises the standard library's error values before
// falling back to message matching.
func classifyTyped(err error) (types.ErrorKind, bool) {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return types.KindTimeout, true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return types.KindRefused, true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || errors.Is(err, ErrNoMXRecords) {
		return types.KindDNS, true
	}

	var (
		recordErr    tls.RecordHeaderError
		certErr      *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
	)
	if errors.As(err, &recordErr) || errors.As(err, &certErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostnameErr) {
		return types.KindTLS, true
	}

	// errors.Join and friends: several faults collapsed into one, which is
	// what an exchanger dropping the connection mid-exchange tends to produce.
	if isMulti(err) {
		return types.KindTemp, true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return types.KindNetwork, true
	}
	return "", false
}

// IsSoft reports whether kind is a transport-level failure rather than a
// protocol-level rejection. Only soft failures can be attributed to a
// provider blocking verification.
func IsSoft(kind types.ErrorKind) bool {
	switch kind {
	case types.KindTimeout, types.KindRefused, types.KindTLS, types.KindNetwork, types.KindTemp:
		return true
	}
	return false
}

func isMulti(err error) bool {
	for err != nil {
		if _, ok := err.(interface{ Unwrap() []error }); ok {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
