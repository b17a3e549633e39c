package check

import (
	"context"
	"errors"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/optimode/mxprobe/types"
)

// ErrNoMXRecords is returned when a domain resolves but publishes no usable MX.
var ErrNoMXRecords = errors.New("no MX records found")

// Resolver is the MX lookup dependency. *net.Resolver satisfies it,
// and so does the internal dnscache.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// MXResolver resolves a domain into ordered MX candidates.
type MXResolver struct {
	resolver Resolver
	timeout  time.Duration
}

// NewMXResolver creates a resolver bounded by timeout per lookup.
// A nil resolver means the system resolver.
func NewMXResolver(r Resolver, timeout time.Duration) *MXResolver {
	if r == nil {
		r = &net.Resolver{}
	}
	return &MXResolver{resolver: r, timeout: timeout}
}

// ResolveMX returns the domain's exchangers ordered ascending by priority.
// Host names are lower-cased and stripped of the trailing dot. Records
// with an empty host or the null MX "." are skipped.
func (m *MXResolver) ResolveMX(ctx context.Context, domain string) ([]types.MXCandidate, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	records, err := m.resolver.LookupMX(ctx, domain)
	if err != nil {
		return nil, err
	}

	candidates := make([]types.MXCandidate, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		host := strings.ToLower(strings.TrimSuffix(r.Host, "."))
		if host == "" {
			continue
		}
		candidates = append(candidates, types.MXCandidate{Host: host, Priority: r.Pref})
	}
	if len(candidates) == 0 {
		return nil, ErrNoMXRecords
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})
	return candidates, nil
}

// Hosts returns just the host names of candidates, in order.
func Hosts(candidates []types.MXCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Host
	}
	return out
}
