// Package dnscache provides a thread-safe, TTL-based cache for DNS MX lookups
// with singleflight deduplication for concurrent requests to the same domain.
package dnscache

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Resolver is the upstream MX lookup. *net.Resolver satisfies it.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Cache is a thread-safe DNS MX lookup cache. It satisfies Resolver itself,
// so it can be stacked in front of any other resolver.
// Concurrent lookups for the same domain are deduplicated:
// only one actual DNS query is performed, and all waiters receive the result.
// Failed lookups are not cached.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	cacheTTL time.Duration
	resolver Resolver
	group    singleflight.Group
	now      func() time.Time
}

type entry struct {
	records []*net.MX
	expires time.Time
}

// New creates a DNS cache in front of r with the given TTL.
// A nil r means the system resolver.
func New(r Resolver, cacheTTL time.Duration) *Cache {
	if r == nil {
		r = &net.Resolver{}
	}
	return &Cache{
		entries:  make(map[string]entry),
		cacheTTL: cacheTTL,
		resolver: r,
		now:      time.Now,
	}
}

// LookupMX returns MX records for the domain, using the cache when possible.
func (c *Cache) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	key := strings.ToLower(domain)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expires) {
			c.mu.Unlock()
			return copyMX(e.records), nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// a flight that finished between our miss and this call already filled the entry
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
			c.mu.Unlock()
			return e.records, nil
		}
		c.mu.Unlock()

		records, err := c.resolver.LookupMX(ctx, domain)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{records: records, expires: c.now().Add(c.cacheTTL)}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return copyMX(v.([]*net.MX)), nil
}

// Len returns the number of entries in the cache (for diagnostics).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// copyMX returns a deep copy of MX records to prevent callers from
// mutating cached data.
func copyMX(records []*net.MX) []*net.MX {
	if records == nil {
		return nil
	}
	out := make([]*net.MX, len(records))
	for i, r := range records {
		cp := *r
		out[i] = &cp
	}
	return out
}
