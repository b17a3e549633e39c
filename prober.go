package mxprobe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/optimode/mxprobe/check"
	"github.com/optimode/mxprobe/internal/dnscache"
	"github.com/optimode/mxprobe/internal/hostguard"
	"github.com/optimode/mxprobe/internal/parse"
	"github.com/optimode/mxprobe/types"
)

// Observer receives probe activity, e.g. for metrics.
type Observer interface {
	// ObserveAttempt is called once per SMTP session. outcome is the SMTP
	// status, or "fault" with the error kind.
	ObserveAttempt(outcome, kind string)
	// ObserveVerdict is called once per Verify call.
	ObserveVerdict(status string, elapsed time.Duration)
}

// typoDistance is the largest edit distance for which an unresolvable
// domain gets a provider domain suggestion.
const typoDistance = 2

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, string)        {}
func (nopObserver) ObserveVerdict(string, time.Duration) {}

// Prober is the probe orchestrator. Instantiate with New. A Prober is safe
// for concurrent use: requests share nothing mutable except, when enabled,
// the MX cache and the exchanger breakers.
type Prober struct {
	opts      Options
	resolver  check.Resolver
	dial      check.DialFunc
	providers check.ProviderTable
	logger    *slog.Logger
	observer  Observer
	suffix    func() string

	mx      *check.MXResolver
	session *check.Session
	guard   *hostguard.Guard
}

// New creates a Prober. MailFrom and HeloDomain are required; zero
// durations and limits take their defaults.
func New(opts Options) (*Prober, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	p := &Prober{
		opts:      opts.withDefaults(),
		providers: check.DefaultProviders(),
		logger:    slog.New(slog.DiscardHandler),
		observer:  nopObserver{},
		suffix:    randomSuffix,
	}
	p.build()
	return p, nil
}

// WithResolver replaces the system MX resolver (for tests or custom DNS).
func (p *Prober) WithResolver(r check.Resolver) *Prober {
	p.resolver = r
	p.build()
	return p
}

// WithDialer replaces net.DialTimeout for exchanger connections.
func (p *Prober) WithDialer(d check.DialFunc) *Prober {
	p.dial = d
	p.build()
	return p
}

// WithProviders replaces the built-in provider table.
func (p *Prober) WithProviders(t check.ProviderTable) *Prober {
	p.providers = t
	return p
}

// WithLogger sets the logger. Attempts are logged at debug, verdicts at info.
func (p *Prober) WithLogger(l *slog.Logger) *Prober {
	if l != nil {
		p.logger = l.With("component", "prober")
		p.build()
	}
	return p
}

// WithObserver sets the activity observer.
func (p *Prober) WithObserver(o Observer) *Prober {
	if o != nil {
		p.observer = o
	}
	return p
}

// Options returns the effective options after defaults.
func (p *Prober) Options() Options {
	return p.opts
}

func (p *Prober) build() {
	r := p.resolver
	if p.opts.MXCacheTTL > 0 {
		r = dnscache.New(r, p.opts.MXCacheTTL)
	}
	p.mx = check.NewMXResolver(r, p.opts.DNSTimeout)

	p.session = check.NewSession(check.SessionConfig{
		HeloDomain:     p.opts.HeloDomain,
		MailFrom:       p.opts.MailFrom,
		ConnectTimeout: p.opts.ConnectTimeout,
		CommandTimeout: p.opts.CommandTimeout,
		Port:           p.opts.Port,
		StartTLS:       p.opts.StartTLS,
	}, p.dial)

	if p.opts.BreakerFailures > 0 {
		p.guard = hostguard.New(hostguard.Config{
			Failures: p.opts.BreakerFailures,
			OpenFor:  p.opts.BreakerOpenFor,
		}, p.logger)
	}
}

// Verify runs the whole pipeline for one address and always returns a
// Result; faults end up in Status, Error and ErrorKind.
// ctx bounds the MX lookup and is checked before each exchanger attempt.
func (p *Prober) Verify(ctx context.Context, email string) Result {
	start := time.Now()
	res := p.verify(ctx, email, start)

	p.observer.ObserveVerdict(res.Status, time.Since(start))
	p.logger.Info("Verification finished",
		"email", res.Email,
		"status", res.Status,
		"mx", res.MXUsed,
		"smtp_code", res.SMTPCode,
		"error_kind", res.ErrorKind,
		"elapsed_ms", res.ElapsedMs,
	)
	return res
}

func (p *Prober) verify(ctx context.Context, raw string, start time.Time) Result {
	email, err := check.Syntax(raw)
	if err != nil {
		return newResult(email.Raw, "", start, verdict{status: StatusInvalidSyntax, errText: err.Error()})
	}

	candidates, err := p.mx.ResolveMX(ctx, email.Domain)
	if err != nil {
		return newResult(email.Raw, email.Domain, start, verdict{
			status:   StatusInvalidDomain,
			errClass: check.Classify(err),
			suggest:  p.providers.Suggest(email.DomainUnicode, typoDistance),
		})
	}
	provider, _ := p.providers.Match(email.Domain, check.Hosts(candidates))

	if len(candidates) > p.opts.MaxMXHosts {
		candidates = candidates[:p.opts.MaxMXHosts]
	}

	var lastErr error
	for _, mx := range candidates {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		a := p.attempt(ctx, mx.Host, email.Address())
		if a.decisive() {
			return p.decide(ctx, email, a, start)
		}
		lastErr = a.err
	}
	return p.exhausted(email, provider, lastErr, start)
}

// attempt is one session against one exchanger. An attempt is decisive
// when the exchanger answered RCPT at all; only faults move the loop on
// to the next exchanger.
type attempt struct {
	host    string
	outcome types.SMTPOutcome
	err     error
}

func (a attempt) decisive() bool {
	return a.err == nil
}

func (p *Prober) attempt(ctx context.Context, host, rcpt string) attempt {
	var out types.SMTPOutcome
	probe := func() error {
		var err error
		out, err = p.session.Probe(ctx, host, rcpt)
		return err
	}

	var err error
	if p.guard != nil {
		err = p.guard.Do(host, probe)
	} else {
		err = probe()
	}

	if err != nil {
		class := check.Classify(err)
		p.observer.ObserveAttempt("fault", class.Kind)
		p.logger.Debug("SMTP attempt failed", "host", host, "kind", class.Kind, "error", err)
		return attempt{host: host, err: err}
	}

	p.observer.ObserveAttempt(out.Status, "")
	p.logger.Debug("SMTP attempt answered", "host", host, "status", out.Status, "code", out.Code)
	return attempt{host: host, outcome: out}
}

// decide turns a decisive attempt into the verdict.
func (p *Prober) decide(ctx context.Context, email parse.Email, a attempt, start time.Time) Result {
	v := verdict{mx: a.host, outcome: a.outcome}

	switch a.outcome.Status {
	case types.SMTPExists:
		v.status = StatusExists
		if p.opts.CatchAll && p.acceptsAnyone(ctx, email, a.host) {
			v.status = StatusCatchAll
		}
	case types.SMTPDoesNotExist:
		v.status = StatusDoesNotExist
	default:
		v.status = StatusTempFail
		if a.outcome.Malformed {
			v.errText = "unparsable RCPT reply"
		}
	}
	return newResult(email.Raw, email.Domain, start, v)
}

// acceptsAnyone probes the same exchanger with a random local part on a
// fresh, short-timeout session. Any fault counts as "no".
func (p *Prober) acceptsAnyone(ctx context.Context, email parse.Email, host string) bool {
	probe := email.WithLocal(email.Local + p.suffix())

	out, err := p.session.Short(p.opts.ShortTimeout).Probe(ctx, host, probe.Address())
	if err != nil {
		class := check.Classify(err)
		p.observer.ObserveAttempt("fault", class.Kind)
		p.logger.Debug("Catch-all probe inconclusive", "host", host, "kind", class.Kind, "error", err)
		return false
	}

	p.observer.ObserveAttempt(out.Status, "")
	return out.Status == types.SMTPExists
}

// exhausted builds the verdict once every exchanger attempt faulted.
func (p *Prober) exhausted(email parse.Email, provider string, lastErr error, start time.Time) Result {
	class := check.Classify(lastErr)

	if provider != "" && check.IsSoft(class.Kind) {
		return newResult(email.Raw, email.Domain, start, verdict{
			status:   StatusProviderBlocks,
			errClass: class,
			errText:  fmt.Sprintf("%s blocks verification probes: %s", provider, class.Message),
		})
	}
	return newResult(email.Raw, email.Domain, start, verdict{
		status:   StatusTempFail,
		errClass: class,
	})
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
