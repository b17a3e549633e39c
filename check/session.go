package check

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/optimode/mxprobe/internal/smtpwire"
	"github.com/optimode/mxprobe/types"
)

// DialFunc opens the TCP connection to an exchanger. net.DialTimeout satisfies it.
type DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// SessionConfig is the SMTP session configuration.
type SessionConfig struct {
	HeloDomain     string
	MailFrom       string
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
	Port           string
	// StartTLS enables opportunistic STARTTLS. The exchanger certificate
	// is not verified.
	StartTLS bool
}

// Session performs one HELO / MAIL FROM / RCPT TO conversation per Probe
// call against a single exchanger. It never retries and never reuses
// connections: every Probe dials, and every Probe closes what it dialed.
type Session struct {
	cfg  SessionConfig
	dial DialFunc
}

// NewSession creates a session. A nil dial means net.DialTimeout.
func NewSession(cfg SessionConfig, dial DialFunc) *Session {
	if dial == nil {
		dial = net.DialTimeout
	}
	if cfg.Port == "" {
		cfg.Port = "25"
	}
	return &Session{cfg: cfg, dial: dial}
}

// Short returns a copy of the session whose connect and command timeouts
// are capped to ceiling. Used for the catch-all probe.
func (s *Session) Short(ceiling time.Duration) *Session {
	cfg := s.cfg
	cfg.ConnectTimeout = capTimeout(cfg.ConnectTimeout, ceiling)
	cfg.CommandTimeout = capTimeout(cfg.CommandTimeout, ceiling)
	return &Session{cfg: cfg, dial: s.dial}
}

// Config returns the effective configuration.
func (s *Session) Config() SessionConfig {
	return s.cfg
}

// Probe runs the conversation against host for recipient rcpt.
// Only the RCPT reply is turned into an outcome. Any failure before it
// (connect, greeting, HELO, MAIL FROM, transport) is returned as an error.
func (s *Session) Probe(ctx context.Context, host, rcpt string) (types.SMTPOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.SMTPOutcome{}, err
	}

	address := net.JoinHostPort(host, s.cfg.Port)
	netConn, err := s.dial("tcp", address, s.cfg.ConnectTimeout)
	if err != nil {
		return types.SMTPOutcome{}, fmt.Errorf("connect to %s: %w", address, err)
	}

	c := smtpwire.NewConn(netConn, s.cfg.CommandTimeout)
	defer func() { _ = c.Close() }()

	outcome, err := s.converse(c, host, rcpt)
	if err != nil {
		return types.SMTPOutcome{}, err
	}
	c.Quit()
	return outcome, nil
}

func (s *Session) converse(c *smtpwire.Conn, host, rcpt string) (types.SMTPOutcome, error) {
	greeting, err := c.ReadReply()
	if errors.Is(err, smtpwire.ErrMalformedReply) {
		return types.SMTPOutcome{}, fmt.Errorf("smtp greeting unreadable: %w", err)
	}
	if err != nil {
		// A dropped connection here is a transport fault like any other,
		// not a greeting rejection.
		return types.SMTPOutcome{}, err
	}
	if greeting.Class() != 2 {
		return types.SMTPOutcome{}, fmt.Errorf("smtp greeting rejected: %d %s", greeting.Code, greeting.Text())
	}

	if err := s.hello(c, host); err != nil {
		return types.SMTPOutcome{}, err
	}

	reply, err := c.Cmd("MAIL FROM:<%s>", s.cfg.MailFrom)
	if err != nil {
		return types.SMTPOutcome{}, fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if !accepted(reply) {
		return types.SMTPOutcome{}, fmt.Errorf("MAIL FROM rejected: %d %s", reply.Code, reply.Text())
	}

	reply, err = c.Cmd("RCPT TO:<%s>", rcpt)
	if errors.Is(err, smtpwire.ErrMalformedReply) {
		return types.SMTPOutcome{
			Status:    types.SMTPTempFail,
			Text:      reply.Text(),
			Malformed: true,
		}, nil
	}
	if err != nil {
		return types.SMTPOutcome{}, fmt.Errorf("RCPT TO failed: %w", err)
	}

	return types.SMTPOutcome{
		Status: InterpretRCPT(reply.Code),
		Code:   reply.Code,
		Text:   reply.Text(),
	}, nil
}

// hello identifies the probe. Plain HELO unless StartTLS is enabled,
// in which case EHLO is needed to learn whether STARTTLS is offered.
func (s *Session) hello(c *smtpwire.Conn, host string) error {
	if !s.cfg.StartTLS {
		reply, err := c.Cmd("HELO %s", s.cfg.HeloDomain)
		if err != nil {
			return fmt.Errorf("HELO failed: %w", err)
		}
		if !accepted(reply) {
			return fmt.Errorf("HELO rejected: %d %s", reply.Code, reply.Text())
		}
		return nil
	}

	reply, err := c.Cmd("EHLO %s", s.cfg.HeloDomain)
	if err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if !accepted(reply) {
		return fmt.Errorf("EHLO rejected: %d %s", reply.Code, reply.Text())
	}
	if !advertises(reply, "STARTTLS") {
		return nil
	}

	err = c.StartTLS(&tls.Config{
		ServerName:         host,
		InsecureSkipVerify: true, //nolint:gosec // exchangers are routinely self-signed
	})
	if err != nil {
		return err
	}

	reply, err = c.Cmd("EHLO %s", s.cfg.HeloDomain)
	if err != nil {
		return fmt.Errorf("EHLO after STARTTLS failed: %w", err)
	}
	if !accepted(reply) {
		return fmt.Errorf("EHLO after STARTTLS rejected: %d %s", reply.Code, reply.Text())
	}
	return nil
}

// InterpretRCPT maps a RCPT TO reply code to a mailbox status:
// 2xx exists, 5xx does not exist, anything else is a temporary failure.
func InterpretRCPT(code int) types.SMTPStatus {
	switch {
	case code >= 200 && code < 300:
		return types.SMTPExists
	case code >= 500:
		return types.SMTPDoesNotExist
	default:
		return types.SMTPTempFail
	}
}

// accepted reports whether a HELO/EHLO/MAIL FROM reply lets the session go on.
func accepted(r smtpwire.Reply) bool {
	return r.Class() == 2 || r.Class() == 3
}

func advertises(r smtpwire.Reply, keyword string) bool {
	for _, line := range r.Lines {
		if len(line) < 4 {
			continue
		}
		fields := strings.Fields(line[4:])
		if len(fields) > 0 && strings.EqualFold(fields[0], keyword) {
			return true
		}
	}
	return false
}

func capTimeout(d, ceiling time.Duration) time.Duration {
	if ceiling <= 0 {
		return d
	}
	if d <= 0 || d > ceiling {
		return ceiling
	}
	return d
}
