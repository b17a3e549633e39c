// Package smtpwire provides the line-based SMTP command/response channel
// used by probe sessions. It does not interpret replies beyond parsing
// the numeric code.
package smtpwire

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedReply is returned when a reply line does not start with
// a three digit code. The raw text is still returned alongside it.
var ErrMalformedReply = errors.New("smtpwire: malformed reply")

// Reply is one (possibly multi-line) SMTP response.
type Reply struct {
	Code  int
	Lines []string
}

// Text joins all reply lines the way they are reported to callers.
func (r Reply) Text() string {
	return strings.Join(r.Lines, " | ")
}

// Class returns the first digit of the code (2 for 250, 5 for 550).
func (r Reply) Class() int {
	return r.Code / 100
}

// Conn is a single SMTP connection. It is not safe for concurrent use.
type Conn struct {
	netConn net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer
	timeout time.Duration
}

// NewConn wraps an established connection. Every command exchange is
// bounded by timeout, applied as a fresh deadline per exchange.
func NewConn(c net.Conn, timeout time.Duration) *Conn {
	return &Conn{
		netConn: c,
		reader:  bufio.NewReader(c),
		writer:  bufio.NewWriter(c),
		timeout: timeout,
	}
}

// ReadReply reads the next reply, typically the greeting.
func (c *Conn) ReadReply() (Reply, error) {
	if err := c.extendDeadline(); err != nil {
		return Reply{}, err
	}
	return readReply(c.reader)
}

// Cmd sends one command line and reads its reply.
func (c *Conn) Cmd(format string, args ...any) (Reply, error) {
	if err := c.extendDeadline(); err != nil {
		return Reply{}, err
	}
	if _, err := c.writer.WriteString(fmt.Sprintf(format, args...) + "\r\n"); err != nil {
		return Reply{}, err
	}
	if err := c.writer.Flush(); err != nil {
		return Reply{}, err
	}
	return readReply(c.reader)
}

// StartTLS upgrades the connection in place after a successful STARTTLS
// command. The caller must issue a new EHLO afterwards.
func (c *Conn) StartTLS(cfg *tls.Config) error {
	reply, err := c.Cmd("STARTTLS")
	if err != nil {
		return fmt.Errorf("STARTTLS failed: %w", err)
	}
	if reply.Class() != 2 {
		return fmt.Errorf("STARTTLS rejected: %d %s", reply.Code, reply.Text())
	}

	tlsConn := tls.Client(c.netConn, cfg)
	if err := c.extendDeadline(); err != nil {
		return err
	}
	if err := tlsConn.Handshake(); err != nil {
		return fmt.Errorf("tls handshake: %w", err)
	}

	c.netConn = tlsConn
	c.reader = bufio.NewReader(tlsConn)
	c.writer = bufio.NewWriter(tlsConn)
	return nil
}

// Quit sends QUIT without waiting for the reply (best-effort, ignores errors).
func (c *Conn) Quit() {
	_ = c.netConn.SetDeadline(time.Now().Add(2 * time.Second))
	_, _ = c.writer.WriteString("QUIT\r\n")
	_ = c.writer.Flush()
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.netConn.Close()
}

func (c *Conn) extendDeadline() error {
	if c.timeout <= 0 {
		return nil
	}
	if err := c.netConn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	return nil
}

// readReply reads a (possibly multi-line) SMTP response.
// A reply whose code cannot be parsed is returned with Code 0 and
// ErrMalformedReply, so callers can still report its text.
func readReply(r *bufio.Reader) (Reply, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return Reply{}, fmt.Errorf("read SMTP response: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		lines = append(lines, line)
		// If the 4th character is not '-', this is the last line
		if len(line) < 4 || line[3] != '-' {
			break
		}
	}

	last := lines[len(lines)-1]
	if len(last) < 3 {
		return Reply{Lines: lines}, fmt.Errorf("%w: %q", ErrMalformedReply, last)
	}
	code, err := strconv.Atoi(last[:3])
	if err != nil || code < 100 || code > 599 {
		return Reply{Lines: lines}, fmt.Errorf("%w: %q", ErrMalformedReply, last)
	}
	return Reply{Code: code, Lines: lines}, nil
}
