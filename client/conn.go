// Package client speaks the maze game's line protocol over TCP.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	logger "github.com/beka-birhanu/vinom-bot/infrastruture/log"
	"github.com/beka-birhanu/vinom-bot/service/i"
)

const (
	defaultRetryInterval = 200 * time.Millisecond
	defaultWriteTimeout  = 5 * time.Second
)

var (
	ErrConnectionClosed = errors.New("connection closed")
)

// DialFunc opens a raw connection. It matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type Option func(*Conn)

// WithLogger sets the logger used for protocol traces and retries.
func WithLogger(l i.Logger) Option {
	return func(c *Conn) {
		c.logger = l
	}
}

// WithRetryInterval sets the pause between connection attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Conn) {
		c.retryInterval = d
	}
}

// WithDialer replaces the TCP dialer, e.g. with net.Pipe in tests.
func WithDialer(d DialFunc) Option {
	return func(c *Conn) {
		c.dial = d
	}
}

// WithWriteTimeout bounds every command write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Conn) {
		c.writeTimeout = d
	}
}

// Conn is a connection to the game server. Reads must come from a single goroutine;
// sends may be issued concurrently.
type Conn struct {
	raw           net.Conn
	reader        *bufio.Reader
	logger        i.Logger
	dial          DialFunc
	retryInterval time.Duration
	writeTimeout  time.Duration
	writeLock     sync.Mutex
}

// Dial connects to addr, retrying until it succeeds or ctx is done.
func Dial(ctx context.Context, addr string, options ...Option) (*Conn, error) {
	c := &Conn{}
	for _, opt := range options {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Discard()
	}
	if c.dial == nil {
		c.dial = (&net.Dialer{}).DialContext
	}
	if c.retryInterval <= 0 {
		c.retryInterval = defaultRetryInterval
	}
	if c.writeTimeout <= 0 {
		c.writeTimeout = defaultWriteTimeout
	}

	for {
		raw, err := c.dial(ctx, "tcp", addr)
		if err == nil {
			c.raw = raw
			c.reader = bufio.NewReader(raw)
			c.logger.Info(fmt.Sprintf("connected to %s", addr))
			return c, nil
		}
		c.logger.Error(fmt.Sprintf("could not connect to %s: %v", addr, err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryInterval):
		}
	}
}

// ReadAnswer blocks for the next line. Empty and unknown lines yield a nil answer so the
// caller can treat them as a tick without news.
func (c *Conn) ReadAnswer() (Answer, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if isClosed(err) {
			return nil, ErrConnectionClosed
		}
		return nil, err
	}
	c.logger.Debug(fmt.Sprintf("received answer: %s", trimNewline(line)))

	answer, err := ParseAnswer(line)
	if err != nil {
		c.logger.Warning(fmt.Sprintf("unknown message from server: %v", err))
		return nil, nil
	}
	return answer, nil
}

// Send writes one command and flushes it.
func (c *Conn) Send(cmd Command) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	data := cmd.Encode()
	c.logger.Debug(fmt.Sprintf("sending command: %s", data))
	if err := c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		if isClosed(err) {
			return ErrConnectionClosed
		}
		return err
	}
	if _, err := io.WriteString(c.raw, data+"\n"); err != nil {
		if isClosed(err) {
			return ErrConnectionClosed
		}
		return err
	}
	return nil
}

// Close closes the underlying connection. Pending reads return ErrConnectionClosed.
func (c *Conn) Close() error {
	return c.raw.Close()
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
