// Package livesplit drives a LiveSplit Server over its line based TCP protocol.
//
// The connection is made lazily and re-made after any I/O error, so the splitter
// keeps running while LiveSplit is closed or restarted.
package livesplit

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"cosmicsplit/timer"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultAddr          = "localhost:16834"
	DefaultDialTimeout   = time.Second
	DefaultIOTimeout     = time.Second
	DefaultRetryInterval = time.Second
	MaxRetryInterval     = 10 * time.Second
)

type Client struct {
	mu sync.Mutex

	addr        string
	dialTimeout time.Duration
	ioTimeout   time.Duration
	retry       *backoff.ExponentialBackOff
	now         func() time.Time

	log    *logger.Logger
	conn   net.Conn
	reader *bufio.Reader

	// game time pause state last sent on this connection, nil until one is sent
	paused  *bool
	retryAt time.Time
	down    bool
}

var _ timer.Timer = (*Client)(nil)

type Option func(*Client)

func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialTimeout = d }
}

func WithIOTimeout(d time.Duration) Option {
	return func(c *Client) { c.ioTimeout = d }
}

// WithRetryInterval sets the first redial delay; it grows while LiveSplit stays unreachable
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retry.InitialInterval = d }
}

func New(addr string, opts ...Option) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = DefaultRetryInterval
	retry.MaxInterval = MaxRetryInterval

	c := &Client{
		addr:        addr,
		dialTimeout: DefaultDialTimeout,
		ioTimeout:   DefaultIOTimeout,
		retry:       retry,
		now:         time.Now,
		log:         logger.NewLogger(coloransi.Color(coloransi.Cyan, coloransi.BrightBlack, "livesplit")),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retry.Reset()
	return c
}

// Start starts the run. LiveSplit drops the game time initialization and the
// pause flag on start, so initgametime is sent again and the next pause is not skipped.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send("starttimer"); err != nil {
		return
	}
	c.paused = nil
	_ = c.write("initgametime")
}

// Reset also clears the game time pause on the LiveSplit side
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send("reset"); err != nil {
		return
	}
	c.paused = nil
}

func (c *Client) Split() { c.command("split") }

func (c *Client) PauseGameTime()  { c.setPaused(true) }
func (c *Client) ResumeGameTime() { c.setPaused(false) }

// State asks LiveSplit for the current timer phase. NotRunning is reported when
// LiveSplit cannot be reached.
func (c *Client) State() timer.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply, err := c.query("getcurrenttimerphase")
	if err != nil {
		return timer.NotRunning
	}
	state, ok := timer.ParseState(reply)
	if !ok {
		c.log.Debugln("unknown timer phase:", reply)
		return timer.NotRunning
	}
	return state
}

// Close drops the connection; the next command dials again
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drop()
}

func (c *Client) command(cmd string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.send(cmd)
}

// setPaused sends pausegametime or unpausegametime, once per change
func (c *Client) setPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(); err != nil {
		return
	}
	if c.paused != nil && *c.paused == paused {
		return
	}

	cmd := "unpausegametime"
	if paused {
		cmd = "pausegametime"
	}
	if err := c.send(cmd); err != nil {
		return
	}
	c.paused = &paused
}

func (c *Client) connect() error {
	if c.conn != nil {
		return nil
	}
	if c.now().Before(c.retryAt) {
		return fmt.Errorf("livesplit %s: waiting to redial", c.addr)
	}

	dialer := &net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.Dial("tcp", c.addr)
	if err != nil {
		c.retryAt = c.now().Add(c.retry.NextBackOff())
		if !c.down {
			c.down = true
			c.log.Warn("LiveSplit Server not reachable at ", c.addr, ": ", err)
		}
		return err
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.paused = nil
	c.down = false
	c.retry.Reset()
	c.log.Infoln("Connected to LiveSplit Server at", c.addr)

	// game time only runs once it has been initialized for this connection
	if err := c.write("initgametime"); err != nil {
		return err
	}
	return nil
}

func (c *Client) send(cmd string) error {
	if err := c.connect(); err != nil {
		return err
	}
	return c.write(cmd)
}

func (c *Client) write(cmd string) error {
	_ = c.conn.SetWriteDeadline(c.now().Add(c.ioTimeout))
	if _, err := c.conn.Write([]byte(cmd + "\r\n")); err != nil {
		c.log.Warn("LiveSplit Server write failed: ", err)
		_ = c.drop()
		return err
	}
	return nil
}

func (c *Client) query(cmd string) (string, error) {
	if err := c.send(cmd); err != nil {
		return "", err
	}

	_ = c.conn.SetReadDeadline(c.now().Add(c.ioTimeout))
	line, err := c.reader.ReadString('\n')
	if err != nil {
		c.log.Warn("LiveSplit Server read failed: ", err)
		_ = c.drop()
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Client) drop() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	c.paused = nil
	return err
}
