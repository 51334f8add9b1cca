package kgo

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/platformatic/kgo/pkg/kbin"
	"github.com/platformatic/kgo/pkg/kmsg"
)

// instanceSeq is a process-wide counter handed out to every Conn for
// diagnostics (log lines, metrics labels). It is the engine's only piece of
// process-global mutable state.
var instanceSeq atomic.Int64

// Conn is a single pipelined request/response connection to one Kafka
// broker address. All mutable engine state (the in-flight map, the
// admission queue, the response accumulator) is owned exclusively by the
// goroutine running (c *Conn).run; every other method communicates with it
// by posting closures onto c.cmds. This is the idiomatic Go rendering of a
// single-threaded, cooperatively-scheduled connection actor: one goroutine
// instead of a run-to-completion event loop, a channel of closures instead
// of a task queue.
type Conn struct {
	id   int64
	host string
	port int
	opts options

	status atomic.Int32

	cmds chan func()
	done chan struct{}

	netConn net.Conn
	sink    writeSink

	// run-loop-owned state; touched only from inside a cmds closure.
	nextCorrID     int32
	inflight       map[int32]*request
	admissionQueue []*request
	drainDeferred  []*request
	drainBlocked   bool
	acc            *kbin.Buffer
	expectedFrame  int
	reauthTimer    *time.Timer
	stopped        bool
}

// request tracks one submitted call from admission through completion.
type request struct {
	corrID       int32
	apiKey       int16
	respFlexible bool
	noResponse   bool
	frame        []byte
	resp         kmsg.Response
	callback     func(kmsg.Response, error)
	timeoutDur   time.Duration
	timer        *time.Timer
	submitted    time.Time
}

// NewConn constructs a Conn for host:port. The connection is not dialed
// until Connect is called.
func NewConn(host string, port int, opts ...Opt) *Conn {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	c := &Conn{
		id:            instanceSeq.Add(1),
		host:          host,
		port:          port,
		opts:          o,
		cmds:          make(chan func(), 64),
		done:          make(chan struct{}),
		inflight:      make(map[int32]*request),
		acc:           kbin.NewBuffer(nil),
		expectedFrame: -1,
	}
	c.status.Store(int32(StatusNone))
	return c
}

// ID returns the process-wide, monotonically increasing identifier assigned
// to this Conn at construction, for diagnostics.
func (c *Conn) ID() int64 { return c.id }

// Status returns the connection's current lifecycle state.
func (c *Conn) Status() Status { return Status(c.status.Load()) }

// Host returns the broker host this Conn talks to, or "" if the connection
// is not currently live (see hostVisible).
func (c *Conn) Host() string {
	if !hostVisible(c.Status()) {
		return ""
	}
	return c.host
}

// Port returns the broker port this Conn talks to, or 0 if the connection
// is not currently live (see hostVisible).
func (c *Conn) Port() int {
	if !hostVisible(c.Status()) {
		return 0
	}
	return c.port
}

// Connect dials the broker, performs the SASL handshake if one was
// configured via SASL, and starts the connection engine. ctx bounds the
// entire connect sequence, including authentication.
func (c *Conn) Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.opts.connectTimeout)
	defer cancel()

	c.status.Store(int32(StatusConnecting))

	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	c.opts.logger.Log(LogLevelDebug, "connecting to broker", "addr", addr)
	start := time.Now()
	var (
		netConn net.Conn
		err     error
	)
	if c.opts.tlsConfig != nil {
		d := &tls.Dialer{NetDialer: &net.Dialer{}, Config: c.opts.tlsConfig}
		netConn, err = d.DialContext(dialCtx, "tcp", addr)
	} else {
		var dialer net.Dialer
		netConn, err = dialer.DialContext(dialCtx, "tcp", addr)
	}
	dialDur := time.Since(start)
	c.opts.hooks.each(func(h Hook) {
		if ch, ok := h.(BrokerConnectHook); ok {
			ch.OnConnect(c.host, c.port, dialDur, err)
		}
	})
	if err != nil {
		c.status.Store(int32(StatusError))
		c.opts.logger.Log(LogLevelError, "unable to connect to broker", "addr", addr, "err", err)
		if dialCtx.Err() != nil {
			return &TimeoutError{Op: "connect"}
		}
		return &NetworkError{Host: c.host, Port: c.port, Cause: err}
	}
	c.opts.logger.Log(LogLevelDebug, "connected to broker", "addr", addr, "dial_dur", dialDur)

	c.start(netConn)

	if c.opts.mechanism != nil {
		c.status.Store(int32(StatusAuthenticating))
		if err := c.authenticate(ctx); err != nil {
			c.Close()
			return err
		}
	} else {
		c.status.Store(int32(StatusConnected))
	}
	return nil
}

// start wires netConn into the engine and launches its goroutines. Called
// exactly once, from Connect, after a successful dial.
func (c *Conn) start(netConn net.Conn) {
	c.netConn = netConn
	if c.opts.backpressure {
		c.sink = newConnSink(netConn)
	}
	go c.readLoop()
	go c.run()
}

// Close tears the connection down: every outstanding, queued, or
// drain-deferred request is failed with a NetworkError wrapping
// ErrConnClosed, the socket is closed, and the run loop exits. Close is
// idempotent and safe to call more than once.
func (c *Conn) Close() error {
	select {
	case c.cmds <- func() { c.handleClose() }:
	case <-c.done:
		return nil
	}
	<-c.done
	return nil
}

// Send submits req and invokes cb exactly once, either with the decoded
// response or with an error. cb runs on the connection's run-loop goroutine
// and must not block or call back into this Conn synchronously; dispatch
// slow work (including a further Send/Do call) onto another goroutine. If
// the connection is already closed or ctx is done before req is submitted,
// cb runs on the caller's goroutine instead.
func (c *Conn) Send(ctx context.Context, req kmsg.Request, cb func(kmsg.Response, error)) {
	select {
	case c.cmds <- func() { c.handleSend(req, cb) }:
	case <-c.done:
		cb(nil, &NetworkError{Host: c.host, Port: c.port, Cause: ErrConnClosed})
	case <-ctx.Done():
		cb(nil, ctx.Err())
	}
}

// Do submits req and blocks until a response, an error, or ctx's
// cancellation, whichever comes first. It is a thin wrapper over Send: the
// engine has exactly one submission path, callback or awaitable is purely a
// matter of which of these two methods a caller reaches for.
func (c *Conn) Do(ctx context.Context, req kmsg.Request) (kmsg.Response, error) {
	type result struct {
		resp kmsg.Response
		err  error
	}
	done := make(chan result, 1)
	c.Send(ctx, req, func(resp kmsg.Response, err error) {
		done <- result{resp, err}
	})
	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
