package kgo

import (
	"io"
	"time"

	"github.com/platformatic/kgo/pkg/kbin"
	"github.com/platformatic/kgo/pkg/kmsg"
)

// lengthPrefixSize is the width of the int32 length prefix every frame
// carries ahead of its header+body.
const lengthPrefixSize = 4

// run is the connection's single event-processing goroutine. It owns every
// field listed under "run-loop-owned state" in Conn and must never be
// touched from outside a closure sent over c.cmds.
func (c *Conn) run() {
	defer close(c.done)
	for cmd := range c.cmds {
		cmd()
		if c.stopped {
			return
		}
	}
}

// readLoop feeds raw bytes from the socket into the run loop as they
// arrive. It exits once the socket errors or c.done closes.
func (c *Conn) readLoop() {
	buf := make([]byte, 32*1024)
	for {
		n, err := c.netConn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case c.cmds <- func() { c.handleFrameBytes(chunk) }:
			case <-c.done:
				return
			}
		}
		if err != nil {
			select {
			case c.cmds <- func() { c.handleReadError(err) }:
			case <-c.done:
			}
			return
		}
	}
}

// handleSend encodes req, assigns it a correlation id, and admits it for
// writing, per the submission algorithm: status must be one of the
// send-allowed states (live, or either flavor of authenticating, since
// SASL itself rides this same path).
func (c *Conn) handleSend(req kmsg.Request, cb func(kmsg.Response, error)) {
	if !sendAllowed(c.Status()) {
		cb(nil, &NetworkError{Host: c.host, Port: c.port, Cause: ErrConnClosed})
		return
	}

	corrID := c.nextCorrID
	c.nextCorrID++

	hw := kbin.NewWriter()
	kmsg.RequestHeader{
		APIKey:        req.Key(),
		APIVersion:    req.GetVersion(),
		CorrelationID: corrID,
		ClientID:      c.opts.clientID,
	}.AppendTo(hw, req.IsFlexible())

	bw := kbin.NewWriter()
	body := req.AppendTo(nil, bw)

	fw := kbin.NewWriter()
	fw.AppendRaw(hw.Bytes())
	fw.AppendRaw(body)
	fw.PrependLength()

	resp := req.ResponseKind()
	// ApiVersions (key 18) is the one (key, version) pair in this catalog
	// whose response body is flexible but whose response HEADER is not:
	// the flexible-header upgrade effectively starts one request earlier
	// than the response schema that negotiates it.
	respFlexible := resp.IsFlexible() && req.Key() != 18

	r := &request{
		corrID:       corrID,
		apiKey:       req.Key(),
		respFlexible: respFlexible,
		noResponse:   bw.NoResponse,
		frame:        fw.Bytes(),
		resp:         resp,
		callback:     cb,
		timeoutDur:   c.opts.requestTimeout,
		submitted:    time.Now(),
	}
	c.admit(r)
}

// admit either writes r immediately or, if the in-flight cap is already
// full, parks it on the admission queue for later.
func (c *Conn) admit(r *request) {
	if len(c.inflight) >= c.opts.maxInFlight {
		c.admissionQueue = append(c.admissionQueue, r)
		return
	}
	c.writeAndTrack(r)
}

// writeAndTrack writes r's frame and, unless it expects no response, tracks
// it in the in-flight map with a running timeout timer.
func (c *Conn) writeAndTrack(r *request) {
	if !r.noResponse {
		c.inflight[r.corrID] = r
		corrID := r.corrID
		r.timer = time.AfterFunc(r.timeoutDur, func() {
			select {
			case c.cmds <- func() { c.handleTimeout(corrID) }:
			case <-c.done:
			}
		})
	}
	c.writeFrame(r)
	if r.noResponse {
		r.callback(nil, nil)
	}
}

// writeFrame hands r's bytes to the transport, observing backpressure when
// enabled; see writeSink.
func (c *Conn) writeFrame(r *request) {
	start := time.Now()
	var writeErr error
	if c.opts.backpressure {
		if c.drainBlocked {
			c.drainDeferred = append(c.drainDeferred, r)
			return
		}
		if !c.sink.write(r.frame) {
			c.drainBlocked = true
			c.drainDeferred = append(c.drainDeferred, r)
			c.armDrainWait()
			return
		}
	} else {
		_, writeErr = c.netConn.Write(r.frame)
	}
	writeWait := start.Sub(r.submitted)
	timeToWrite := time.Since(start)
	c.opts.hooks.each(func(h Hook) {
		if wh, ok := h.(BrokerWriteHook); ok {
			wh.OnWrite(c.host, c.port, r.apiKey, len(r.frame), writeWait, timeToWrite, writeErr)
		}
	})
	if writeErr != nil {
		c.fatal(&NetworkError{Host: c.host, Port: c.port, Cause: writeErr})
	}
}

// armDrainWait spawns the one-time goroutine that waits for the sink's next
// drain notification and reports it back to the run loop.
func (c *Conn) armDrainWait() {
	go func() {
		select {
		case <-c.sink.drainNotify():
			select {
			case c.cmds <- func() { c.handleDrain() }:
			case <-c.done:
			}
		case <-c.done:
		}
	}()
}

// handleDrain flushes as much of the drain-deferred queue as the transport
// will now accept, preserving submission order.
func (c *Conn) handleDrain() {
	c.drainBlocked = false
	for len(c.drainDeferred) > 0 {
		next := c.drainDeferred[0]
		if !c.sink.write(next.frame) {
			c.drainBlocked = true
			c.armDrainWait()
			return
		}
		c.drainDeferred = c.drainDeferred[1:]
	}
}

// handleTimeout fails a still-outstanding request with TimeoutError. The
// request stays in the in-flight map (its correlation id must still be
// recognized and silently discarded if the broker's answer eventually
// arrives) but is marked so a late response is dropped rather than
// delivered twice.
func (c *Conn) handleTimeout(corrID int32) {
	r, ok := c.inflight[corrID]
	if !ok {
		return
	}
	c.opts.logger.Log(LogLevelWarn, "request timed out awaiting response",
		"api_key", r.apiKey, "correlation_id", corrID)
	cb := r.callback
	r.callback = droppedCallback
	cb(nil, &TimeoutError{Op: "request"})
}

// droppedCallback replaces a request's callback once it has already been
// completed (by timeout or otherwise) but stays in the in-flight map, so a
// subsequently arriving late frame is demultiplexed and discarded instead of
// delivered twice.
func droppedCallback(kmsg.Response, error) {}

// handleReadError tears the connection down with a uniform NetworkError
// following any socket read failure, including a clean EOF.
func (c *Conn) handleReadError(err error) {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	c.fatal(&NetworkError{Host: c.host, Port: c.port, Cause: err})
}

// handleFrameBytes appends newly read bytes to the response accumulator and
// demultiplexes as many complete frames as are now available, per the
// engine's 6-step algorithm: peek the length prefix, wait for the full
// frame, read the header, look the correlation id up in the in-flight map,
// and deliver (or drop) the decoded body.
func (c *Conn) handleFrameBytes(data []byte) {
	c.acc.Append(data)
	for {
		if c.expectedFrame == -1 {
			if c.acc.Len() < lengthPrefixSize {
				return
			}
			lr := kbin.NewReader(c.acc.Peek(lengthPrefixSize))
			c.expectedFrame = int(lr.Int32())
			if c.expectedFrame < 0 {
				c.fatal(&ProtocolError{Cause: kbin.ErrInvalidLength})
				return
			}
		}
		total := lengthPrefixSize + c.expectedFrame
		if c.acc.Len() < total {
			return
		}

		frame := c.acc.Peek(total)[lengthPrefixSize:]
		r := kbin.NewReader(frame)

		corrID := r.Int32()
		req, ok := c.inflight[corrID]
		if !ok {
			c.acc.Consume(total)
			c.fatal(&NetworkError{Host: c.host, Port: c.port, Cause: ErrUnexpectedCorrelationID})
			return
		}
		delete(c.inflight, corrID)
		if req.timer != nil {
			req.timer.Stop()
		}
		if req.respFlexible {
			kmsg.SkipTags(r)
		}

		c.acc.Consume(total)
		c.expectedFrame = -1

		readWait := time.Since(req.submitted)
		c.opts.hooks.each(func(h Hook) {
			if rh, ok := h.(BrokerReadHook); ok {
				rh.OnRead(c.host, c.port, req.apiKey, total, readWait, 0, nil)
			}
		})

		c.deliver(req, r)
		c.admitFromQueue()
	}
}

// deliver decodes req's response body from r and invokes its callback,
// wrapping a successfully-parsed response that carries non-zero per-element
// error codes in a ResponseError.
func (c *Conn) deliver(req *request, r *kbin.Reader) {
	if err := req.resp.ReadFrom(r); err != nil {
		req.callback(nil, &ProtocolError{Key: req.apiKey, CorrelationID: req.corrID, Cause: err})
		return
	}
	if r.Complete() != nil {
		req.callback(nil, &ProtocolError{Key: req.apiKey, CorrelationID: req.corrID, Cause: r.Complete()})
		return
	}
	if sharded, ok := req.resp.(kmsg.ShardedResponse); ok {
		if locs := sharded.Shard(); len(locs) > 0 {
			req.callback(nil, &ResponseError{Locations: locs, Response: req.resp})
			return
		}
	}
	req.callback(req.resp, nil)
}

// admitFromQueue writes as many queued requests as the in-flight cap now
// allows, preserving submission order.
func (c *Conn) admitFromQueue() {
	for len(c.inflight) < c.opts.maxInFlight && len(c.admissionQueue) > 0 {
		next := c.admissionQueue[0]
		c.admissionQueue = c.admissionQueue[1:]
		c.writeAndTrack(next)
	}
}

// fatal transitions the connection to ERROR, fails every outstanding
// request uniformly, and tears the socket down. It is idempotent.
func (c *Conn) fatal(err error) {
	if c.stopped {
		return
	}
	c.opts.logger.Log(LogLevelError, "connection failed", "host", c.host, "port", c.port,
		"outstanding", len(c.inflight), "err", err)
	c.status.Store(int32(StatusError))
	c.failAll(err)
	c.teardown()
}

// handleClose implements the graceful-shutdown path: CLOSING, fail
// everything with ErrConnClosed, CLOSED, teardown.
func (c *Conn) handleClose() {
	if c.stopped {
		return
	}
	c.opts.logger.Log(LogLevelDebug, "closing connection", "host", c.host, "port", c.port,
		"outstanding", len(c.inflight))
	c.status.Store(int32(StatusClosing))
	c.failAll(&NetworkError{Host: c.host, Port: c.port, Cause: ErrConnClosed})
	c.status.Store(int32(StatusClosed))
	c.teardown()
}

// failAll invokes every tracked request's callback with err and clears all
// queues.
func (c *Conn) failAll(err error) {
	for corrID, r := range c.inflight {
		delete(c.inflight, corrID)
		if r.timer != nil {
			r.timer.Stop()
		}
		r.callback(nil, err)
	}
	for _, r := range c.admissionQueue {
		r.callback(nil, err)
	}
	c.admissionQueue = nil
	for _, r := range c.drainDeferred {
		r.callback(nil, err)
	}
	c.drainDeferred = nil
}

// teardown closes the socket and sink, stops the re-authentication timer,
// fires the disconnect hook, and marks the run loop for exit.
func (c *Conn) teardown() {
	if c.reauthTimer != nil {
		c.reauthTimer.Stop()
	}
	if c.sink != nil {
		c.sink.close()
	} else if c.netConn != nil {
		c.netConn.Close()
	}
	c.opts.hooks.each(func(h Hook) {
		if dh, ok := h.(BrokerDisconnectHook); ok {
			dh.OnDisconnect(c.host, c.port, c.netConn)
		}
	})
	c.stopped = true
}
