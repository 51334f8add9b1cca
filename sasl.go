package kgo

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/platformatic/kgo/pkg/kerr"
	"github.com/platformatic/kgo/pkg/kmsg"
	"github.com/platformatic/kgo/pkg/sasl"
)

// reauthFraction is the share of a granted session lifetime after which the
// engine proactively re-authenticates, leaving headroom before the broker
// would otherwise drop the connection for an expired session.
const reauthFraction = 0.8

// authenticate drives one full SASL exchange: handshake, then a loop of
// SaslAuthenticate round trips until the mechanism's Session reports it is
// done and has no further bytes to send. It is used both for the initial
// authentication during Connect and, via handleReauthTimer, for proactive
// re-authentication. Submission admits both AUTHENTICATING and
// REAUTHENTICATING as send-allowed precisely so this helper can ride the
// connection's ordinary request path rather than a separate raw-socket
// exchange.
//
// On success, status becomes CONNECTED and, if the broker granted a
// positive session lifetime, a re-authentication timer is armed.
func (c *Conn) authenticate(ctx context.Context) error {
	mechanism := c.opts.mechanism
	name := mechanism.Name()

	c.opts.logger.Log(LogLevelDebug, "beginning sasl handshake", "mechanism", name)
	hsReq := &kmsg.SaslHandshakeRequest{Mechanism: name}
	hsReq.SetVersion(1)
	hsRespI, err := c.Do(ctx, hsReq)
	if err != nil {
		return &AuthenticationError{Mechanism: name, Cause: err}
	}
	hsResp := hsRespI.(*kmsg.SaslHandshakeResponse)
	if hsResp.ErrorCode != 0 {
		c.opts.logger.Log(LogLevelError, "sasl handshake failed", "mechanism", name,
			"broker_mechanisms", hsResp.Mechanisms, "err_code", hsResp.ErrorCode)
		return &AuthenticationError{Mechanism: name, Cause: kerr.ErrorForCode(hsResp.ErrorCode)}
	}
	c.opts.logger.Log(LogLevelDebug, "sasl handshake successful", "mechanism", name,
		"broker_mechanisms", hsResp.Mechanisms)

	session, clientWrite, err := mechanism.Authenticate(ctx, net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	if err != nil {
		var noGSSAPI sasl.ErrNoGSSAPI
		if errors.As(err, &noGSSAPI) {
			return &UserError{Cause: err}
		}
		return &AuthenticationError{Mechanism: name, Cause: err}
	}

	done := false
	var lifetimeMs int64
	var finalAuthBytes []byte
	for step := 1; ; step++ {
		c.opts.logger.Log(LogLevelDebug, "issuing sasl authenticate", "mechanism", name, "step", step)
		authReq := &kmsg.SaslAuthenticateRequest{AuthBytes: clientWrite}
		authReq.SetVersion(2)
		respI, err := c.Do(ctx, authReq)
		if err != nil {
			return &AuthenticationError{Mechanism: name, Cause: err}
		}
		resp := respI.(*kmsg.SaslAuthenticateResponse)
		if resp.ErrorCode != 0 {
			cause := kerr.ErrorForCode(resp.ErrorCode)
			if resp.ErrorMessage != nil {
				cause = &messageError{msg: *resp.ErrorMessage, cause: cause}
			}
			return &AuthenticationError{Mechanism: name, Cause: cause}
		}
		lifetimeMs = resp.SessionLifetimeMs
		finalAuthBytes = resp.AuthBytes

		if done {
			break
		}
		done, clientWrite, err = session.Challenge(resp.AuthBytes)
		if err != nil {
			return &AuthenticationError{Mechanism: name, Cause: err}
		}
		if done && len(clientWrite) == 0 {
			break
		}
	}

	if v := c.opts.authValidator; v != nil {
		if err := v(finalAuthBytes); err != nil {
			return &AuthenticationError{Mechanism: name, Cause: err}
		}
	}

	if lifetimeMs > 0 {
		c.armReauth(lifetimeMs)
	}
	c.status.Store(int32(StatusConnected))
	c.opts.logger.Log(LogLevelDebug, "sasl authentication successful", "mechanism", name,
		"session_lifetime_ms", lifetimeMs)
	return nil
}

// armReauth schedules proactive re-authentication at reauthFraction of the
// broker-granted session lifetime.
func (c *Conn) armReauth(lifetimeMs int64) {
	d := time.Duration(float64(lifetimeMs)*reauthFraction) * time.Millisecond
	c.opts.logger.Log(LogLevelDebug, "arming sasl re-authentication timer", "fire_in", d)
	arm := func() {
		c.reauthTimer = time.AfterFunc(d, func() {
			select {
			case c.cmds <- func() { c.handleReauthTimer() }:
			case <-c.done:
			}
		})
	}
	select {
	case c.cmds <- arm:
	case <-c.done:
	}
}

// handleReauthTimer fires when a live connection's granted session lifetime
// is nearly up. It flips status to REAUTHENTICATING (requests already in
// flight continue to be served; new sends are still admitted, per
// sendAllowed) and runs the same authenticate helper on its own goroutine,
// since authenticate blocks on round trips through the ordinary Do path.
func (c *Conn) handleReauthTimer() {
	if Status(c.status.Load()) != StatusConnected {
		return
	}
	c.status.Store(int32(StatusReauthenticating))
	c.opts.logger.Log(LogLevelInfo, "proactively re-authenticating before session expiry",
		"host", c.host, "port", c.port)
	c.opts.hooks.each(func(h Hook) {
		if th, ok := h.(BrokerThrottleHook); ok {
			th.OnThrottle(c.host, c.port, 0, false)
		}
	})
	go func() {
		err := c.authenticate(context.Background())
		if err != nil {
			c.opts.logger.Log(LogLevelError, "sasl re-authentication failed", "err", err)
			select {
			case c.cmds <- func() { c.fatal(err) }:
			case <-c.done:
			}
		}
	}()
}

// messageError pairs a broker-supplied error_message with the underlying
// kerr.Error so both are visible in AuthenticationError.Cause.
type messageError struct {
	msg   string
	cause error
}

func (e *messageError) Error() string { return e.msg + ": " + e.cause.Error() }
func (e *messageError) Unwrap() error { return e.cause }
