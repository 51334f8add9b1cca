// Package kgo is the connection engine: a single-socket, pipelined
// request/response multiplexer over the Kafka wire protocol. It assigns
// correlation IDs, enforces an in-flight cap with backpressure, manages
// per-request timeouts, drives the SASL handshake/authenticate/re-authenticate
// state machine, and demultiplexes framed responses back to their callers.
package kgo

import (
	"errors"
	"fmt"
)

// NetworkError wraps a socket-level failure: open/read/write/close, a
// connection closed while requests were outstanding, or an unexpected
// correlation id. Host and Port identify the peer for user-visible
// diagnostics.
type NetworkError struct {
	Host  string
	Port  int
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("kgo: network error talking to %s:%d: %v", e.Host, e.Port, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// TimeoutError is returned for a connect-timeout or a per-request timeout.
type TimeoutError struct {
	// Op is "connect" or "request".
	Op string
}

func (e *TimeoutError) Error() string {
	return "kgo: " + e.Op + " timed out"
}

// AuthenticationError wraps a SASL failure: handshake rejection, an
// unsupported mechanism, a server-signature mismatch, or a caller-supplied
// auth-bytes validator rejecting the final challenge.
type AuthenticationError struct {
	Mechanism string
	Cause     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("kgo: sasl authentication failed (mechanism %s): %v", e.Mechanism, e.Cause)
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// ProtocolError wraps a decoder failure mid-frame: a short read, an invalid
// varint, a length prefix below -1, or a malformed UUID. Key and
// CorrelationID, when known, identify which in-flight request the failure
// belongs to.
type ProtocolError struct {
	Key           int16
	CorrelationID int32
	Cause         error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("kgo: protocol error decoding api key %d (correlation id %d): %v", e.Key, e.CorrelationID, e.Cause)
}

func (e *ProtocolError) Unwrap() error { return e.Cause }

// ResponseError is surfaced when a response parsed cleanly but one or more
// of its error_code fields were non-zero. Locations maps a JSON-pointer-like
// path (e.g. "/topics/1") to the non-zero Kafka error code found there.
// Response carries the fully parsed body, including any elements that
// succeeded.
type ResponseError struct {
	Locations map[string]int16
	Response  interface{}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("kgo: response contained %d per-element error(s): %v", len(e.Locations), e.Locations)
}

// UserError signals that the caller misused the API (e.g. selected an
// unsupported SASL mechanism). It is never retriable.
type UserError struct {
	Cause error
}

func (e *UserError) Error() string {
	return "kgo: " + e.Cause.Error()
}

func (e *UserError) Unwrap() error { return e.Cause }

// ErrConnClosed is the uniform cause NetworkError wraps when a request is
// failed because the connection was (or is being) closed.
var ErrConnClosed = errors.New("kgo: connection closed")

// ErrUnexpectedCorrelationID is the cause NetworkError wraps when a
// response frame's correlation id does not match any in-flight request.
var ErrUnexpectedCorrelationID = errors.New("kgo: response correlation id does not match any in-flight request")
