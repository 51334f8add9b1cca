package kgo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/platformatic/kgo/pkg/kbin"
	"github.com/platformatic/kgo/pkg/kmsg"
	"github.com/platformatic/kgo/pkg/sasl"
	"github.com/platformatic/kgo/pkg/sasl/plain"
)

// saslBrokerEvent records one request the fake SASL broker served: the api
// key it saw and, for SaslAuthenticate, the opaque auth bytes the client
// sent.
type saslBrokerEvent struct {
	key       int16
	authBytes []byte
}

// serveSasl is a minimal fake broker loop: it answers every SaslHandshake
// with a successful mechanisms list and every SaslAuthenticate with a
// successful, empty-challenge response granting lifetimeMs. It exits when
// the pipe closes.
func serveSasl(broker net.Conn, lifetimeMs int64, events chan<- saslBrokerEvent) {
	for {
		head := make([]byte, 4)
		if _, err := io.ReadFull(broker, head); err != nil {
			return
		}
		payload := make([]byte, int(kbin.NewReader(head).Int32()))
		if _, err := io.ReadFull(broker, payload); err != nil {
			return
		}
		r := kbin.NewReader(payload)
		key := r.Int16()
		r.Int16() // api_version
		corrID := r.Int32()
		r.NullableString(false) // client_id

		switch key {
		case 17:
			broker.Write(encodeFrame(corrID, saslHandshakeRespBody()))
			events <- saslBrokerEvent{key: key}
		case 36:
			r.ReadTaggedFields() // flexible request header's tag buffer
			authBytes := r.CompactBytes()
			w := kbin.NewWriter()
			w.AppendInt32(corrID)
			w.AppendTaggedFieldsEmpty()
			w.AppendInt16(0)
			w.AppendNullableString(nil, true)
			w.AppendCompactBytes(nil)
			w.AppendInt64(lifetimeMs)
			w.AppendTaggedFieldsEmpty()
			w.PrependLength()
			broker.Write(w.Bytes())
			events <- saslBrokerEvent{key: key, authBytes: authBytes}
		}
	}
}

func TestSaslPlainHappyPath(t *testing.T) {
	client, broker := net.Pipe()
	c := NewConn("broker.example", 9092, SASL(plain.Auth{User: "u", Pass: "p"}.AsMechanism()))
	attachTestConn(c, client, nil)
	t.Cleanup(func() { c.Close() })
	c.status.Store(int32(StatusAuthenticating))

	events := make(chan saslBrokerEvent, 16)
	go serveSasl(broker, 0, events)

	if err := c.authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got := c.Status(); got != StatusConnected {
		t.Fatalf("status = %s, want CONNECTED", got)
	}

	// Exactly one handshake round trip followed by exactly one authenticate
	// round trip carrying \0u\0p.
	first := <-events
	if first.key != 17 {
		t.Fatalf("first request had api key %d, want 17 (SaslHandshake)", first.key)
	}
	second := <-events
	if second.key != 36 {
		t.Fatalf("second request had api key %d, want 36 (SaslAuthenticate)", second.key)
	}
	if want := []byte("\x00u\x00p"); !bytes.Equal(second.authBytes, want) {
		t.Fatalf("auth bytes = %q, want %q", second.authBytes, want)
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected extra request with api key %d", ev.key)
	case <-time.After(50 * time.Millisecond):
	}
}

// capturingLogger records every Log call so tests can assert the engine
// logs through the injected seam.
type capturingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *capturingLogger) Level() LogLevel { return LogLevelDebug }

func (l *capturingLogger) Log(_ LogLevel, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *capturingLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func TestEngineLogsThroughInjectedLogger(t *testing.T) {
	logger := &capturingLogger{}
	client, broker := net.Pipe()
	c := NewConn("broker.example", 9092,
		SASL(plain.Auth{User: "u", Pass: "p"}.AsMechanism()),
		WithLogger(logger),
	)
	attachTestConn(c, client, nil)
	c.status.Store(int32(StatusAuthenticating))

	events := make(chan saslBrokerEvent, 16)
	go serveSasl(broker, 0, events)

	if err := c.authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	c.Close()

	got := logger.all()
	seen := make(map[string]bool, len(got))
	for _, msg := range got {
		seen[msg] = true
	}
	for _, want := range []string{
		"beginning sasl handshake",
		"sasl handshake successful",
		"issuing sasl authenticate",
		"sasl authentication successful",
		"closing connection",
	} {
		if !seen[want] {
			t.Fatalf("expected %q to be logged, got %v", want, got)
		}
	}
}

func TestAuthBytesValidatorRejectionFailsAuthentication(t *testing.T) {
	rejection := errors.New("final auth bytes rejected")
	client, broker := net.Pipe()
	c := NewConn("broker.example", 9092,
		SASL(plain.Auth{User: "u", Pass: "p"}.AsMechanism()),
		AuthBytesValidator(func([]byte) error { return rejection }),
	)
	attachTestConn(c, client, nil)
	t.Cleanup(func() { c.Close() })
	c.status.Store(int32(StatusAuthenticating))

	events := make(chan saslBrokerEvent, 16)
	go serveSasl(broker, 0, events)

	err := c.authenticate(context.Background())
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthenticationError, got %T (%v)", err, err)
	}
	if !errors.Is(authErr, rejection) {
		t.Fatalf("expected validator's error as cause, got %v", authErr.Cause)
	}
}

func TestGSSAPIWithoutAuthenticatorIsUserError(t *testing.T) {
	client, broker := net.Pipe()
	c := NewConn("broker.example", 9092, SASL(sasl.GSSAPI(nil)))
	attachTestConn(c, client, nil)
	t.Cleanup(func() { c.Close() })
	c.status.Store(int32(StatusAuthenticating))

	events := make(chan saslBrokerEvent, 16)
	go serveSasl(broker, 0, events)

	err := c.authenticate(context.Background())
	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatalf("expected *UserError, got %T (%v)", err, err)
	}
}

// reauthSignal observes the re-authentication start via the throttle hook
// slot.
type reauthSignal struct{ ch chan struct{} }

func (s reauthSignal) OnThrottle(string, int, time.Duration, bool) {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func TestReauthTimerRefreshesSessionTransparently(t *testing.T) {
	signal := reauthSignal{ch: make(chan struct{}, 1)}
	client, broker := net.Pipe()
	c := NewConn("broker.example", 9092,
		SASL(plain.Auth{User: "u", Pass: "p"}.AsMechanism()),
		WithHooks(signal),
	)
	attachTestConn(c, client, nil)
	t.Cleanup(func() { c.Close() })
	c.status.Store(int32(StatusAuthenticating))

	events := make(chan saslBrokerEvent, 32)
	go serveSasl(broker, 250, events)

	if err := c.authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	<-events // initial handshake
	<-events // initial authenticate

	// The 250ms session lifetime arms the proactive timer at 80% of it.
	select {
	case <-signal.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("re-authentication never started")
	}

	// A request submitted during the re-authentication window must still be
	// served: REAUTHENTICATING is a send-allowed state.
	req := &kmsg.SaslHandshakeRequest{Mechanism: "PLAIN"}
	req.SetVersion(1)
	resCh := doAsync(c, req)
	select {
	case r := <-resCh:
		if r.err != nil {
			t.Fatalf("request during re-auth failed: %v", r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request during re-auth never completed")
	}

	// The broker sees a second full handshake+authenticate exchange and the
	// status settles back to CONNECTED.
	sawSecondAuth := false
	deadline := time.After(2 * time.Second)
	for !sawSecondAuth {
		select {
		case ev := <-events:
			if ev.key == 36 {
				sawSecondAuth = true
			}
		case <-deadline:
			t.Fatal("second SaslAuthenticate never arrived")
		}
	}
	for end := time.Now().Add(2 * time.Second); c.Status() != StatusConnected; {
		if time.Now().After(end) {
			t.Fatalf("status = %s, want CONNECTED after re-auth", c.Status())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
