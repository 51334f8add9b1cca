// Package sasl defines the contract the connection engine drives to perform
// SASL authentication (and re-authentication) against a broker. Concrete
// mechanisms live in sibling packages (plain, scram, oauth); GSSAPI has no
// in-core implementation (see Mechanism doc).
package sasl

import "context"

// Session represents one in-progress authentication handshake. Challenge is
// called with the raw bytes the broker returned from the most recent
// SaslAuthenticate call (the first call receives the broker's answer to the
// mechanism's initial write) and returns whether the handshake is now
// complete, the next bytes to send (nil when nothing is left to send; a
// session may report done together with one last message, which is sent
// before the handshake ends), and an error if the challenge could not be
// satisfied or a verification step (e.g. SCRAM's server signature) failed.
type Session interface {
	Challenge(challenge []byte) (done bool, clientWrite []byte, err error)
}

// Mechanism is a pluggable SASL authentication mechanism. Authenticate
// begins a new session for a single (re)authentication attempt: host is the
// "host:port" of the peer being authenticated to, which SCRAM-style
// mechanisms may fold into channel-binding data and which OAUTHBEARER
// implementations may use for audience validation.
//
// Authenticate returns the session plus the first bytes the client should
// send (every mechanism in this core speaks first).
type Mechanism interface {
	// Name returns the SASL mechanism name as sent in SaslHandshake
	// (e.g. "PLAIN", "SCRAM-SHA-256", "OAUTHBEARER").
	Name() string
	Authenticate(ctx context.Context, host string) (Session, []byte, error)
}

// ErrNoGSSAPI is returned when GSSAPI is selected without a pluggable
// authenticator hook supplied by the caller. The core does not implement
// Kerberos/GSSAPI itself.
type ErrNoGSSAPI struct{}

func (ErrNoGSSAPI) Error() string {
	return "no custom SASL/GSSAPI authenticator provided"
}

// GSSAPI wraps a caller-supplied GSSAPI authenticator as a Mechanism. With
// a nil impl, Authenticate fails with ErrNoGSSAPI: selecting GSSAPI without
// plugging in an implementation is a caller error, not a silent no-op.
func GSSAPI(impl Mechanism) Mechanism { return gssapi{impl} }

type gssapi struct{ impl Mechanism }

func (gssapi) Name() string { return "GSSAPI" }

func (g gssapi) Authenticate(ctx context.Context, host string) (Session, []byte, error) {
	if g.impl == nil {
		return nil, nil, ErrNoGSSAPI{}
	}
	return g.impl.Authenticate(ctx, host)
}
