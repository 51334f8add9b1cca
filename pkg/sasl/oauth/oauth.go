// Package oauth implements the SASL/OAUTHBEARER mechanism (RFC 7628's
// GS2 framing over a bearer token), a single SaslAuthenticate round trip.
package oauth

import (
	"context"
	"strings"

	"github.com/platformatic/kgo/pkg/sasl"
)

// Auth holds the bearer token and optional extensions for one OAUTHBEARER
// attempt.
type Auth struct {
	// User is the authorization identity placed in the GS2 header
	// (a=<user>). May be empty if the broker derives identity from the
	// token itself.
	User string
	// Token is the bearer token.
	Token string
	// Extensions are additional key=value pairs appended to the
	// initial response, per the \x01key=value\x01 wire convention.
	Extensions map[string]string
}

type authFn func(context.Context) (Auth, error)

// OAuth returns a sasl.Mechanism that authenticates with the credentials fn
// produces.
func OAuth(fn func(context.Context) (Auth, error)) sasl.Mechanism {
	return mechanism{fn}
}

type mechanism struct{ fn authFn }

func (mechanism) Name() string { return "OAUTHBEARER" }

func (m mechanism) Authenticate(ctx context.Context, _ string) (sasl.Session, []byte, error) {
	auth, err := m.fn(ctx)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	b.WriteString("n,")
	if auth.User != "" {
		b.WriteString("a=")
		b.WriteString(auth.User)
	}
	b.WriteString(",\x01auth=Bearer ")
	b.WriteString(auth.Token)
	b.WriteString("\x01")
	for k, v := range auth.Extensions {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(v)
		b.WriteString("\x01")
	}
	b.WriteString("\x01")
	return session{}, []byte(b.String()), nil
}

// session holds no state. An empty challenge ends the exchange; a non-empty
// one (the broker's JSON failure message) is answered with a single
// control-A byte, which also ends the exchange.
type session struct{}

func (session) Challenge(challenge []byte) (bool, []byte, error) {
	if len(challenge) == 0 {
		return true, nil, nil
	}
	// The broker rejected the token and sent a JSON failure message; the
	// client must respond with a single control-A byte to end the
	// exchange cleanly, after which the broker fails the
	// SaslAuthenticate call with an authentication error.
	return true, []byte{0x01}, nil
}
