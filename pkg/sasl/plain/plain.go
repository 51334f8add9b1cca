// Package plain implements the SASL/PLAIN mechanism: a single
// SaslAuthenticate round trip carrying "\0user\0pass".
package plain

import (
	"context"

	"github.com/platformatic/kgo/pkg/sasl"
)

// Auth holds the credentials for one PLAIN authentication attempt.
type Auth struct {
	// Zid is the optional authorization identity (rarely used; most
	// deployments leave it empty).
	Zid  string
	User string
	Pass string
}

// AsMechanism returns a sasl.Mechanism that always authenticates as a.
func (a Auth) AsMechanism() sasl.Mechanism {
	return Plain(func(context.Context) (Auth, error) { return a, nil })
}

// authFn is evaluated once per (re)authentication attempt, allowing callers
// to rotate credentials between connects.
type authFn func(context.Context) (Auth, error)

// Plain returns a sasl.Mechanism that authenticates with the credentials
// fn produces.
func Plain(fn func(context.Context) (Auth, error)) sasl.Mechanism {
	return mechanism{fn}
}

type mechanism struct{ fn authFn }

func (mechanism) Name() string { return "PLAIN" }

func (m mechanism) Authenticate(ctx context.Context, _ string) (sasl.Session, []byte, error) {
	auth, err := m.fn(ctx)
	if err != nil {
		return nil, nil, err
	}
	msg := make([]byte, 0, len(auth.Zid)+len(auth.User)+len(auth.Pass)+2)
	msg = append(msg, auth.Zid...)
	msg = append(msg, 0)
	msg = append(msg, auth.User...)
	msg = append(msg, 0)
	msg = append(msg, auth.Pass...)
	return session{}, msg, nil
}

// session is stateless: PLAIN completes in one round trip and never expects
// a further challenge.
type session struct{}

func (session) Challenge([]byte) (bool, []byte, error) {
	return true, nil, nil
}
