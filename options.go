package kgo

import (
	"crypto/tls"
	"time"

	"github.com/platformatic/kgo/pkg/sasl"
)

// options collects every Opt's effect. It is unexported; callers only ever
// see the functional Opt values below.
type options struct {
	connectTimeout time.Duration
	requestTimeout time.Duration
	maxInFlight    int
	clientID       *string

	tlsConfig *tls.Config

	mechanism     sasl.Mechanism
	authValidator func([]byte) error

	backpressure bool

	logger Logger
	hooks  hooks
}

func defaultOptions() options {
	return options{
		connectTimeout: 5 * time.Second,
		requestTimeout: 30 * time.Second,
		maxInFlight:    5,
		logger:         nopLogger{},
	}
}

// Opt configures a Conn at construction time.
type Opt interface {
	apply(*options)
}

type optFunc func(*options)

func (f optFunc) apply(o *options) { f(o) }

// ConnectTimeout overrides the default 5s connect timeout.
func ConnectTimeout(d time.Duration) Opt {
	return optFunc(func(o *options) { o.connectTimeout = d })
}

// RequestTimeout overrides the default 30s per-request timeout.
func RequestTimeout(d time.Duration) Opt {
	return optFunc(func(o *options) { o.requestTimeout = d })
}

// MaxInFlight overrides the default in-flight admission cap of 5.
func MaxInFlight(n int) Opt {
	return optFunc(func(o *options) {
		if n < 1 {
			n = 1
		}
		o.maxInFlight = n
	})
}

// ClientID sets the client_id sent in every request header. Unset leaves it
// null.
func ClientID(id string) Opt {
	return optFunc(func(o *options) { o.clientID = &id })
}

// TLS enables TLS for the connection using cfg (server name, verification
// mode, certificates are all configured through the standard
// crypto/tls.Config).
func TLS(cfg *tls.Config) Opt {
	return optFunc(func(o *options) { o.tlsConfig = cfg })
}

// SASL configures the mechanism used during connect (and subsequent
// re-authentications).
func SASL(mechanism sasl.Mechanism) Opt {
	return optFunc(func(o *options) { o.mechanism = mechanism })
}

// AuthBytesValidator registers fn to inspect the final server-returned
// auth bytes of every SASL exchange before the connection is considered
// live. A non-nil error fails the (re)authentication.
func AuthBytesValidator(fn func([]byte) error) Opt {
	return optFunc(func(o *options) { o.authValidator = fn })
}

// WithBackpressure opts into the drain-deferred write path: when the
// simulated socket signals it cannot accept more bytes right now, further
// admitted requests queue until a drain event, instead of the default
// behavior of assuming an effectively unlimited socket buffer.
func WithBackpressure() Opt {
	return optFunc(func(o *options) { o.backpressure = true })
}

// WithLogger overrides the default no-op Logger.
func WithLogger(l Logger) Opt {
	return optFunc(func(o *options) { o.logger = l })
}

// WithHooks registers one or more lifecycle observers.
func WithHooks(hs ...Hook) Opt {
	return optFunc(func(o *options) { o.hooks = append(o.hooks, hs...) })
}
