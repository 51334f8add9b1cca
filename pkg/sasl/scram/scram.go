// Package scram implements the SASL/SCRAM-SHA-256 and SCRAM-SHA-512
// mechanisms (RFC 5802), a three-step exchange: client-first, server-first,
// client-final (with channel binding "biws", i.e. base64("n,,")), verified
// against the server's final signature.
package scram

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/platformatic/kgo/pkg/sasl"
)

// Auth holds the credentials for one SCRAM authentication attempt.
type Auth struct {
	User string
	Pass string

	// Nonce, if set, overrides the random client nonce. Exposed for
	// deterministic tests; production callers should leave this empty.
	Nonce string
}

type authFn func(context.Context) (Auth, error)

// Sha256 returns a sasl.Mechanism for SCRAM-SHA-256.
func Sha256(fn func(context.Context) (Auth, error)) sasl.Mechanism {
	return mechanism{name: "SCRAM-SHA-256", newHash: sha256.New, fn: fn}
}

// Sha512 returns a sasl.Mechanism for SCRAM-SHA-512.
func Sha512(fn func(context.Context) (Auth, error)) sasl.Mechanism {
	return mechanism{name: "SCRAM-SHA-512", newHash: sha512.New, fn: fn}
}

type mechanism struct {
	name    string
	newHash func() hash.Hash
	fn      authFn
}

func (m mechanism) Name() string { return m.name }

func (m mechanism) Authenticate(ctx context.Context, _ string) (sasl.Session, []byte, error) {
	auth, err := m.fn(ctx)
	if err != nil {
		return nil, nil, err
	}
	nonce := auth.Nonce
	if nonce == "" {
		nonce, err = randomNonce()
		if err != nil {
			return nil, nil, err
		}
	}
	s := &session{
		newHash:     m.newHash,
		user:        auth.User,
		pass:        auth.Pass,
		clientNonce: nonce,
	}
	return s, []byte(s.clientFirstMessage()), nil
}

// session carries the running state of one SCRAM handshake across its three
// steps.
type session struct {
	newHash func() hash.Hash
	user    string
	pass    string

	clientNonce     string
	clientFirstBare string

	expectedServerSignature []byte

	step int
}

func sanitizeUser(user string) string {
	user = strings.ReplaceAll(user, "=", "=3D")
	user = strings.ReplaceAll(user, ",", "=2C")
	return user
}

func randomNonce() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("scram: generating client nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func hmacSum(newHash func() hash.Hash, key, data []byte) []byte {
	mac := hmac.New(newHash, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func hashSum(newHash func() hash.Hash, data []byte) []byte {
	h := newHash()
	h.Write(data)
	return h.Sum(nil)
}

func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// clientFirstMessage builds the RFC 5802 §7 client-first-message and records
// its bare form in s.clientFirstBare.
func (s *session) clientFirstMessage() string {
	bare := "n=" + sanitizeUser(s.user) + ",r=" + s.clientNonce
	s.clientFirstBare = bare
	return "n,," + bare
}

// serverFirst is the parsed server-first-message: r=<nonce>,s=<salt>,i=<iterations>.
type serverFirst struct {
	nonce      string
	salt       []byte
	iterations int
}

func parseServerFirst(msg string) (serverFirst, error) {
	var sf serverFirst
	for _, part := range strings.Split(msg, ",") {
		if len(part) < 2 || part[1] != '=' {
			continue
		}
		switch part[0] {
		case 'r':
			sf.nonce = part[2:]
		case 's':
			salt, err := base64.StdEncoding.DecodeString(part[2:])
			if err != nil {
				return sf, fmt.Errorf("scram: invalid salt: %w", err)
			}
			sf.salt = salt
		case 'i':
			n, err := strconv.Atoi(part[2:])
			if err != nil {
				return sf, fmt.Errorf("scram: invalid iteration count: %w", err)
			}
			sf.iterations = n
		}
	}
	if sf.nonce == "" || sf.salt == nil || sf.iterations == 0 {
		return sf, errors.New("scram: malformed server-first-message")
	}
	return sf, nil
}

// Challenge drives the session's next step. The mechanism's Authenticate
// already produced and returned the client-first message as the initial
// write, so the first Challenge call (step 0) receives the server-first
// message.
func (s *session) Challenge(challenge []byte) (bool, []byte, error) {
	switch s.step {
	case 0:
		s.step = 1
		sf, err := parseServerFirst(string(challenge))
		if err != nil {
			return false, nil, err
		}
		if !strings.HasPrefix(sf.nonce, s.clientNonce) {
			return false, nil, errors.New("scram: server nonce does not extend client nonce")
		}

		saltedPassword := pbkdf2.Key([]byte(s.pass), sf.salt, sf.iterations, hashSize(s.newHash), s.newHash)
		clientKey := hmacSum(s.newHash, saltedPassword, []byte("Client Key"))
		storedKey := hashSum(s.newHash, clientKey)
		serverKey := hmacSum(s.newHash, saltedPassword, []byte("Server Key"))

		channelBinding := "c=" + base64.StdEncoding.EncodeToString([]byte("n,,"))
		clientFinalWithoutProof := channelBinding + ",r=" + sf.nonce
		authMessage := s.clientFirstBare + "," + string(challenge) + "," + clientFinalWithoutProof

		clientSignature := hmacSum(s.newHash, storedKey, []byte(authMessage))
		clientProof := xor(clientKey, clientSignature)

		s.expectedServerSignature = hmacSum(s.newHash, serverKey, []byte(authMessage))

		clientFinal := clientFinalWithoutProof + ",p=" + base64.StdEncoding.EncodeToString(clientProof)
		return false, []byte(clientFinal), nil

	case 1:
		s.step = 2
		msg := string(challenge)
		const prefix = "v="
		idx := strings.Index(msg, prefix)
		if idx < 0 {
			return false, nil, errors.New("scram: malformed server-final-message")
		}
		got, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(msg[idx+len(prefix):], ","))
		if err != nil {
			return false, nil, fmt.Errorf("scram: invalid server signature encoding: %w", err)
		}
		if !hmac.Equal(got, s.expectedServerSignature) {
			return false, nil, errors.New("scram: server signature mismatch")
		}
		return true, nil, nil
	}
	return false, nil, errors.New("scram: challenge received after handshake completed")
}

func hashSize(newHash func() hash.Hash) int {
	return newHash().Size()
}
