package scram

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

func TestAuthenticateEmitsClientFirstMessage(t *testing.T) {
	m := Sha256(func(context.Context) (Auth, error) {
		return Auth{User: "alice", Pass: "secret", Nonce: "fyko+d2lbbFgONRv9qkxdawL"}, nil
	})

	sess, msg, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if want := "n,,n=alice,r=fyko+d2lbbFgONRv9qkxdawL"; string(msg) != want {
		t.Fatalf("client-first-message = %q, want %q", msg, want)
	}
	if sess == nil {
		t.Fatal("Authenticate returned a nil session")
	}
}

func TestAuthenticateSanitizesReservedCharactersInUser(t *testing.T) {
	m := Sha256(func(context.Context) (Auth, error) {
		return Auth{User: "a=b,c", Pass: "x", Nonce: "abc"}, nil
	})
	_, msg, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if want := "n,,n=a=3Db=2Cc,r=abc"; string(msg) != want {
		t.Fatalf("client-first-message = %q, want %q", msg, want)
	}
}

// TestFullExchangeSucceeds drives the three SCRAM-SHA-256 steps end to end,
// playing the server side by hand per RFC 5802, and checks that Challenge
// accepts the resulting server-final-message.
func TestFullExchangeSucceeds(t *testing.T) {
	const (
		user       = "alice"
		pass       = "secretpw"
		clientNon  = "clientNonce123"
		serverNon  = "serverNonce456"
		salt       = "sodiumchloride!!"
		iterations = 4096
	)

	m := Sha256(func(context.Context) (Auth, error) {
		return Auth{User: user, Pass: pass, Nonce: clientNon}, nil
	})
	sess, _, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	saltB64 := base64.StdEncoding.EncodeToString([]byte(salt))
	serverFirst := "r=" + clientNon + serverNon + ",s=" + saltB64 + ",i=" + itoa(iterations)

	done, clientFinal, err := sess.Challenge([]byte(serverFirst))
	if err != nil {
		t.Fatalf("Challenge(serverFirst): %v", err)
	}
	if done {
		t.Fatal("Challenge(serverFirst) should not be done yet")
	}

	saltedPassword := pbkdf2.Key([]byte(pass), []byte(salt), iterations, sha256.Size, sha256.New)
	serverKey := hmacSum(sha256.New, saltedPassword, []byte("Server Key"))
	clientFirstBare := "n=" + user + ",r=" + clientNon
	channelBinding := "c=" + base64.StdEncoding.EncodeToString([]byte("n,,"))
	clientFinalWithoutProof := channelBinding + ",r=" + clientNon + serverNon
	authMessage := clientFirstBare + "," + serverFirst + "," + clientFinalWithoutProof
	expectedServerSig := hmacSum(sha256.New, serverKey, []byte(authMessage))

	if !strings.Contains(string(clientFinal), clientFinalWithoutProof) {
		t.Fatalf("clientFinal = %q, missing channel-binding/nonce prefix %q", clientFinal, clientFinalWithoutProof)
	}

	serverFinal := "v=" + base64.StdEncoding.EncodeToString(expectedServerSig)
	done, clientWrite, err := sess.Challenge([]byte(serverFinal))
	if err != nil {
		t.Fatalf("Challenge(serverFinal): %v", err)
	}
	if !done {
		t.Fatal("Challenge(serverFinal) should complete the handshake")
	}
	if clientWrite != nil {
		t.Fatalf("clientWrite = %v, want nil", clientWrite)
	}
}

func TestChallengeRejectsNonExtendingServerNonce(t *testing.T) {
	m := Sha256(func(context.Context) (Auth, error) {
		return Auth{User: "alice", Pass: "secret", Nonce: "aaa"}, nil
	})
	sess, _, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	saltB64 := base64.StdEncoding.EncodeToString([]byte("salt"))
	serverFirst := "r=doesnotextend,s=" + saltB64 + ",i=4096"
	if _, _, err := sess.Challenge([]byte(serverFirst)); err == nil {
		t.Fatal("Challenge should reject a server nonce that does not extend the client nonce")
	}
}

func TestChallengeRejectsBadServerSignature(t *testing.T) {
	m := Sha256(func(context.Context) (Auth, error) {
		return Auth{User: "alice", Pass: "secret", Nonce: "aaa"}, nil
	})
	sess, _, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	saltB64 := base64.StdEncoding.EncodeToString([]byte("salt"))
	serverFirst := "r=aaabbb,s=" + saltB64 + ",i=4096"
	if _, _, err := sess.Challenge([]byte(serverFirst)); err != nil {
		t.Fatalf("Challenge(serverFirst): %v", err)
	}

	bogus := "v=" + base64.StdEncoding.EncodeToString([]byte("not-the-real-signature!"))
	if _, _, err := sess.Challenge([]byte(bogus)); err == nil {
		t.Fatal("Challenge should reject a mismatched server signature")
	}
}

func TestChallengeAfterCompletionIsAnError(t *testing.T) {
	m := Sha256(func(context.Context) (Auth, error) {
		return Auth{User: "alice", Pass: "secret", Nonce: "aaa"}, nil
	})
	sess, _, _ := m.Authenticate(context.Background(), "broker:9092")

	saltB64 := base64.StdEncoding.EncodeToString([]byte("salt"))
	serverFirst := "r=aaabbb,s=" + saltB64 + ",i=4096"
	sess.Challenge([]byte(serverFirst))

	saltedPassword := pbkdf2.Key([]byte("secret"), []byte("salt"), 4096, sha256.Size, sha256.New)
	serverKey := hmacSum(sha256.New, saltedPassword, []byte("Server Key"))
	clientFirstBare := "n=alice,r=aaa"
	channelBinding := "c=" + base64.StdEncoding.EncodeToString([]byte("n,,"))
	clientFinalWithoutProof := channelBinding + ",r=aaabbb"
	authMessage := clientFirstBare + "," + serverFirst + "," + clientFinalWithoutProof
	sig := hmacSum(sha256.New, serverKey, []byte(authMessage))
	sess.Challenge([]byte("v=" + base64.StdEncoding.EncodeToString(sig)))

	if _, _, err := sess.Challenge([]byte("anything")); err == nil {
		t.Fatal("Challenge after completion should error")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
