package oauth

import (
	"context"
	"strings"
	"testing"
)

func TestAuthenticateBuildsGS2Message(t *testing.T) {
	m := OAuth(func(context.Context) (Auth, error) {
		return Auth{User: "alice", Token: "tok123"}, nil
	})

	sess, msg, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if want := "n,a=alice,\x01auth=Bearer tok123\x01\x01"; string(msg) != want {
		t.Fatalf("initial message = %q, want %q", msg, want)
	}

	done, clientWrite, err := sess.Challenge(nil)
	if err != nil {
		t.Fatalf("Challenge(nil): %v", err)
	}
	if !done || clientWrite != nil {
		t.Fatalf("Challenge(nil) = (%v, %v), want (true, nil)", done, clientWrite)
	}
}

func TestAuthenticateWithoutUser(t *testing.T) {
	m := OAuth(func(context.Context) (Auth, error) {
		return Auth{Token: "tok123"}, nil
	})

	_, msg, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if want := "n,,\x01auth=Bearer tok123\x01\x01"; string(msg) != want {
		t.Fatalf("initial message = %q, want %q", msg, want)
	}
}

func TestAuthenticateIncludesExtensions(t *testing.T) {
	m := OAuth(func(context.Context) (Auth, error) {
		return Auth{User: "alice", Token: "tok123", Extensions: map[string]string{"x": "y"}}, nil
	})

	_, msg, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !strings.Contains(string(msg), "\x01x=y\x01") {
		t.Fatalf("initial message %q missing extension segment", msg)
	}
}

func TestChallengeOnFailureSendsControlAByteAndEnds(t *testing.T) {
	m := OAuth(func(context.Context) (Auth, error) {
		return Auth{User: "alice", Token: "bad-token"}, nil
	})
	sess, _, err := m.Authenticate(context.Background(), "broker:9092")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	failure := []byte(`{"status":"invalid_token"}`)
	done, clientWrite, err := sess.Challenge(failure)
	if err != nil {
		t.Fatalf("Challenge(failure): %v", err)
	}
	if !done {
		t.Fatal("Challenge(failure) must report done so the exchange loop does not wait for another read")
	}
	if string(clientWrite) != "\x01" {
		t.Fatalf("clientWrite = %q, want a single control-A byte", clientWrite)
	}
}
