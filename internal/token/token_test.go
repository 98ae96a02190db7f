package token

import (
	"testing"
	"time"
)

func TestIssuer_Issue(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"))
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("deterministic", func(t *testing.T) {
		a := issuer.Issue(7, 42, at)
		b := issuer.Issue(7, 42, at)
		if a != b {
			t.Errorf("same inputs produced different tokens: %s vs %s", a, b)
		}
		if len(a) != 64 {
			t.Errorf("expected 64 hex chars, got %d", len(a))
		}
	})

	t.Run("distinct per attempt identity", func(t *testing.T) {
		base := issuer.Issue(7, 42, at)
		if issuer.Issue(8, 42, at) == base {
			t.Error("different quiz produced identical token")
		}
		if issuer.Issue(7, 43, at) == base {
			t.Error("different user produced identical token")
		}
		if issuer.Issue(7, 42, at.Add(time.Second)) == base {
			t.Error("different timestamp produced identical token")
		}
	})

	t.Run("key dependent", func(t *testing.T) {
		other := NewIssuer([]byte("other-secret"))
		if other.Issue(7, 42, at) == issuer.Issue(7, 42, at) {
			t.Error("token does not depend on the server secret")
		}
	})
}

func TestMatches(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"))
	tok := issuer.Issue(1, 1, time.Now())

	if !Matches(tok, tok) {
		t.Error("token does not match itself")
	}
	if Matches(tok, tok[:len(tok)-1]+"x") {
		t.Error("mutated token matched")
	}
	if Matches("", tok) || Matches(tok, "") || Matches("", "") {
		t.Error("empty token must never match")
	}
}
