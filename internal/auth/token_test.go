package auth

import (
	"errors"
	"testing"
	"time"

	"loanverse/internal/domain/identity"
)

func TestGenerateVerify_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "loanverse", time.Hour)

	raw, err := tm.Generate(identity.User{Name: "Alice", Role: identity.RoleLender})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sess, err := tm.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sess.Name != "Alice" || sess.Role != identity.RoleLender {
		t.Fatalf("session = %+v", sess)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, err := NewTokenManager("secret-a", "loanverse", time.Hour).
		Generate(identity.User{Name: "Alice", Role: identity.RoleLender})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b", "loanverse", time.Hour).Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	tm := NewTokenManager("secret", "loanverse", -time.Minute)
	raw, err := tm.Generate(identity.User{Name: "Alice", Role: identity.RoleLender})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := tm.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	tm := NewTokenManager("secret", "loanverse", time.Hour)
	if _, err := tm.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
