package appointment

import (
	"encoding/hex"
	"testing"
)

func TestNewConfirmationToken(t *testing.T) {
	a := NewConfirmationToken()
	b := NewConfirmationToken()

	if len(a) != 64 {
		t.Fatalf("token length = %d, want 64", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}
	if a == b {
		t.Fatal("two tokens should never collide")
	}
}

func TestTokenPrefix(t *testing.T) {
	tok := "0123456789abcdef"
	if got := TokenPrefix(tok); got != "01234567" {
		t.Fatalf("TokenPrefix = %q", got)
	}
	if got := TokenPrefix("abc"); got != "abc" {
		t.Fatalf("short token prefix = %q", got)
	}
}
