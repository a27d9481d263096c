package id

import (
	"regexp"
	"strings"
	"testing"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_ShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID32()
		if !reHex32.MatchString(id) {
			t.Fatalf("bad id shape: %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewInviteToken(t *testing.T) {
	tok := NewInviteToken()
	if !strings.HasPrefix(tok, "inv_") {
		t.Fatalf("missing prefix: %q", tok)
	}
	if len(tok) != len("inv_")+24 {
		t.Fatalf("unexpected token length: %q", tok)
	}
	if tok == NewInviteToken() {
		t.Fatalf("tokens should not repeat")
	}
}
