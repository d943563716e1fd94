package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCharacterID(t *testing.T) {
	id := CharacterID()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("CharacterID() = %q, not a valid UUID: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("CharacterID() version = %d, want 4", parsed.Version())
	}

	if CharacterID() == id {
		t.Fatal("two CharacterID() calls returned the same value")
	}
}

func TestKeySuffix(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 20; i++ {
		suffix, err := KeySuffix()
		if err != nil {
			t.Fatalf("KeySuffix() error: %v", err)
		}
		if len(suffix) != KeySuffixLength {
			t.Fatalf("KeySuffix() length = %d, want %d", len(suffix), KeySuffixLength)
		}
		for _, c := range suffix {
			if !strings.ContainsRune(Base62Chars, c) {
				t.Fatalf("KeySuffix() = %q contains %q outside the Base62 set", suffix, c)
			}
		}
		seen[suffix] = struct{}{}
	}

	if len(seen) < 2 {
		t.Fatal("KeySuffix() produced no variation across calls")
	}
}
