/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to generate character (persona) ids and fixed-length Base62
suffixes for portrait storage keys.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// KeySuffixLength is the fixed length of the random suffix appended to storage object keys.
	KeySuffixLength = 8
)

// CharacterID generates a standard UUID v4 string to serve as a unique identifier for a character.
func CharacterID() string {
	return uuid.New().String()
}

// KeySuffix generates a Base62 encoded suffix using a cryptographically secure
// random number generator, used to make portrait object keys unguessable.
func KeySuffix() (string, error) {
	result := make([]byte, KeySuffixLength)

	for i := range KeySuffixLength {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for key suffix: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}
