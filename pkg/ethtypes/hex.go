// Package ethtypes provides the primitive value types shared across brane:
// Address, Hash, HexData and Wei. Every other package builds on these.
//
// All four types are immutable once constructed; equality and canonical
// string form are defined here so the rest of the module never has to
// special-case hex casing or leading zeros again.
package ethtypes

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// normalizeHex lower-cases a 0x-prefixed string and validates that the
// remainder is an even number of hex digits. It does not enforce a length.
func normalizeHex(s string) (string, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", fmt.Errorf("ethtypes: value %q is not 0x-prefixed", s)
	}
	body := strings.ToLower(s[2:])
	if len(body)%2 != 0 {
		return "", fmt.Errorf("ethtypes: value %q has an odd digit count", s)
	}
	if body != "" {
		if _, err := hex.DecodeString(body); err != nil {
			return "", fmt.Errorf("ethtypes: value %q is not valid hex: %w", s, err)
		}
	}
	return "0x" + body, nil
}

func decodeFixed(s string, nBytes int, kind string) (string, error) {
	canon, err := normalizeHex(s)
	if err != nil {
		return "", fmt.Errorf("ethtypes: invalid %s: %w", kind, err)
	}
	if len(canon)-2 != nBytes*2 {
		return "", fmt.Errorf("ethtypes: %s %q must be exactly %d bytes, got %d", kind, s, nBytes, (len(canon)-2)/2)
	}
	return canon, nil
}
