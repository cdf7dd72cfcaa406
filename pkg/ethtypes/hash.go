package ethtypes

import "encoding/json"

// Hash is a 32-byte identifier (block hash, transaction hash, topic, storage
// slot) in canonical lowercase 0x-prefixed 64-hex-digit form.
type Hash struct {
	canonical string
}

// ZeroHash is the all-zero 32-byte hash.
var ZeroHash = Hash{canonical: "0x" + zeros(64)}

// NewHash validates and canonicalizes a 0x-prefixed 64-hex-digit string.
func NewHash(s string) (Hash, error) {
	canon, err := decodeFixed(s, 32, "hash")
	if err != nil {
		return Hash{}, err
	}
	return Hash{canonical: canon}, nil
}

// MustHash panics on invalid input; reserved for constants and tests.
func MustHash(s string) Hash {
	h, err := NewHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// String returns the canonical lowercase 0x-prefixed form.
func (h Hash) String() string { return h.canonical }

// IsZero reports whether this is the all-zero hash.
func (h Hash) IsZero() bool { return h == ZeroHash }

// Equals compares two hashes for value equality.
func (h Hash) Equals(other Hash) bool { return h.canonical == other.canonical }

// MarshalJSON emits the canonical lowercase form.
func (h Hash) MarshalJSON() ([]byte, error) { return json.Marshal(h.canonical) }

// UnmarshalJSON accepts any casing and canonicalizes it.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	hash, err := NewHash(s)
	if err != nil {
		return err
	}
	*h = hash
	return nil
}
