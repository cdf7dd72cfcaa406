package ethtypes

import "encoding/json"

// Address is a 20-byte Ethereum account or contract identifier, held in its
// canonical lowercase 0x-prefixed 40-hex-digit form. Construction from any
// input casing succeeds; two addresses that differ only by case compare
// equal via Equals, and Equals is the only sanctioned equality check — a
// raw struct comparison also works here because the internal string is
// always canonicalized, but callers should prefer Equals for clarity.
type Address struct {
	canonical string
}

// ZeroAddress is the all-zero 20-byte address, often used as a sentinel for
// "no address" in places the wire format represents optionality with null.
var ZeroAddress = Address{canonical: "0x" + zeros(40)}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

// NewAddress validates and canonicalizes a 0x-prefixed 40-hex-digit string.
func NewAddress(s string) (Address, error) {
	canon, err := decodeFixed(s, 20, "address")
	if err != nil {
		return Address{}, err
	}
	return Address{canonical: canon}, nil
}

// MustAddress panics on invalid input; reserved for constants and tests.
func MustAddress(s string) Address {
	a, err := NewAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the canonical lowercase 0x-prefixed form.
func (a Address) String() string { return a.canonical }

// IsZero reports whether this is the all-zero address.
func (a Address) IsZero() bool { return a == ZeroAddress }

// Equals compares two addresses case-insensitively — in practice a plain ==
// suffices since both sides are already canonical, but this makes the
// comparison intent explicit at call sites.
func (a Address) Equals(other Address) bool { return a.canonical == other.canonical }

// MarshalJSON emits the canonical lowercase form.
func (a Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.canonical) }

// UnmarshalJSON accepts any casing and canonicalizes it.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	addr, err := NewAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
