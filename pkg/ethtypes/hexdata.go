package ethtypes

import (
	"encoding/hex"
	"encoding/json"
)

// HexData is an arbitrary-length byte string in 0x-prefixed even-digit-count
// lowercase hex form. The empty value is "0x".
type HexData struct {
	canonical string
}

// EmptyHexData is the canonical empty byte string, "0x".
var EmptyHexData = HexData{canonical: "0x"}

// NewHexData validates and canonicalizes an arbitrary-length hex string.
func NewHexData(s string) (HexData, error) {
	canon, err := normalizeHex(s)
	if err != nil {
		return HexData{}, err
	}
	return HexData{canonical: canon}, nil
}

// HexDataFromBytes encodes raw bytes into canonical HexData form.
func HexDataFromBytes(b []byte) HexData {
	if len(b) == 0 {
		return EmptyHexData
	}
	return HexData{canonical: "0x" + hex.EncodeToString(b)}
}

// MustHexData panics on invalid input; reserved for constants and tests.
func MustHexData(s string) HexData {
	h, err := NewHexData(s)
	if err != nil {
		panic(err)
	}
	return h
}

// String returns the canonical lowercase 0x-prefixed form.
func (h HexData) String() string { return h.canonical }

// Bytes decodes the canonical form back into raw bytes.
func (h HexData) Bytes() []byte {
	if h.canonical == "" || h.canonical == "0x" {
		return nil
	}
	b, _ := hex.DecodeString(h.canonical[2:])
	return b
}

// IsEmpty reports whether this is the zero-length byte string.
func (h HexData) IsEmpty() bool { return h.canonical == "" || h.canonical == "0x" }

// Len returns the number of bytes encoded.
func (h HexData) Len() int { return len(h.Bytes()) }

// HasSelector reports whether the data begins with the given 4-byte selector.
func (h HexData) HasSelector(selector [4]byte) bool {
	b := h.Bytes()
	if len(b) < 4 {
		return false
	}
	return b[0] == selector[0] && b[1] == selector[1] && b[2] == selector[2] && b[3] == selector[3]
}

// MarshalJSON emits the canonical lowercase form.
func (h HexData) MarshalJSON() ([]byte, error) { return json.Marshal(h.canonical) }

// UnmarshalJSON accepts any casing and canonicalizes it.
func (h *HexData) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	hd, err := NewHexData(s)
	if err != nil {
		return err
	}
	*h = hd
	return nil
}
