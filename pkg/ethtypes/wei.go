package ethtypes

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Wei is a non-negative 256-bit integer amount, the smallest unit of
// ether, backed by math/big.Int.
type Wei struct {
	v *big.Int
}

// ZeroWei is the zero amount.
var ZeroWei = Wei{v: big.NewInt(0)}

// NewWeiFromDecimal parses a base-10 non-negative integer string.
func NewWeiFromDecimal(s string) (Wei, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Wei{}, fmt.Errorf("ethtypes: %q is not a valid decimal integer", s)
	}
	if v.Sign() < 0 {
		return Wei{}, fmt.Errorf("ethtypes: wei value %q is negative", s)
	}
	return Wei{v: v}, nil
}

// NewWeiFromHex parses a 0x-prefixed hex non-negative integer, minimal or not.
func NewWeiFromHex(s string) (Wei, error) {
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body == "" {
		return ZeroWei, nil
	}
	v, ok := new(big.Int).SetString(body, 16)
	if !ok {
		return Wei{}, fmt.Errorf("ethtypes: %q is not valid hex", s)
	}
	if v.Sign() < 0 {
		return Wei{}, fmt.Errorf("ethtypes: wei value %q is negative", s)
	}
	return Wei{v: v}, nil
}

// NewWeiFromUint64 wraps a uint64 quantity.
func NewWeiFromUint64(n uint64) Wei { return Wei{v: new(big.Int).SetUint64(n)} }

// NewWeiFromBigInt copies a *big.Int into a Wei, rejecting negative values.
func NewWeiFromBigInt(v *big.Int) (Wei, error) {
	if v == nil {
		return ZeroWei, nil
	}
	if v.Sign() < 0 {
		return Wei{}, fmt.Errorf("ethtypes: wei value %s is negative", v.String())
	}
	return Wei{v: new(big.Int).Set(v)}, nil
}

// Big returns a defensive copy of the underlying big.Int.
func (w Wei) Big() *big.Int {
	if w.v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(w.v)
}

// Decimal renders the value as a base-10 string.
func (w Wei) Decimal() string {
	if w.v == nil {
		return "0"
	}
	return w.v.String()
}

// Hex renders minimal lowercase hex: "0x0" for zero, no leading zeros
// otherwise (e.g. "0x3e8", never "0x03e8").
func (w Wei) Hex() string {
	if w.v == nil || w.v.Sign() == 0 {
		return "0x0"
	}
	return "0x" + w.v.Text(16)
}

// IsZero reports whether the amount is zero.
func (w Wei) IsZero() bool { return w.v == nil || w.v.Sign() == 0 }

// Cmp compares two Wei amounts the way big.Int.Cmp does.
func (w Wei) Cmp(other Wei) int { return w.Big().Cmp(other.Big()) }

// Add returns the sum of two Wei amounts.
func (w Wei) Add(other Wei) Wei { return Wei{v: new(big.Int).Add(w.Big(), other.Big())} }

// Mul returns the product of a Wei amount and a non-negative multiplier.
func (w Wei) Mul(n int64) Wei { return Wei{v: new(big.Int).Mul(w.Big(), big.NewInt(n))} }

// MarshalJSON emits minimal hex, matching the Ethereum JSON-RPC convention.
func (w Wei) MarshalJSON() ([]byte, error) { return json.Marshal(w.Hex()) }

// UnmarshalJSON accepts either a hex or decimal string.
func (w *Wei) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var parsed Wei
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		parsed, err = NewWeiFromHex(s)
	} else {
		parsed, err = NewWeiFromDecimal(s)
	}
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
