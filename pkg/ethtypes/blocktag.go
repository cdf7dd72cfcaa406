package ethtypes

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockTag is a symbolic or numeric block reference: "latest", "pending",
// "earliest", "safe", "finalized", or a specific block number.
type BlockTag struct {
	tag string // one of the symbolic names, or "" when Number is set
	num uint64
	set bool
}

// Latest, Pending, Earliest, Safe and Finalized are the symbolic block tags.
var (
	Latest    = BlockTag{tag: "latest"}
	Pending   = BlockTag{tag: "pending"}
	Earliest  = BlockTag{tag: "earliest"}
	Safe      = BlockTag{tag: "safe"}
	Finalized = BlockTag{tag: "finalized"}
)

// BlockNumber builds a BlockTag referring to a specific height.
func BlockNumber(n uint64) BlockTag { return BlockTag{num: n, set: true} }

// String renders the wire form: the symbolic name, or minimal hex.
func (t BlockTag) String() string {
	if t.set {
		return HexUint64(t.num)
	}
	if t.tag == "" {
		return "latest"
	}
	return t.tag
}

// ParseBlockTag accepts either a known symbolic tag or a 0x-prefixed hex
// block number.
func ParseBlockTag(s string) (BlockTag, error) {
	switch strings.ToLower(s) {
	case "latest":
		return Latest, nil
	case "pending":
		return Pending, nil
	case "earliest":
		return Earliest, nil
	case "safe":
		return Safe, nil
	case "finalized":
		return Finalized, nil
	}
	if len(s) <= 2 || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return BlockTag{}, fmt.Errorf("ethtypes: %q is not a valid block tag: want a symbolic tag or 0x-prefixed hex number", s)
	}
	n, err := ParseHexUint64(s)
	if err != nil {
		return BlockTag{}, fmt.Errorf("ethtypes: %q is not a valid block tag: %w", s, err)
	}
	return BlockNumber(n), nil
}

// HexUint64 renders a uint64 as minimal lowercase hex.
func HexUint64(n uint64) string { return fmt.Sprintf("0x%x", n) }

// ParseHexUint64 parses a 0x-prefixed (or bare) hex string into a uint64.
func ParseHexUint64(s string) (uint64, error) {
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(body, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("ethtypes: %q is not a valid hex uint64: %w", s, err)
	}
	return n, nil
}
