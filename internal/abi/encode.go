package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/noise-xyz/brane/pkg/ethtypes"
)

const wordSize = 32

// word pads b on the left with zero bytes to a 32-byte ABI word.
func word(b []byte) []byte {
	if len(b) > wordSize {
		b = b[len(b)-wordSize:]
	}
	out := make([]byte, wordSize)
	copy(out[wordSize-len(b):], b)
	return out
}

// dynamicSegment encodes a length-prefixed, right-padded byte string: one
// word holding the length, followed by ceil(len/32) words of data.
func dynamicSegment(data []byte) []byte {
	lenWord := word(new(big.Int).SetUint64(uint64(len(data))).Bytes())
	padded := len(data)
	if r := padded % wordSize; r != 0 {
		padded += wordSize - r
	}
	body := make([]byte, padded)
	copy(body, data)
	return append(lenWord, body...)
}

func encodeAddressWord(a ethtypes.Address) []byte {
	b := ethtypes.MustHexData(a.String()).Bytes()
	return word(b)
}

func encodeBoolWord(v bool) []byte {
	if v {
		return word([]byte{1})
	}
	return word(nil)
}

func encodeUintWord(v *big.Int) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("abi: nil uint value")
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("abi: negative value %s not valid for uint", v.String())
	}
	if v.BitLen() > 256 {
		return nil, fmt.Errorf("abi: value %s overflows uint256", v.String())
	}
	return word(v.Bytes()), nil
}

func isDynamicType(t string) bool {
	return t == "bytes" || t == "string" || strings.HasSuffix(t, "[]")
}

// EncodeArgs ABI-encodes a flat argument list for the scalar/dynamic types
// brane's view-call shapes use: address, bool, uintN/intN (all treated as
// uint256-sized words), bytes32 and other fixed-size words, bytes, and
// string. Arrays beyond the hardcoded aggregate3 shape are not supported.
func EncodeArgs(types []string, args []interface{}) ([]byte, error) {
	if len(types) != len(args) {
		return nil, fmt.Errorf("abi: %d types but %d args", len(types), len(args))
	}
	heads := make([][]byte, len(types))
	var tail []byte
	headLen := len(types) * wordSize

	for i, t := range types {
		if isDynamicType(t) {
			var data []byte
			switch v := args[i].(type) {
			case []byte:
				data = v
			case ethtypes.HexData:
				data = v.Bytes()
			case string:
				data = []byte(v)
			default:
				return nil, fmt.Errorf("abi: arg %d: unsupported dynamic value %T for type %s", i, args[i], t)
			}
			offset := headLen + len(tail)
			heads[i] = word(new(big.Int).SetUint64(uint64(offset)).Bytes())
			tail = append(tail, dynamicSegment(data)...)
			continue
		}

		w, err := encodeStaticWord(t, args[i])
		if err != nil {
			return nil, fmt.Errorf("abi: arg %d: %w", i, err)
		}
		heads[i] = w
	}

	out := make([]byte, 0, headLen+len(tail))
	for _, h := range heads {
		out = append(out, h...)
	}
	return append(out, tail...), nil
}

func encodeStaticWord(t string, v interface{}) ([]byte, error) {
	switch {
	case t == "address":
		addr, ok := v.(ethtypes.Address)
		if !ok {
			return nil, fmt.Errorf("expected ethtypes.Address for type address, got %T", v)
		}
		return encodeAddressWord(addr), nil
	case t == "bool":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool for type bool, got %T", v)
		}
		return encodeBoolWord(b), nil
	case strings.HasPrefix(t, "uint") || strings.HasPrefix(t, "int"):
		bi, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return encodeUintWord(bi)
	case strings.HasPrefix(t, "bytes"):
		b, ok := v.([]byte)
		if !ok {
			if hd, ok2 := v.(ethtypes.HexData); ok2 {
				b = hd.Bytes()
			} else {
				return nil, fmt.Errorf("expected []byte for type %s, got %T", t, v)
			}
		}
		// Fixed-size bytesN values are left-aligned and right-padded.
		out := make([]byte, wordSize)
		copy(out, b)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported static type %q", t)
	}
}

func toBigInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case ethtypes.Wei:
		return n.Big(), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to integer", v)
	}
}

// Call3 mirrors the Multicall3 aggregate3 input tuple
// (address target, bool allowFailure, bytes callData).
type Call3 struct {
	Target       ethtypes.Address
	AllowFailure bool
	CallData     ethtypes.HexData
}

// EncodeAggregate3Calldata builds the full calldata for
// aggregate3((address,bool,bytes)[]) against the given sub-calls: the
// 4-byte selector followed by the head/tail encoding of the single dynamic
// tuple-array parameter. Hardcoded to this one shape rather than a general
// tuple encoder; it is the only aggregate parameter shape the batch sends.
func EncodeAggregate3Calldata(calls []Call3) ([]byte, error) {
	selector := FunctionSelector("aggregate3((address,bool,bytes)[])")

	n := len(calls)
	// Outer parameter is a single dynamic array; its own head is one word
	// (offset 0x20), then array length, then n tuple head words, then tails
	// for any dynamic tuple members (callData is always dynamic here).
	tupleHeadLen := n * wordSize
	var tupleTail []byte
	tupleHeads := make([][]byte, n)
	for i, c := range calls {
		offset := tupleHeadLen + len(tupleTail)
		// Each tuple (address,bool,bytes) is itself dynamic because its
		// third member is dynamic; its own head/tail is nested here.
		innerHead := append(encodeAddressWord(c.Target), encodeBoolWord(c.AllowFailure)...)
		innerHead = append(innerHead, word(new(big.Int).SetUint64(uint64(wordSize*3)).Bytes())...)
		innerTail := dynamicSegment(c.CallData.Bytes())
		tupleEncoded := append(innerHead, innerTail...)
		tupleHeads[i] = word(new(big.Int).SetUint64(uint64(offset)).Bytes())
		tupleTail = append(tupleTail, tupleEncoded...)
	}

	arrayBody := make([]byte, 0, tupleHeadLen+len(tupleTail))
	for _, h := range tupleHeads {
		arrayBody = append(arrayBody, h...)
	}
	arrayBody = append(arrayBody, tupleTail...)

	arraySegment := append(word(new(big.Int).SetUint64(uint64(n)).Bytes()), arrayBody...)

	// Outer parameter offset is always 0x20 (one head word).
	outerHead := word(new(big.Int).SetUint64(wordSize).Bytes())

	calldata := make([]byte, 0, 4+len(outerHead)+len(arraySegment))
	calldata = append(calldata, selector[:]...)
	calldata = append(calldata, outerHead...)
	calldata = append(calldata, arraySegment...)
	return calldata, nil
}
