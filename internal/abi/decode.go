package abi

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func readWord(data []byte, offset int) ([]byte, error) {
	if offset < 0 || offset+wordSize > len(data) {
		return nil, fmt.Errorf("abi: word read out of bounds at offset %d (len %d)", offset, len(data))
	}
	return data[offset : offset+wordSize], nil
}

func readUintAt(data []byte, offset int) (uint64, error) {
	w, err := readWord(data, offset)
	if err != nil {
		return 0, err
	}
	v := new(big.Int).SetBytes(w)
	if !v.IsUint64() {
		return 0, fmt.Errorf("abi: value at offset %d overflows uint64", offset)
	}
	return v.Uint64(), nil
}

func readDynamicAt(data []byte, offset int) ([]byte, error) {
	length, err := readUintAt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("reading dynamic length: %w", err)
	}
	start := offset + wordSize
	if start+int(length) > len(data) {
		return nil, fmt.Errorf("abi: dynamic data out of bounds (start=%d, len=%d, data=%d)", start, length, len(data))
	}
	return data[start : start+int(length)], nil
}

// DecodeUint256 decodes a single right-aligned 32-byte word as an unsigned
// integer.
func DecodeUint256(data []byte) (*big.Int, error) {
	if len(data) < wordSize {
		return nil, fmt.Errorf("abi: expected at least %d bytes for uint256, got %d", wordSize, len(data))
	}
	return new(big.Int).SetBytes(data[:wordSize]), nil
}

// DecodeAddress decodes a single word as a 20-byte address.
func DecodeAddress(data []byte) (ethtypes.Address, error) {
	if len(data) < wordSize {
		return ethtypes.Address{}, fmt.Errorf("abi: expected at least %d bytes for address, got %d", wordSize, len(data))
	}
	raw := data[wordSize-20 : wordSize]
	return ethtypes.NewAddress("0x" + hexEncode(raw))
}

// DecodeBool decodes a single word as a boolean (nonzero == true).
func DecodeBool(data []byte) (bool, error) {
	if len(data) < wordSize {
		return false, fmt.Errorf("abi: expected at least %d bytes for bool, got %d", wordSize, len(data))
	}
	for _, b := range data[:wordSize] {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}

// DecodeString decodes the single dynamic-string return value of a
// function whose entire output is that one string (e.g. symbol()): an
// offset word, then the length-prefixed payload it points at.
func DecodeString(data []byte) (string, error) {
	b, err := decodeSingleDynamic(data)
	if err != nil {
		return "", fmt.Errorf("abi: decoding string: %w", err)
	}
	return string(b), nil
}

// DecodeBytes decodes the single dynamic-bytes return value of a function
// whose entire output is that one bytes value.
func DecodeBytes(data []byte) ([]byte, error) {
	return decodeSingleDynamic(data)
}

func decodeSingleDynamic(data []byte) ([]byte, error) {
	offset, err := readUintAt(data, 0)
	if err != nil {
		return nil, fmt.Errorf("reading head offset: %w", err)
	}
	return readDynamicAt(data, int(offset))
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0x0f]
	}
	return string(out)
}

// Result3 mirrors the Multicall3 aggregate3 output tuple
// (bool success, bytes returnData).
type Result3 struct {
	Success    bool
	ReturnData []byte
}

// DecodeAggregate3Result decodes the (bool,bytes)[] array returned by
// aggregate3. An empty returnData ("0x") is rejected: the aggregator is
// either not deployed at the configured address or returned nothing,
// neither of which yields a usable per-call result.
func DecodeAggregate3Result(data []byte) ([]Result3, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("abi: aggregate3 returned empty data (aggregator not deployed or empty result)")
	}

	arrayOffset, err := readUintAt(data, 0)
	if err != nil {
		return nil, fmt.Errorf("abi: reading outer array offset: %w", err)
	}
	n, err := readUintAt(data, int(arrayOffset))
	if err != nil {
		return nil, fmt.Errorf("abi: reading array length: %w", err)
	}

	arrayDataStart := int(arrayOffset) + wordSize
	results := make([]Result3, 0, n)
	for i := uint64(0); i < n; i++ {
		tupleOffsetWord, err := readUintAt(data, arrayDataStart+int(i)*wordSize)
		if err != nil {
			return nil, fmt.Errorf("abi: reading tuple %d offset: %w", i, err)
		}
		tupleStart := arrayDataStart + int(tupleOffsetWord)

		success, err := DecodeBool(data[tupleStart:])
		if err != nil {
			return nil, fmt.Errorf("abi: decoding tuple %d success: %w", i, err)
		}
		returnDataOffset, err := readUintAt(data, tupleStart+wordSize)
		if err != nil {
			return nil, fmt.Errorf("abi: reading tuple %d returnData offset: %w", i, err)
		}
		returnData, err := readDynamicAt(data, tupleStart+int(returnDataOffset))
		if err != nil {
			return nil, fmt.Errorf("abi: decoding tuple %d returnData: %w", i, err)
		}
		results = append(results, Result3{Success: success, ReturnData: returnData})
	}
	return results, nil
}

// DecodeRevertReason decodes the standard Error(string) revert encoding
// (selector 0x08c379a0 + ABI-encoded string), returning ok=false when
// returnData does not carry that selector.
func DecodeRevertReason(returnData []byte) (reason string, ok bool) {
	if len(returnData) < 4 || !bytes.Equal(returnData[:4], ErrorSelector[:]) {
		return "", false
	}
	s, err := DecodeString(returnData[4:])
	if err != nil {
		return "", false
	}
	return s, true
}
