// Package abi implements the minimal slice of the Ethereum ABI codec that
// brane's multicall batch needs: function selector computation, a handful
// of static/dynamic type encodings, and decoding of the aggregate3 result
// tuple plus the standard Error(string) revert encoding. It is not a
// general ABI codec; it covers the aggregate3 call shape and the common
// view-function shapes (balanceOf, decimals, symbol) the batch dispatches.
package abi

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrorSelector is the 4-byte selector of the standard Solidity
// Error(string) revert encoding.
var ErrorSelector = [4]byte{0x08, 0xc3, 0x79, 0xa0}

// Param is one function input or output slot in a Solidity ABI JSON
// fragment.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is one entry of a contract's ABI JSON, filtered to
// type == "function".
type Function struct {
	Name            string  `json:"name"`
	Inputs          []Param `json:"inputs"`
	Outputs         []Param `json:"outputs"`
	StateMutability string  `json:"stateMutability"`
	Type            string  `json:"type"`
}

// IsView reports whether the function is read-only (view or pure), the
// only kind the multicall batch accepts.
func (f Function) IsView() bool {
	return f.StateMutability == "view" || f.StateMutability == "pure"
}

// Signature renders the canonical "name(type1,type2)" form used to compute
// the selector.
func (f Function) Signature() string {
	types := make([]string, len(f.Inputs))
	for i, p := range f.Inputs {
		types[i] = p.Type
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(types, ","))
}

// Selector returns this function's 4-byte dispatch selector.
func (f Function) Selector() [4]byte { return FunctionSelector(f.Signature()) }

// ParseABI parses a standard Solidity ABI JSON array and returns the
// function entries indexed by name. Overloaded names are not supported —
// the multicall surface this package serves (aggregate3 and simple view
// calls) never needs them.
func ParseABI(abiJSON string) (map[string]Function, error) {
	var raw []Function
	if err := json.Unmarshal([]byte(abiJSON), &raw); err != nil {
		return nil, fmt.Errorf("abi: invalid ABI JSON: %w", err)
	}
	out := make(map[string]Function)
	for _, fn := range raw {
		if fn.Type != "" && fn.Type != "function" {
			continue
		}
		out[fn.Name] = fn
	}
	return out, nil
}

// FunctionSelector computes the 4-byte selector from a canonical function
// signature, e.g. "balanceOf(address)" -> 0x70a08231.
func FunctionSelector(signature string) [4]byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(signature))
	sum := hasher.Sum(nil)
	var sel [4]byte
	copy(sel[:], sum[:4])
	return sel
}
