// Package rpcerr defines brane's typed error taxonomy and the classification
// logic that turns a raw JSON-RPC error (or a transport failure) into one of
// a small set of well-known kinds. Upstack code branches on Kind rather than
// string-matching messages a second time; classification happens once, at
// the edge where the JSON-RPC error is first decoded.
package rpcerr

import (
	"fmt"
	"strings"
)

// Kind identifies which member of the error sum a given Error instance is.
type Kind int

const (
	KindRPC Kind = iota
	KindTransport
	KindChainMismatch
	KindInvalidArgument
	KindIllegalState
	KindUnsupported
	KindAbiDecoding
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindRPC:
		return "RPC"
	case KindTransport:
		return "Transport"
	case KindChainMismatch:
		return "ChainMismatch"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindIllegalState:
		return "IllegalState"
	case KindUnsupported:
		return "Unsupported"
	case KindAbiDecoding:
		return "AbiDecoding"
	case KindTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Classification is the stable machine-readable tag attached to RPC-kind
// errors, inferred from the node's message and code.
type Classification int

const (
	ClassGeneric Classification = iota
	ClassBlockRangeTooLarge
	ClassFilterNotFound
	ClassInvalidSender
	ClassNonceTooLow
	ClassInsufficientFunds
	ClassAlreadyKnown
	ClassReverted
)

func (c Classification) String() string {
	switch c {
	case ClassBlockRangeTooLarge:
		return "BlockRangeTooLarge"
	case ClassFilterNotFound:
		return "FilterNotFound"
	case ClassInvalidSender:
		return "InvalidSender"
	case ClassNonceTooLow:
		return "NonceTooLow"
	case ClassInsufficientFunds:
		return "InsufficientFunds"
	case ClassAlreadyKnown:
		return "AlreadyKnown"
	case ClassReverted:
		return "Reverted"
	default:
		return "Generic"
	}
}

// Error is brane's single typed error type. Which fields are meaningful
// depends on Kind — this mirrors a sum type in languages that have one,
// without resorting to a type hierarchy of distinct Go error types that
// callers would have to type-switch across.
type Error struct {
	Kind Kind

	// RPC fields.
	Code           int
	Message        string
	Data           string
	Classification Classification
	DecodedReason  string // set when Classification == ClassReverted and the message carries text after "execution reverted:"

	// Transport fields.
	HTTPStatus int
	Cause      error

	// ChainMismatch fields.
	ExpectedChainID uint64
	ActualChainID   uint64

	// InvalidArgument / IllegalState / Unsupported fields.
	What string

	// Timeout fields.
	Operation string
	ElapsedMs int64

	// Op names the brane operation that produced the error, e.g.
	// "wallet.SendTransaction" or "PublicClient.GetBalance".
	Op string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRPC:
		base := fmt.Sprintf("%s: rpc error", e.opOrDefault())
		if e.Code != 0 || e.Message != "" {
			base += fmt.Sprintf(" (code=%d, message=%q)", e.Code, e.Message)
		}
		if e.Classification != ClassGeneric {
			base += fmt.Sprintf(" [%s]", e.Classification)
		}
		return base
	case KindTransport:
		base := fmt.Sprintf("%s: transport error (code=-32001)", e.opOrDefault())
		if e.HTTPStatus != 0 {
			base += fmt.Sprintf(", http_status=%d", e.HTTPStatus)
		}
		if e.Cause != nil {
			base += fmt.Sprintf(": %v", e.Cause)
		}
		return base
	case KindChainMismatch:
		return fmt.Sprintf("%s: chain id mismatch (expected=%d, actual=%d)", e.opOrDefault(), e.ExpectedChainID, e.ActualChainID)
	case KindInvalidArgument:
		return fmt.Sprintf("%s: invalid argument: %s", e.opOrDefault(), e.What)
	case KindIllegalState:
		return fmt.Sprintf("%s: illegal state: %s", e.opOrDefault(), e.What)
	case KindUnsupported:
		return fmt.Sprintf("%s: unsupported: %s", e.opOrDefault(), e.What)
	case KindAbiDecoding:
		return fmt.Sprintf("%s: abi decoding error: %s", e.opOrDefault(), e.What)
	case KindTimeout:
		return fmt.Sprintf("%s: timed out after %dms", e.Operation, e.ElapsedMs)
	default:
		return fmt.Sprintf("%s: unknown error", e.opOrDefault())
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) opOrDefault() string {
	if e.Op == "" {
		return "brane"
	}
	return e.Op
}

// Is reports whether target is a *Error of the same Kind, so
// errors.Is(err, &rpcerr.Error{Kind: rpcerr.KindTimeout}) matches by kind.
// Callers can equally use errors.As and compare Kind directly.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// NewRPC constructs a classified RPC error from a node-reported code/message.
func NewRPC(op string, code int, message string, data string) *Error {
	e := &Error{Kind: KindRPC, Op: op, Code: code, Message: message, Data: data}
	e.Classification, e.DecodedReason = classify(message)
	return e
}

// TransportErrorCode is the JSON-RPC code every transport-layer failure
// carries: malformed responses, non-2xx statuses, and I/O faults alike.
const TransportErrorCode = -32001

// NewTransport constructs a transport-layer error (code -32001).
func NewTransport(op string, httpStatus int, cause error) *Error {
	return &Error{Kind: KindTransport, Op: op, Code: TransportErrorCode, HTTPStatus: httpStatus, Cause: cause}
}

// NewChainMismatch constructs a wallet chain-id guard failure.
func NewChainMismatch(op string, expected, actual uint64) *Error {
	return &Error{Kind: KindChainMismatch, Op: op, ExpectedChainID: expected, ActualChainID: actual}
}

// NewInvalidArgument constructs a caller-input validation failure.
func NewInvalidArgument(op, what string) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, What: what}
}

// NewIllegalState constructs a lifecycle/ordering violation failure.
func NewIllegalState(op, what string) *Error {
	return &Error{Kind: KindIllegalState, Op: op, What: what}
}

// NewUnsupported constructs a backend-capability failure; What should name
// the backend that would support the operation.
func NewUnsupported(op, what string) *Error {
	return &Error{Kind: KindUnsupported, Op: op, What: what}
}

// NewAbiDecoding constructs an ABI decode failure.
func NewAbiDecoding(op, what string) *Error {
	return &Error{Kind: KindAbiDecoding, Op: op, What: what}
}

// NewTimeout constructs a deadline-exceeded failure.
func NewTimeout(operation string, elapsedMs int64) *Error {
	return &Error{Kind: KindTimeout, Operation: operation, ElapsedMs: elapsedMs}
}

// classify inspects a JSON-RPC error message for known substrings and
// returns the matching Classification. Matching is case-insensitive
// substring search.
func classify(message string) (Classification, string) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "block range is too large"):
		return ClassBlockRangeTooLarge, ""
	case strings.Contains(lower, "filter not found"):
		return ClassFilterNotFound, ""
	case strings.Contains(lower, "invalid sender"):
		return ClassInvalidSender, ""
	case strings.Contains(lower, "nonce too low"):
		return ClassNonceTooLow, ""
	case strings.Contains(lower, "insufficient funds"):
		return ClassInsufficientFunds, ""
	case strings.Contains(lower, "already known"):
		return ClassAlreadyKnown, ""
	case strings.Contains(lower, "execution reverted"):
		return ClassReverted, extractRevertReason(message)
	default:
		return ClassGeneric, ""
	}
}

// extractRevertReason returns the trimmed text following
// "execution reverted:" in a message such as
// `execution reverted: Unauthorized`, or "" when that marker is absent.
func extractRevertReason(message string) string {
	const marker = "execution reverted:"
	idx := strings.Index(strings.ToLower(message), marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(message[idx+len(marker):])
}
