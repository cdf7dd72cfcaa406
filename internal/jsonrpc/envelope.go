// Package jsonrpc implements the JSON-RPC 2.0 envelope brane speaks to
// Ethereum execution-layer nodes: request framing, monotonic id allocation,
// and decoding a raw response into either a result payload or a classified
// error.
package jsonrpc

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/noise-xyz/brane/internal/rpcerr"
)

// Request is the wire shape of a JSON-RPC 2.0 call. Params is an
// already-ordered positional list — the envelope never reorders it.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// rawResponse is the wire shape of a JSON-RPC 2.0 reply, before the
// result/error union is resolved.
type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rawError       `json:"error"`
}

type rawError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// IDAllocator hands out monotonically increasing request ids, one per
// provider instance. Safe for concurrent use.
type IDAllocator struct {
	next uint64
}

// Next returns the next request id, starting at 1.
func (a *IDAllocator) Next() uint64 { return atomic.AddUint64(&a.next, 1) }

// BuildRequest frames a method call as a Request envelope. params is never
// nil in the JSON output — Ethereum nodes expect "params": [] rather than
// "params": null.
func BuildRequest(method string, params []interface{}, id uint64) Request {
	if params == nil {
		params = []interface{}{}
	}
	return Request{JSONRPC: "2.0", Method: method, Params: params, ID: id}
}

// DecodeResponse parses a raw HTTP/WS response body for the given op name
// and returns the result payload, or a typed *rpcerr.Error when the node
// reported an error. A null result with a nil error is returned as-is
// (json literal "null") so callers whose method semantics treat null as
// "absent" (e.g. receipt polling) can detect it.
func DecodeResponse(op string, body []byte) (json.RawMessage, error) {
	var resp rawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, rpcerr.NewTransport(op, 0, fmt.Errorf("malformed JSON-RPC response: %w", err))
	}
	if resp.Error != nil {
		return nil, rpcerr.NewRPC(op, resp.Error.Code, resp.Error.Message, string(resp.Error.Data))
	}
	return resp.Result, nil
}

// IsNullResult reports whether a decoded result payload is the JSON literal
// null or is empty (the response carried no result field); both count as
// a null result.
func IsNullResult(result json.RawMessage) bool {
	trimmed := trimSpace(result)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func trimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
