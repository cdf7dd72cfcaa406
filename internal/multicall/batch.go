// Package multicall implements brane's multicall batch engine: a builder
// that accumulates view calls against contract ABIs, encodes and
// dispatches them through the Multicall3 aggregate3 contract in chunks,
// and decodes per-call success/revert results into typed handles.
//
// Rather than a dynamic recording proxy intercepting method calls on a
// user-declared interface, which has no clean Go equivalent without code
// generation, the batch is an explicit builder: Call[T] appends directly
// to the batch and returns a *BatchHandle[T]. Orphaned-call detection is
// structurally unnecessary in this shape, since nothing is recorded until
// Call is actually invoked.
package multicall

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/noise-xyz/brane/internal/abi"
	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

const (
	defaultChunkSize = 100
	maxChunkSize     = 1000
)

// BatchResult is the outcome of one batched call, available once the
// enclosing batch has executed.
type BatchResult[T any] struct {
	Success      bool
	Data         *T
	RevertReason *string
}

// BatchHandle is a typed, pending-then-resolved handle to one call's result
// within a batch. Accessing Result before the batch executes fails.
type BatchHandle[T any] struct {
	resolved bool
	result   BatchResult[T]
}

// Result returns the decoded outcome, or an IllegalState error if the
// enclosing batch has not executed yet.
func (h *BatchHandle[T]) Result() (BatchResult[T], error) {
	if !h.resolved {
		return BatchResult[T]{}, rpcerr.NewIllegalState("BatchHandle.Result", "result accessed before batch execution")
	}
	return h.result, nil
}

type pendingCall struct {
	target   ethtypes.Address
	calldata []byte
	apply    func(success bool, returnData []byte) error
}

// Batch accumulates view calls and dispatches them in one or more
// eth_call(aggregate3) requests. Not safe for concurrent use from
// multiple goroutines: exactly one goroutine may interact with a given
// batch from construction through Execute.
type Batch struct {
	provider   transport.Provider
	aggregator ethtypes.Address
	chunkSize  int

	mu       sync.Mutex
	calls    []pendingCall
	executed bool
}

// NewBatch starts a new batch dispatched through the given aggregator
// contract address, using provider for the eth_call dispatch.
func NewBatch(provider transport.Provider, aggregator ethtypes.Address) *Batch {
	return &Batch{provider: provider, aggregator: aggregator, chunkSize: defaultChunkSize}
}

// SetChunkSize configures how many calls are sent per eth_call; valid range
// is 1..1000.
func (b *Batch) SetChunkSize(n int) error {
	if n < 1 || n > maxChunkSize {
		return rpcerr.NewInvalidArgument("Batch.SetChunkSize", fmt.Sprintf("chunk size %d must be between 1 and %d", n, maxChunkSize))
	}
	b.mu.Lock()
	b.chunkSize = n
	b.mu.Unlock()
	return nil
}

// Call encodes and appends one view-function call against target's ABI
// function fn, returning a handle resolved once Execute runs. Non-view
// functions are rejected.
func Call[T any](b *Batch, target ethtypes.Address, fn abi.Function, args []interface{}, decode func([]byte) (T, error)) (*BatchHandle[T], error) {
	if !fn.IsView() {
		return nil, rpcerr.NewInvalidArgument("Batch.Call", fmt.Sprintf("%s is not a view/pure function", fn.Name))
	}

	types := make([]string, len(fn.Inputs))
	for i, p := range fn.Inputs {
		types[i] = p.Type
	}
	encodedArgs, err := abi.EncodeArgs(types, args)
	if err != nil {
		return nil, rpcerr.NewInvalidArgument("Batch.Call", fmt.Sprintf("encoding args for %s: %v", fn.Name, err))
	}
	selector := fn.Selector()
	calldata := append(append([]byte{}, selector[:]...), encodedArgs...)

	handle := &BatchHandle[T]{}
	pc := pendingCall{
		target:   target,
		calldata: calldata,
		apply: func(success bool, returnData []byte) error {
			if !success {
				reason, ok := abi.DecodeRevertReason(returnData)
				var reasonPtr *string
				if ok {
					reasonPtr = &reason
				}
				handle.result = BatchResult[T]{Success: false, RevertReason: reasonPtr}
				handle.resolved = true
				return nil
			}
			value, err := decode(returnData)
			if err != nil {
				return rpcerr.NewAbiDecoding("Batch.Execute", fmt.Sprintf("decoding result of %s: %v", fn.Name, err))
			}
			handle.result = BatchResult[T]{Success: true, Data: &value}
			handle.resolved = true
			return nil
		},
	}

	b.mu.Lock()
	if b.executed {
		b.mu.Unlock()
		return nil, rpcerr.NewIllegalState("Batch.Call", "batch has already been executed")
	}
	b.calls = append(b.calls, pc)
	b.mu.Unlock()

	return handle, nil
}

// Execute dispatches the accumulated calls in chunks of at most the
// configured chunk size, one eth_call per chunk, resolving every handle in
// order. May be called at most once per batch. An empty batch returns
// immediately without issuing any RPC.
func (b *Batch) Execute(ctx context.Context) error {
	b.mu.Lock()
	if b.executed {
		b.mu.Unlock()
		return rpcerr.NewIllegalState("Batch.Execute", "batch has already been executed")
	}
	b.executed = true
	calls := b.calls
	chunkSize := b.chunkSize
	aggregator := b.aggregator
	b.mu.Unlock()

	if len(calls) == 0 {
		return nil
	}

	for start := 0; start < len(calls); start += chunkSize {
		end := start + chunkSize
		if end > len(calls) {
			end = len(calls)
		}
		chunk := calls[start:end]
		if err := b.executeChunk(ctx, aggregator, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) executeChunk(ctx context.Context, aggregator ethtypes.Address, chunk []pendingCall) error {
	call3s := make([]abi.Call3, len(chunk))
	for i, pc := range chunk {
		call3s[i] = abi.Call3{Target: pc.target, AllowFailure: true, CallData: ethtypes.HexDataFromBytes(pc.calldata)}
	}
	calldata, err := abi.EncodeAggregate3Calldata(call3s)
	if err != nil {
		return rpcerr.NewAbiDecoding("Batch.Execute", fmt.Sprintf("encoding aggregate3 calldata: %v", err))
	}

	callObj := map[string]interface{}{
		"to":   aggregator.String(),
		"data": ethtypes.HexDataFromBytes(calldata).String(),
	}
	raw, err := b.provider.Send(ctx, "eth_call", []interface{}{callObj, "latest"})
	if err != nil {
		return err
	}

	var hexStr string
	if jsonErr := json.Unmarshal(raw, &hexStr); jsonErr != nil {
		return rpcerr.NewAbiDecoding("Batch.Execute", "aggregate3 result was not a hex string")
	}
	responseData, err := ethtypes.NewHexData(hexStr)
	if err != nil {
		return rpcerr.NewAbiDecoding("Batch.Execute", "aggregate3 result was not valid hex")
	}
	if responseData.IsEmpty() {
		return rpcerr.NewAbiDecoding("Batch.Execute", "aggregate3 returned empty data (aggregator not deployed)")
	}

	results, err := abi.DecodeAggregate3Result(responseData.Bytes())
	if err != nil {
		return rpcerr.NewAbiDecoding("Batch.Execute", fmt.Sprintf("decoding aggregate3 result: %v", err))
	}
	if len(results) != len(chunk) {
		return rpcerr.NewAbiDecoding("Batch.Execute", fmt.Sprintf("aggregate3 returned %d results for %d calls", len(results), len(chunk)))
	}

	for i, r := range results {
		if err := chunk[i].apply(r.Success, r.ReturnData); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of calls accumulated so far.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}
