package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/noise-xyz/brane/internal/rpcerr"
)

// ScriptedCall is one entry in a FakeProvider's response queue: the method
// it expects next, and either the raw result to return or an error.
type ScriptedCall struct {
	Method string
	Result json.RawMessage
	Err    error
}

// RecordedCall captures one observed Send invocation for test assertions.
type RecordedCall struct {
	Method string
	Params []interface{}
}

// FakeProvider is an in-process Provider double: programmed with a queue
// of scripted responses keyed by expected method, recording every call it
// observes.
type FakeProvider struct {
	mu       sync.Mutex
	queue    []ScriptedCall
	recorded []RecordedCall
}

// NewFakeProvider constructs an empty fake; use Script to enqueue responses.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

// Script enqueues a scripted response for the next call to method.
func (f *FakeProvider) Script(method string, result interface{}, err error) *FakeProvider {
	var raw json.RawMessage
	if result != nil {
		raw, _ = json.Marshal(result)
	}
	f.mu.Lock()
	f.queue = append(f.queue, ScriptedCall{Method: method, Result: raw, Err: err})
	f.mu.Unlock()
	return f
}

// Send implements Provider by popping the next scripted call and asserting
// its method matches what was requested.
func (f *FakeProvider) Send(_ context.Context, method string, params []interface{}) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recorded = append(f.recorded, RecordedCall{Method: method, Params: params})

	if len(f.queue) == 0 {
		return nil, rpcerr.NewIllegalState("FakeProvider.Send", fmt.Sprintf("no scripted response for method %q", method))
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	if next.Method != method {
		return nil, rpcerr.NewIllegalState("FakeProvider.Send", fmt.Sprintf("expected call to %q, got %q", next.Method, method))
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return next.Result, nil
}

// Close implements Provider; the fake holds no resources.
func (f *FakeProvider) Close() error { return nil }

// Recorded returns the sequence of calls observed so far.
func (f *FakeProvider) Recorded() []RecordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedCall, len(f.recorded))
	copy(out, f.recorded)
	return out
}
