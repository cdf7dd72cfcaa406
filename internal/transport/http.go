package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/noise-xyz/brane/internal/jsonrpc"
	"github.com/noise-xyz/brane/internal/logging"
	"github.com/noise-xyz/brane/internal/rpcerr"
)

// HTTPProvider speaks one JSON-RPC call per HTTP POST, synchronously:
// from the caller's perspective there is one in-flight request at a time
// per instance.
type HTTPProvider struct {
	name   string
	url    string
	client *http.Client
	ids    jsonrpc.IDAllocator
}

// NewHTTPProvider constructs an HTTP transport bound to a single endpoint.
func NewHTTPProvider(name, url string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Send implements Provider.
func (p *HTTPProvider) Send(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	id := p.ids.Next()
	req := jsonrpc.BuildRequest(method, params, id)

	logging.TraceRPC(p.name, method, req.Params)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, rpcerr.NewTransport("HTTPProvider.Send", 0, fmt.Errorf("encoding request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, rpcerr.NewTransport("HTTPProvider.Send", 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		logging.TraceResult(p.name, method, err)
		return nil, rpcerr.NewTransport("HTTPProvider.Send", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logging.TraceResult(p.name, method, err)
		return nil, rpcerr.NewTransport("HTTPProvider.Send", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := rpcerr.NewTransport("HTTPProvider.Send", resp.StatusCode, fmt.Errorf("non-2xx status: %s", resp.Status))
		logging.TraceResult(p.name, method, rerr)
		return nil, rerr
	}

	result, err := jsonrpc.DecodeResponse("HTTPProvider.Send", respBody)
	logging.TraceResult(p.name, method, err)
	return result, err
}

// Close is a no-op for HTTP — there is no persistent connection to tear
// down beyond what the stdlib transport pool already manages.
func (p *HTTPProvider) Close() error { return nil }

// Name returns the configured provider name, used by diagnostics fan-out.
func (p *HTTPProvider) Name() string { return p.name }
