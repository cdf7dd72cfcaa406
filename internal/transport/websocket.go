package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/noise-xyz/brane/internal/jsonrpc"
	"github.com/noise-xyz/brane/internal/logging"
	"github.com/noise-xyz/brane/internal/rpcerr"
)

// inboundFrame is the shape the dispatcher peeks at to decide whether a
// frame is a call response (has "id") or a subscription notification
// (method == "eth_subscription").
type inboundFrame struct {
	ID     *uint64         `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
	Method string `json:"method"`
	Params *struct {
		Subscription string          `json:"subscription"`
		Result       json.RawMessage `json:"result"`
	} `json:"params"`
}

type waiter struct {
	resultCh chan json.RawMessage
	errCh    chan error
}

// WSProvider is a single long-lived bidirectional WebSocket connection,
// multiplexing call/response correlation and subscription dispatch over
// one socket.
type WSProvider struct {
	name string
	conn *websocket.Conn
	ids  jsonrpc.IDAllocator

	mu       sync.Mutex
	waiters  map[uint64]waiter
	subs     map[string]SubscriptionCallback
	queues   map[string]chan json.RawMessage
	closed   bool
	closeErr error

	done chan struct{}
}

// ValidateWebSocketURL checks that the scheme is ws or wss
// (case-insensitive) and the host is non-empty.
func ValidateWebSocketURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return rpcerr.NewInvalidArgument("WSProvider.Dial", fmt.Sprintf("malformed URL %q: %v", raw, err))
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "ws" && scheme != "wss" {
		return rpcerr.NewInvalidArgument("WSProvider.Dial", fmt.Sprintf("scheme %q is not ws or wss", u.Scheme))
	}
	if u.Host == "" {
		return rpcerr.NewInvalidArgument("WSProvider.Dial", "host is empty")
	}
	return nil
}

// DialWebSocket validates the URL and opens the connection, starting the
// single dispatcher goroutine that reads frames and routes them.
func DialWebSocket(ctx context.Context, name, rawURL string) (*WSProvider, error) {
	if err := ValidateWebSocketURL(rawURL); err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, rpcerr.NewTransport("WSProvider.Dial", 0, err)
	}
	p := &WSProvider{
		name:    name,
		conn:    conn,
		waiters: make(map[uint64]waiter),
		subs:    make(map[string]SubscriptionCallback),
		queues:  make(map[string]chan json.RawMessage),
		done:    make(chan struct{}),
	}
	go p.readLoop()
	return p, nil
}

// Send implements Provider: correlate by request id via the waiter table.
func (p *WSProvider) Send(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	start := time.Now()
	id := p.ids.Next()
	req := jsonrpc.BuildRequest(method, params, id)

	w := waiter{resultCh: make(chan json.RawMessage, 1), errCh: make(chan error, 1)}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, rpcerr.NewTransport("WSProvider.Send", 0, p.closeErr)
	}
	p.waiters[id] = w
	p.mu.Unlock()

	logging.TraceRPC(p.name, method, req.Params)

	body, err := json.Marshal(req)
	if err != nil {
		p.removeWaiter(id)
		return nil, rpcerr.NewTransport("WSProvider.Send", 0, err)
	}

	if err := p.conn.WriteMessage(websocket.TextMessage, body); err != nil {
		p.removeWaiter(id)
		rerr := rpcerr.NewTransport("WSProvider.Send", 0, err)
		logging.TraceResult(p.name, method, rerr)
		return nil, rerr
	}

	select {
	case <-ctx.Done():
		p.removeWaiter(id)
		return nil, rpcerr.NewTimeout("WSProvider.Send", time.Since(start).Milliseconds())
	case err := <-w.errCh:
		logging.TraceResult(p.name, method, err)
		return nil, err
	case result := <-w.resultCh:
		logging.TraceResult(p.name, method, nil)
		return result, nil
	case <-p.done:
		return nil, rpcerr.NewTransport("WSProvider.Send", 0, p.closeErr)
	}
}

// Subscribe registers a callback invoked, in order and one at a time, for
// every notification on the returned subscription.
func (p *WSProvider) Subscribe(ctx context.Context, method string, params []interface{}, cb SubscriptionCallback) (Subscription, error) {
	result, err := p.Send(ctx, "eth_subscribe", prependMethod(method, params))
	if err != nil {
		return nil, err
	}
	var subID string
	if err := json.Unmarshal(result, &subID); err != nil {
		return nil, rpcerr.NewAbiDecoding("WSProvider.Subscribe", "subscription id was not a string")
	}

	queue := make(chan json.RawMessage, 64)
	p.mu.Lock()
	p.subs[subID] = cb
	p.queues[subID] = queue
	p.mu.Unlock()

	go p.dispatchLoop(subID, queue)

	return &wsSubscription{provider: p, id: subID}, nil
}

func prependMethod(kind string, params []interface{}) []interface{} {
	out := make([]interface{}, 0, 1+len(params))
	out = append(out, kind)
	out = append(out, params...)
	return out
}

// dispatchLoop is the single-consumer task per subscription: it pulls
// from the per-subscription queue and invokes the callback, never from
// the read loop itself, guaranteeing in-order, non-concurrent delivery
// for that subscription.
func (p *WSProvider) dispatchLoop(subID string, queue chan json.RawMessage) {
	for payload := range queue {
		p.mu.Lock()
		cb := p.subs[subID]
		p.mu.Unlock()
		if cb != nil {
			cb(payload)
		}
	}
}

func (p *WSProvider) unsubscribe(ctx context.Context, subID string) error {
	p.mu.Lock()
	queue, ok := p.queues[subID]
	delete(p.subs, subID)
	delete(p.queues, subID)
	p.mu.Unlock()
	if ok {
		close(queue)
	}
	_, err := p.Send(ctx, "eth_unsubscribe", []interface{}{subID})
	return err
}

// readLoop is the transport's single reader: every inbound frame is
// demultiplexed to a call waiter or a subscription queue.
func (p *WSProvider) readLoop() {
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			p.invalidateAll(err)
			return
		}

		var frame inboundFrame
		if jsonErr := json.Unmarshal(data, &frame); jsonErr != nil {
			continue
		}

		if frame.Method == "eth_subscription" && frame.Params != nil {
			p.mu.Lock()
			queue, ok := p.queues[frame.Params.Subscription]
			p.mu.Unlock()
			if ok {
				select {
				case queue <- frame.Params.Result:
				default:
				}
			}
			continue
		}

		if frame.ID == nil {
			continue
		}
		p.mu.Lock()
		w, ok := p.waiters[*frame.ID]
		delete(p.waiters, *frame.ID)
		p.mu.Unlock()
		if !ok {
			continue
		}
		if frame.Error != nil {
			w.errCh <- rpcerr.NewRPC("WSProvider.readLoop", frame.Error.Code, frame.Error.Message, string(frame.Error.Data))
			continue
		}
		w.resultCh <- frame.Result
	}
}

// invalidateAll handles a dropped transport: every outstanding waiter
// fails and every subscription is invalidated rather than silently
// re-subscribed.
func (p *WSProvider) invalidateAll(cause error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.closeErr = cause
	for _, w := range p.waiters {
		w.errCh <- rpcerr.NewTransport("WSProvider", 0, cause)
	}
	p.waiters = nil
	for _, q := range p.queues {
		close(q)
	}
	p.subs = nil
	p.queues = nil
	close(p.done)
}

// Close shuts down the socket and invalidates outstanding state. Idempotent.
func (p *WSProvider) Close() error {
	p.mu.Lock()
	alreadyClosed := p.closed
	p.mu.Unlock()
	if alreadyClosed {
		return nil
	}
	err := p.conn.Close()
	p.invalidateAll(fmt.Errorf("provider closed"))
	return err
}

func (p *WSProvider) removeWaiter(id uint64) {
	p.mu.Lock()
	delete(p.waiters, id)
	p.mu.Unlock()
}

type wsSubscription struct {
	provider *WSProvider
	id       string
	closed   bool
	mu       sync.Mutex
}

func (s *wsSubscription) ID() string { return s.id }

func (s *wsSubscription) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.provider.unsubscribe(ctx, s.id)
}
