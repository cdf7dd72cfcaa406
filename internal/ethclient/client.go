// Package ethclient implements brane's typed RPC façade, PublicClient:
// one strongly typed wrapper per supported eth_* call, parameter
// building, and result decoding, layered over a transport.Provider.
package ethclient

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/noise-xyz/brane/internal/multicall"
	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

// closedMessage is the exact What text of the IllegalState error methods
// fail with after Close; the error's Error() string prefixes it with the
// operation name.
const closedMessage = "Client is closed"

// PublicClient is brane's typed façade over a single JSON-RPC provider.
type PublicClient struct {
	provider transport.Provider

	mu     sync.RWMutex
	closed bool
}

// New wraps a transport.Provider (HTTP, WebSocket, or fake) in the typed
// façade.
func New(provider transport.Provider) *PublicClient {
	return &PublicClient{provider: provider}
}

func (c *PublicClient) checkOpen(op string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return &rpcerr.Error{Kind: rpcerr.KindIllegalState, Op: op, What: closedMessage}
	}
	return nil
}

// Close is idempotent; after it returns, every method that returns an
// error fails with an IllegalState error whose What is exactly
// "Client is closed" (Error() reads "<op>: illegal state: Client is
// closed"). CreateBatch, which returns no error, does not check the closed
// state: it still returns a batch bound to the closed provider.
func (c *PublicClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.provider.Close()
}

func (c *PublicClient) send(ctx context.Context, op, method string, params ...interface{}) (json.RawMessage, error) {
	if err := c.checkOpen(op); err != nil {
		return nil, err
	}
	return c.provider.Send(ctx, method, params)
}

// GetChainID calls eth_chainId.
func (c *PublicClient) GetChainID(ctx context.Context) (uint64, error) {
	result, err := c.send(ctx, "PublicClient.GetChainID", "eth_chainId")
	if err != nil {
		return 0, err
	}
	return decodeHexUint64("PublicClient.GetChainID", result)
}

// BlockNumber calls eth_blockNumber.
func (c *PublicClient) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := c.send(ctx, "PublicClient.BlockNumber", "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return decodeHexUint64("PublicClient.BlockNumber", result)
}

// GetBalance calls eth_getBalance.
func (c *PublicClient) GetBalance(ctx context.Context, address ethtypes.Address, block ethtypes.BlockTag) (ethtypes.Wei, error) {
	result, err := c.send(ctx, "PublicClient.GetBalance", "eth_getBalance", address.String(), block.String())
	if err != nil {
		return ethtypes.ZeroWei, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return ethtypes.ZeroWei, rpcerr.NewAbiDecoding("PublicClient.GetBalance", "result was not a hex string")
	}
	return ethtypes.NewWeiFromHex(hexStr)
}

// GetBlockByNumber calls eth_getBlockByNumber.
func (c *PublicClient) GetBlockByNumber(ctx context.Context, block ethtypes.BlockTag, fullTx bool) (*Block, error) {
	result, err := c.send(ctx, "PublicClient.GetBlockByNumber", "eth_getBlockByNumber", block.String(), fullTx)
	if err != nil {
		return nil, err
	}
	return decodeBlock(result)
}

// GetLatestBlock is a convenience wrapper for GetBlockByNumber(Latest, false).
func (c *PublicClient) GetLatestBlock(ctx context.Context) (*Block, error) {
	return c.GetBlockByNumber(ctx, ethtypes.Latest, false)
}

// GetTransactionByHash calls eth_getTransactionByHash.
func (c *PublicClient) GetTransactionByHash(ctx context.Context, hash ethtypes.Hash) (*Transaction, error) {
	result, err := c.send(ctx, "PublicClient.GetTransactionByHash", "eth_getTransactionByHash", hash.String())
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, nil
	}
	return decodeTransaction(result)
}

// GetTransactionReceipt calls eth_getTransactionReceipt, returning
// (nil, nil) when the node reports the transaction as not yet mined.
func (c *PublicClient) GetTransactionReceipt(ctx context.Context, hash ethtypes.Hash) (*Receipt, error) {
	result, err := c.send(ctx, "PublicClient.GetTransactionReceipt", "eth_getTransactionReceipt", hash.String())
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, nil
	}
	return decodeReceipt(result)
}

// Call performs a read-only eth_call.
func (c *PublicClient) Call(ctx context.Context, req CallRequest, block ethtypes.BlockTag) (ethtypes.HexData, error) {
	if err := req.Validate(); err != nil {
		return ethtypes.EmptyHexData, err
	}
	params := []interface{}{req.ToMap(), block.String()}
	if len(req.StateOverrides) > 0 {
		overrides := make(map[string]interface{}, len(req.StateOverrides))
		for addr, o := range req.StateOverrides {
			overrides[addr.String()] = o.ToMap()
		}
		params = append(params, overrides)
	}
	result, err := c.send(ctx, "PublicClient.Call", "eth_call", params...)
	if err != nil {
		return ethtypes.EmptyHexData, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return ethtypes.EmptyHexData, rpcerr.NewAbiDecoding("PublicClient.Call", "result was not a hex string")
	}
	return ethtypes.NewHexData(hexStr)
}

// SimulateCall runs eth_call and folds the outcome into a CallResult:
// a revert becomes a Failure carrying the node's message and any raw
// revert payload instead of an error, while non-revert failures still
// propagate. On success the gas cost is filled in via eth_estimateGas;
// an estimate failure leaves it at zero rather than failing the
// simulation.
func (c *PublicClient) SimulateCall(ctx context.Context, req CallRequest, block ethtypes.BlockTag) (CallResult, error) {
	returnData, err := c.Call(ctx, req, block)
	if err != nil {
		var rerr *rpcerr.Error
		if errors.As(err, &rerr) && rerr.Kind == rpcerr.KindRPC && rerr.Classification == rpcerr.ClassReverted {
			return NewCallFailure(0, nil, rerr.Message, revertPayload(rerr.Data)), nil
		}
		return CallResult{}, err
	}
	gasUsed, gasErr := c.EstimateGas(ctx, req)
	if gasErr != nil {
		gasUsed = 0
	}
	return NewCallSuccess(gasUsed, nil, returnData), nil
}

// revertPayload extracts the raw revert bytes a node attaches to the
// error's data field, when present. The field arrives as raw JSON, so a
// bare hex string is still quote-wrapped here.
func revertPayload(data string) *ethtypes.HexData {
	trimmed := strings.Trim(strings.TrimSpace(data), `"`)
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	hd, err := ethtypes.NewHexData(trimmed)
	if err != nil || hd.IsEmpty() {
		return nil
	}
	return &hd
}

// GetLogs calls eth_getLogs.
func (c *PublicClient) GetLogs(ctx context.Context, filter LogFilter) ([]Log, error) {
	result, err := c.send(ctx, "PublicClient.GetLogs", "eth_getLogs", filter.ToMap())
	if err != nil {
		return nil, err
	}
	return decodeLogs(result)
}

// EstimateGas calls eth_estimateGas.
func (c *PublicClient) EstimateGas(ctx context.Context, req CallRequest) (uint64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	result, err := c.send(ctx, "PublicClient.EstimateGas", "eth_estimateGas", req.ToMap())
	if err != nil {
		return 0, err
	}
	return decodeHexUint64("PublicClient.EstimateGas", result)
}

// GetTransactionCount calls eth_getTransactionCount.
func (c *PublicClient) GetTransactionCount(ctx context.Context, address ethtypes.Address, block ethtypes.BlockTag) (uint64, error) {
	result, err := c.send(ctx, "PublicClient.GetTransactionCount", "eth_getTransactionCount", address.String(), block.String())
	if err != nil {
		return 0, err
	}
	return decodeHexUint64("PublicClient.GetTransactionCount", result)
}

// GasPrice calls eth_gasPrice.
func (c *PublicClient) GasPrice(ctx context.Context) (ethtypes.Wei, error) {
	result, err := c.send(ctx, "PublicClient.GasPrice", "eth_gasPrice")
	if err != nil {
		return ethtypes.ZeroWei, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return ethtypes.ZeroWei, rpcerr.NewAbiDecoding("PublicClient.GasPrice", "result was not a hex string")
	}
	return ethtypes.NewWeiFromHex(hexStr)
}

// MaxPriorityFeePerGas calls eth_maxPriorityFeePerGas.
func (c *PublicClient) MaxPriorityFeePerGas(ctx context.Context) (ethtypes.Wei, error) {
	result, err := c.send(ctx, "PublicClient.MaxPriorityFeePerGas", "eth_maxPriorityFeePerGas")
	if err != nil {
		return ethtypes.ZeroWei, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return ethtypes.ZeroWei, rpcerr.NewAbiDecoding("PublicClient.MaxPriorityFeePerGas", "result was not a hex string")
	}
	return ethtypes.NewWeiFromHex(hexStr)
}

// CreateAccessList calls eth_createAccessList.
func (c *PublicClient) CreateAccessList(ctx context.Context, req CallRequest, block ethtypes.BlockTag) ([]AccessListEntry, uint64, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	result, err := c.send(ctx, "PublicClient.CreateAccessList", "eth_createAccessList", req.ToMap(), block.String())
	if err != nil {
		return nil, 0, err
	}
	var wire struct {
		AccessList []struct {
			Address     string   `json:"address"`
			StorageKeys []string `json:"storageKeys"`
		} `json:"accessList"`
		GasUsed string `json:"gasUsed"`
	}
	if err := json.Unmarshal(result, &wire); err != nil {
		return nil, 0, rpcerr.NewAbiDecoding("PublicClient.CreateAccessList", "malformed accessList result")
	}
	out := make([]AccessListEntry, 0, len(wire.AccessList))
	for _, e := range wire.AccessList {
		addr, err := ethtypes.NewAddress(e.Address)
		if err != nil {
			return nil, 0, err
		}
		keys := make([]ethtypes.Hash, 0, len(e.StorageKeys))
		for _, k := range e.StorageKeys {
			h, err := ethtypes.NewHash(k)
			if err != nil {
				return nil, 0, err
			}
			keys = append(keys, h)
		}
		out = append(out, AccessListEntry{Address: addr, StorageKeys: keys})
	}
	gasUsed, _ := ethtypes.ParseHexUint64(wire.GasUsed)
	return out, gasUsed, nil
}

// SendRawTransaction calls eth_sendRawTransaction with a signer-produced
// raw transaction hex string, returning the transaction hash.
func (c *PublicClient) SendRawTransaction(ctx context.Context, rawTxHex string) (ethtypes.Hash, error) {
	result, err := c.send(ctx, "PublicClient.SendRawTransaction", "eth_sendRawTransaction", rawTxHex)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return ethtypes.Hash{}, rpcerr.NewAbiDecoding("PublicClient.SendRawTransaction", "result was not a hex string")
	}
	return ethtypes.NewHash(hexStr)
}

// CreateBatch starts a new multicall batch against the given aggregator
// contract address, using this client's provider for dispatch.
func (c *PublicClient) CreateBatch(aggregatorAddress ethtypes.Address) *multicall.Batch {
	return multicall.NewBatch(c.provider, aggregatorAddress)
}

// SubscribeToNewHeads opens an eth_subscribe("newHeads") subscription. The
// underlying provider must implement transport.Subscriber (the WebSocket
// transport does; HTTP does not).
func (c *PublicClient) SubscribeToNewHeads(ctx context.Context, cb func(*Block)) (transport.Subscription, error) {
	if err := c.checkOpen("PublicClient.SubscribeToNewHeads"); err != nil {
		return nil, err
	}
	sub, ok := c.provider.(transport.Subscriber)
	if !ok {
		return nil, rpcerr.NewUnsupported("PublicClient.SubscribeToNewHeads", "WebSocket transport")
	}
	return sub.Subscribe(ctx, "newHeads", []interface{}{}, func(payload json.RawMessage) {
		block, err := decodeBlock(payload)
		if err == nil {
			cb(block)
		}
	})
}

// SubscribeToLogs opens an eth_subscribe("logs") subscription with the
// given filter.
func (c *PublicClient) SubscribeToLogs(ctx context.Context, filter LogFilter, cb func(Log)) (transport.Subscription, error) {
	if err := c.checkOpen("PublicClient.SubscribeToLogs"); err != nil {
		return nil, err
	}
	sub, ok := c.provider.(transport.Subscriber)
	if !ok {
		return nil, rpcerr.NewUnsupported("PublicClient.SubscribeToLogs", "WebSocket transport")
	}
	return sub.Subscribe(ctx, "logs", []interface{}{filter.ToMap()}, func(payload json.RawMessage) {
		l, err := decodeLogFromPayload(payload)
		if err == nil {
			cb(l)
		}
	})
}

func decodeLogFromPayload(payload json.RawMessage) (Log, error) {
	var w wireLog
	if err := json.Unmarshal(payload, &w); err != nil {
		return Log{}, err
	}
	return decodeLog(w)
}

func decodeHexUint64(op string, result json.RawMessage) (uint64, error) {
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return 0, rpcerr.NewAbiDecoding(op, "result was not a hex string")
	}
	return ethtypes.ParseHexUint64(hexStr)
}

func isNull(result json.RawMessage) bool {
	trimmed := trimSpace(result)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func trimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpaceByte(b[start]) {
		start++
	}
	for end > start && isSpaceByte(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpaceByte(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
