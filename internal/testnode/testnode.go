// Package testnode implements brane's test-node controller: a thin
// method-dispatch layer over the node-specific RPCs that Anvil, Hardhat,
// and Ganache each expose under their own namespace, plus the
// impersonation-session lifecycle built on top of it.
package testnode

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/gasstrategy"
	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

// Backend identifies which development node is on the other end of the
// provider, since each exposes its node-specific methods under a
// different namespace.
type Backend int

const (
	Anvil Backend = iota
	Hardhat
	Ganache
)

func (b Backend) String() string {
	switch b {
	case Anvil:
		return "ANVIL"
	case Hardhat:
		return "HARDHAT"
	case Ganache:
		return "GANACHE"
	default:
		return "UNKNOWN"
	}
}

// methodTable maps each operation name to its per-backend RPC method
// name. An empty entry means the backend does not support the operation.
var methodTable = map[string][3]string{
	"setNextBlockBaseFee": {"anvil_setNextBlockBaseFeePerGas", "hardhat_setNextBlockBaseFeePerGas", ""},
	"setBlockGasLimit":    {"anvil_setBlockGasLimit", "hardhat_setBlockGasLimit", "evm_setBlockGasLimit"},
	"impersonate":         {"anvil_impersonateAccount", "hardhat_impersonateAccount", "evm_impersonateAccount"},
	"stopImpersonating":   {"anvil_stopImpersonatingAccount", "hardhat_stopImpersonatingAccount", "evm_stopImpersonatingAccount"},
	"autoImpersonate":     {"anvil_autoImpersonateAccount", "", ""},
	"dumpState":           {"anvil_dumpState", "", ""},
	"loadState":           {"anvil_loadState", "", ""},
	"snapshot":            {"evm_snapshot", "evm_snapshot", "evm_snapshot"},
	"revertSnapshot":      {"evm_revert", "evm_revert", "evm_revert"},
}

func (b Backend) methodFor(op string) (string, bool) {
	entry, ok := methodTable[op]
	if !ok {
		return "", false
	}
	method := entry[b]
	return method, method != ""
}

// requiredBackendNames lists, for an unsupported operation, which
// backend(s) do support it, so the unsupported-operation error can name
// them.
func requiredBackendNames(op string) string {
	entry, ok := methodTable[op]
	if !ok {
		return "no backend"
	}
	var names []string
	for b, method := range entry {
		if method != "" {
			names = append(names, Backend(b).String())
		}
	}
	if len(names) == 0 {
		return "no backend"
	}
	return strings.Join(names, " or ")
}

// Controller drives an Anvil/Hardhat/Ganache development node through its
// namespaced, non-standard RPC methods.
type Controller struct {
	provider transport.Provider
	backend  Backend
}

// New constructs a controller bound to a provider and a fixed backend
// kind.
func New(provider transport.Provider, backend Backend) *Controller {
	return &Controller{provider: provider, backend: backend}
}

func (c *Controller) dispatch(ctx context.Context, op string, params ...interface{}) (json.RawMessage, error) {
	method, ok := c.backend.methodFor(op)
	if !ok {
		return nil, rpcerr.NewUnsupported("Controller."+op, "requires "+requiredBackendNames(op))
	}
	return c.provider.Send(ctx, method, params)
}

// SetNextBlockBaseFee pins the base fee the next mined block will use.
func (c *Controller) SetNextBlockBaseFee(ctx context.Context, baseFee ethtypes.Wei) error {
	_, err := c.dispatch(ctx, "setNextBlockBaseFee", baseFee.Hex())
	return err
}

// SetBlockGasLimit sets the node's per-block gas limit.
func (c *Controller) SetBlockGasLimit(ctx context.Context, gasLimit uint64) error {
	_, err := c.dispatch(ctx, "setBlockGasLimit", ethtypes.HexUint64(gasLimit))
	return err
}

// SetAutoImpersonate enables or disables automatic impersonation of any
// `from` address a submitted transaction names (Anvil-only).
func (c *Controller) SetAutoImpersonate(ctx context.Context, enabled bool) error {
	_, err := c.dispatch(ctx, "autoImpersonate", enabled)
	return err
}

// DumpState serializes the node's full chain state (Anvil-only); a null
// result with no RPC error is itself an error.
func (c *Controller) DumpState(ctx context.Context) (ethtypes.HexData, error) {
	result, err := c.dispatch(ctx, "dumpState")
	if err != nil {
		return ethtypes.EmptyHexData, err
	}
	if isNullResult(result) {
		return ethtypes.EmptyHexData, rpcerr.NewIllegalState("Controller.DumpState", "node returned null with no error")
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return ethtypes.EmptyHexData, rpcerr.NewAbiDecoding("Controller.DumpState", "result was not a hex string")
	}
	return ethtypes.NewHexData(hexStr)
}

// LoadState restores previously dumped state (Anvil-only). It never
// returns an error: null results and RPC failures both resolve to false
// rather than propagating.
func (c *Controller) LoadState(ctx context.Context, state ethtypes.HexData) bool {
	result, err := c.dispatch(ctx, "loadState", state.String())
	if err != nil {
		return false
	}
	if isNullResult(result) {
		return false
	}
	var ok bool
	if err := json.Unmarshal(result, &ok); err != nil {
		return false
	}
	return ok
}

// SnapshotID is an opaque test-node snapshot identifier: a 0x-prefixed
// hex string as the node hands it out (evm_snapshot returns counters like
// "0x1", so the digit count is not constrained). Equality is by value.
type SnapshotID struct {
	id string
}

// NewSnapshotID validates a node-issued snapshot identifier.
func NewSnapshotID(s string) (SnapshotID, error) {
	if !strings.HasPrefix(s, "0x") || len(s) == 2 {
		return SnapshotID{}, rpcerr.NewInvalidArgument("NewSnapshotID", "snapshot id "+s+" must be 0x-prefixed hex")
	}
	for _, c := range s[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return SnapshotID{}, rpcerr.NewInvalidArgument("NewSnapshotID", "snapshot id "+s+" contains non-hex characters")
		}
	}
	return SnapshotID{id: s}, nil
}

// String returns the identifier as the node issued it.
func (s SnapshotID) String() string { return s.id }

// Equals compares two snapshot identifiers by value.
func (s SnapshotID) Equals(other SnapshotID) bool { return s.id == other.id }

// Snapshot checkpoints the node's full chain state, returning the id to
// revert to later.
func (c *Controller) Snapshot(ctx context.Context) (SnapshotID, error) {
	result, err := c.dispatch(ctx, "snapshot")
	if err != nil {
		return SnapshotID{}, err
	}
	var idStr string
	if err := json.Unmarshal(result, &idStr); err != nil {
		return SnapshotID{}, rpcerr.NewAbiDecoding("Controller.Snapshot", "result was not a string")
	}
	return NewSnapshotID(idStr)
}

// RevertToSnapshot restores the chain state captured by a prior Snapshot,
// returning the node's success flag. A snapshot is consumed by reverting
// to it; reverting twice to the same id reports false.
func (c *Controller) RevertToSnapshot(ctx context.Context, id SnapshotID) (bool, error) {
	result, err := c.dispatch(ctx, "revertSnapshot", id.String())
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(result, &ok); err != nil {
		return false, rpcerr.NewAbiDecoding("Controller.RevertToSnapshot", "result was not a boolean")
	}
	return ok, nil
}

// Impersonate opens an impersonation session for addr.
func (c *Controller) Impersonate(ctx context.Context, addr ethtypes.Address) (*ImpersonationSession, error) {
	if _, err := c.dispatch(ctx, "impersonate", addr.String()); err != nil {
		return nil, err
	}
	return &ImpersonationSession{controller: c, address: addr}, nil
}

func isNullResult(result json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(result))
	return trimmed == "" || trimmed == "null"
}

// ImpersonationSession holds one impersonated address: every transaction
// submitted through it has its `from` field forced to the impersonated
// address, even if the caller already set a different one.
type ImpersonationSession struct {
	controller *Controller
	address    ethtypes.Address
	closed     bool
}

// Address returns the impersonated address.
func (s *ImpersonationSession) Address() ethtypes.Address { return s.address }

// Override forces req.From to the impersonated address, replacing any
// `from` the caller already set.
func (s *ImpersonationSession) Override(req ethclient.TransactionRequest) (ethclient.TransactionRequest, error) {
	if s.closed {
		return req, rpcerr.NewIllegalState("ImpersonationSession.Override", "session is closed")
	}
	addr := s.address
	req.From = &addr
	return req, nil
}

// SendTransaction submits an unsigned transaction through the node's own
// signing path (eth_sendTransaction), with `from` forced to the
// impersonated address. The wire call carries exactly one call-object
// param.
func (s *ImpersonationSession) SendTransaction(ctx context.Context, req ethclient.TransactionRequest) (ethtypes.Hash, error) {
	overridden, err := s.Override(req)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	callObj := gasstrategy.BuildCallObject(overridden)
	result, err := s.controller.provider.Send(ctx, "eth_sendTransaction", []interface{}{callObj})
	if err != nil {
		return ethtypes.Hash{}, err
	}
	var hashStr string
	if err := json.Unmarshal(result, &hashStr); err != nil {
		return ethtypes.Hash{}, rpcerr.NewAbiDecoding("ImpersonationSession.SendTransaction", "result was not a hash string")
	}
	return ethtypes.NewHash(hashStr)
}

// Close stops impersonation. It is idempotent and never returns an error:
// an RPC failure during the stop-impersonation call is swallowed, but the
// session is still marked closed so no further attempt is made.
func (s *ImpersonationSession) Close(ctx context.Context) {
	if s.closed {
		return
	}
	s.closed = true
	_, _ = s.controller.dispatch(ctx, "stopImpersonating", s.address.String())
}
