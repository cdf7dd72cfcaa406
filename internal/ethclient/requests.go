package ethclient

import (
	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

// AccessListEntry is one EIP-2930 pre-declaration of an address and the
// storage slots a transaction will touch.
type AccessListEntry struct {
	Address     ethtypes.Address
	StorageKeys []ethtypes.Hash
}

// TransactionRequest is the input to the wallet pipeline. At most one of
// GasPrice or {MaxFeePerGas, MaxPriorityFeePerGas} may be set.
type TransactionRequest struct {
	From                 *ethtypes.Address
	To                   *ethtypes.Address // nil for contract creation
	Value                *ethtypes.Wei
	GasLimit             *uint64
	GasPrice             *ethtypes.Wei
	MaxFeePerGas         *ethtypes.Wei
	MaxPriorityFeePerGas *ethtypes.Wei
	Nonce                *uint64
	Data                 ethtypes.HexData
	// IsEIP1559 is tri-state: nil means "use the chain profile's default";
	// non-nil pins legacy (false) or EIP-1559 (true).
	IsEIP1559  *bool
	AccessList []AccessListEntry
}

// Validate enforces the gasPrice/EIP-1559 mutual-exclusion invariant.
func (r TransactionRequest) Validate() error {
	if r.GasPrice != nil && (r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil) {
		return rpcerr.NewInvalidArgument("TransactionRequest.Validate", "gasPrice is mutually exclusive with EIP-1559 fee fields")
	}
	return nil
}

// AccountOverride is a per-address eth_call state override.
type AccountOverride struct {
	Balance   *ethtypes.Wei
	Nonce     *uint64
	Code      *ethtypes.HexData
	stateDiff map[ethtypes.Hash]ethtypes.Hash
}

// NewAccountOverride constructs an override, defensively copying
// stateDiff so later mutation of the caller's map cannot leak in.
func NewAccountOverride(balance *ethtypes.Wei, nonce *uint64, code *ethtypes.HexData, stateDiff map[ethtypes.Hash]ethtypes.Hash) AccountOverride {
	var copied map[ethtypes.Hash]ethtypes.Hash
	if len(stateDiff) > 0 {
		copied = make(map[ethtypes.Hash]ethtypes.Hash, len(stateDiff))
		for k, v := range stateDiff {
			copied[k] = v
		}
	}
	return AccountOverride{Balance: balance, Nonce: nonce, Code: code, stateDiff: copied}
}

// StateDiff returns a read-only view of the override's storage diff.
func (o AccountOverride) StateDiff() map[ethtypes.Hash]ethtypes.Hash {
	out := make(map[ethtypes.Hash]ethtypes.Hash, len(o.stateDiff))
	for k, v := range o.stateDiff {
		out[k] = v
	}
	return out
}

// ToMap serializes the override to its wire form, omitting stateDiff when
// nil or empty.
func (o AccountOverride) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	if o.Balance != nil {
		m["balance"] = o.Balance.Hex()
	}
	if o.Nonce != nil {
		m["nonce"] = ethtypes.HexUint64(*o.Nonce)
	}
	if o.Code != nil {
		m["code"] = o.Code.String()
	}
	if len(o.stateDiff) > 0 {
		diff := make(map[string]string, len(o.stateDiff))
		for k, v := range o.stateDiff {
			diff[k.String()] = v.String()
		}
		m["stateDiff"] = diff
	}
	return m
}

// CallRequest is the input to a read-only eth_call: a
// TransactionRequest's shape minus nonce/signing fields, plus optional
// per-address state overrides.
type CallRequest struct {
	From                 *ethtypes.Address
	To                   *ethtypes.Address
	Value                *ethtypes.Wei
	GasLimit             *uint64
	GasPrice             *ethtypes.Wei
	MaxFeePerGas         *ethtypes.Wei
	MaxPriorityFeePerGas *ethtypes.Wei
	Data                 ethtypes.HexData
	AccessList           []AccessListEntry
	StateOverrides       map[ethtypes.Address]AccountOverride
}

// Validate enforces the same gasPrice/EIP-1559 mutual exclusion as
// TransactionRequest.
func (r CallRequest) Validate() error {
	if r.GasPrice != nil && (r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil) {
		return rpcerr.NewInvalidArgument("CallRequest.Validate", "gasPrice is mutually exclusive with EIP-1559 fee fields")
	}
	return nil
}

// ToMap serializes the call object to the map used by eth_call /
// eth_estimateGas, returning a fresh map each time so callers cannot
// mutate the source request through it.
func (r CallRequest) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	if r.From != nil {
		m["from"] = r.From.String()
	}
	if r.To != nil {
		m["to"] = r.To.String()
	}
	if r.Value != nil {
		m["value"] = r.Value.Hex()
	}
	if r.GasLimit != nil {
		m["gas"] = ethtypes.HexUint64(*r.GasLimit)
	}
	if r.GasPrice != nil {
		m["gasPrice"] = r.GasPrice.Hex()
	}
	if r.MaxFeePerGas != nil {
		m["maxFeePerGas"] = r.MaxFeePerGas.Hex()
	}
	if r.MaxPriorityFeePerGas != nil {
		m["maxPriorityFeePerGas"] = r.MaxPriorityFeePerGas.Hex()
	}
	if !r.Data.IsEmpty() {
		m["data"] = r.Data.String()
	}
	if len(r.AccessList) > 0 {
		m["accessList"] = encodeAccessList(r.AccessList)
	}
	return m
}

func encodeAccessList(list []AccessListEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, len(list))
	for i, e := range list {
		keys := make([]string, len(e.StorageKeys))
		for j, k := range e.StorageKeys {
			keys[j] = k.String()
		}
		out[i] = map[string]interface{}{
			"address":     e.Address.String(),
			"storageKeys": keys,
		}
	}
	return out
}

// LogFilter is the input to eth_getLogs.
type LogFilter struct {
	FromBlock *ethtypes.BlockTag
	ToBlock   *ethtypes.BlockTag
	Addresses []ethtypes.Address
	// Topics: each slot is nil (wildcard), an ethtypes.Hash, or []ethtypes.Hash.
	Topics []interface{}
}

// ToMap serializes the filter: a single address emits as a scalar, many
// as an array, none is omitted entirely.
func (f LogFilter) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	if f.FromBlock != nil {
		m["fromBlock"] = f.FromBlock.String()
	}
	if f.ToBlock != nil {
		m["toBlock"] = f.ToBlock.String()
	}
	switch len(f.Addresses) {
	case 0:
		// omitted entirely
	case 1:
		m["address"] = f.Addresses[0].String()
	default:
		addrs := make([]string, len(f.Addresses))
		for i, a := range f.Addresses {
			addrs[i] = a.String()
		}
		m["address"] = addrs
	}
	if len(f.Topics) > 0 {
		m["topics"] = encodeTopics(f.Topics)
	}
	return m
}

func encodeTopics(topics []interface{}) []interface{} {
	out := make([]interface{}, len(topics))
	for i, t := range topics {
		switch v := t.(type) {
		case nil:
			out[i] = nil
		case ethtypes.Hash:
			out[i] = v.String()
		case []ethtypes.Hash:
			strs := make([]string, len(v))
			for j, h := range v {
				strs[j] = h.String()
			}
			out[i] = strs
		default:
			out[i] = v
		}
	}
	return out
}
