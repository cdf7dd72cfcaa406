// Package gasstrategy implements brane's legacy-vs-EIP-1559 fee decision
// and auto-population: choosing the transaction type, filling missing fee
// fields from the node and chain profile, and serializing the transaction
// into the call-object map used by eth_estimateGas/eth_call.
package gasstrategy

import (
	"context"

	"github.com/noise-xyz/brane/internal/config"
	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

// Strategy fills in a transaction's fee fields using the node and a chain
// profile's defaults.
type Strategy struct {
	client  *ethclient.PublicClient
	profile config.ChainProfile
}

// New constructs a gas strategy bound to a client and chain profile.
func New(client *ethclient.PublicClient, profile config.ChainProfile) *Strategy {
	return &Strategy{client: client, profile: profile}
}

// UsesEIP1559 resolves the request's tri-state IsEIP1559 flag against the
// chain profile's default.
func (s *Strategy) UsesEIP1559(req *ethclient.TransactionRequest) bool {
	if req.IsEIP1559 != nil {
		return *req.IsEIP1559
	}
	return s.profile.SupportsEIP1559
}

// PopulateFees fills any missing fee fields in req, in place. For legacy
// transactions it queries eth_gasPrice; for EIP-1559 it
// queries eth_maxPriorityFeePerGas (falling back to the chain profile's
// default tip) and derives maxFeePerGas = baseFee*2 + priorityFee from the
// latest block.
func (s *Strategy) PopulateFees(ctx context.Context, req *ethclient.TransactionRequest) error {
	if s.UsesEIP1559(req) {
		return s.populateEIP1559Fees(ctx, req)
	}
	return s.populateLegacyFee(ctx, req)
}

func (s *Strategy) populateLegacyFee(ctx context.Context, req *ethclient.TransactionRequest) error {
	if req.GasPrice != nil {
		return nil
	}
	price, err := s.client.GasPrice(ctx)
	if err != nil {
		return err
	}
	req.GasPrice = &price
	return nil
}

func (s *Strategy) populateEIP1559Fees(ctx context.Context, req *ethclient.TransactionRequest) error {
	if req.MaxPriorityFeePerGas == nil {
		tip, err := s.resolvePriorityFee(ctx)
		if err != nil {
			return err
		}
		req.MaxPriorityFeePerGas = &tip
	}

	if req.MaxFeePerGas != nil {
		return nil
	}

	block, err := s.client.GetLatestBlock(ctx)
	if err != nil {
		return err
	}
	if block.BaseFeePerGas == nil {
		return rpcerr.NewInvalidArgument("gasstrategy.PopulateFees", "chain profile claims EIP-1559 support but latest block has no baseFeePerGas")
	}

	maxFee := block.BaseFeePerGas.Mul(2).Add(*req.MaxPriorityFeePerGas)
	req.MaxFeePerGas = &maxFee
	return nil
}

// resolvePriorityFee tries eth_maxPriorityFeePerGas, falling back to the
// chain profile's default tip when the call fails for any reason.
func (s *Strategy) resolvePriorityFee(ctx context.Context) (ethtypes.Wei, error) {
	tip, err := s.client.MaxPriorityFeePerGas(ctx)
	if err == nil {
		return tip, nil
	}
	return s.profile.DefaultPriorityFee()
}

// BuildCallObject serializes req to the map used by eth_estimateGas /
// eth_call, including accessList only when non-empty, with each entry as
// {address, storageKeys:[...]}.
func BuildCallObject(req ethclient.TransactionRequest) map[string]interface{} {
	m := map[string]interface{}{}
	if req.From != nil {
		m["from"] = req.From.String()
	}
	if req.To != nil {
		m["to"] = req.To.String()
	}
	if req.Value != nil {
		m["value"] = req.Value.Hex()
	}
	if req.GasLimit != nil {
		m["gas"] = ethtypes.HexUint64(*req.GasLimit)
	}
	if req.GasPrice != nil {
		m["gasPrice"] = req.GasPrice.Hex()
	}
	if req.MaxFeePerGas != nil {
		m["maxFeePerGas"] = req.MaxFeePerGas.Hex()
	}
	if req.MaxPriorityFeePerGas != nil {
		m["maxPriorityFeePerGas"] = req.MaxPriorityFeePerGas.Hex()
	}
	if !req.Data.IsEmpty() {
		m["data"] = req.Data.String()
	}
	if req.Nonce != nil {
		m["nonce"] = ethtypes.HexUint64(*req.Nonce)
	}
	if len(req.AccessList) > 0 {
		list := make([]map[string]interface{}, len(req.AccessList))
		for i, e := range req.AccessList {
			keys := make([]string, len(e.StorageKeys))
			for j, k := range e.StorageKeys {
				keys[j] = k.String()
			}
			list[i] = map[string]interface{}{"address": e.Address.String(), "storageKeys": keys}
		}
		m["accessList"] = list
	}
	return m
}
