// Package wallet implements brane's wallet pipeline: the multi-step
// sequence that turns a TransactionRequest into a signed, broadcast
// transaction. It enforces the configured chain id, auto-populates
// nonce, fees, and gas limit, signs, submits, and polls for the receipt.
package wallet

import (
	"context"
	"time"

	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/gasstrategy"
	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

// Signer is brane's opaque signing capability: given a completed
// transaction request and the wallet's chain id, it returns the raw,
// wire-format transaction hex ready for
// eth_sendRawTransaction. Key management and the exact transaction
// encoding (legacy RLP vs typed envelope) are the signer's concern, not
// the wallet pipeline's.
type Signer interface {
	Address() ethtypes.Address
	Sign(ctx context.Context, req ethclient.TransactionRequest, chainID uint64) (rawTxHex string, err error)
}

// Wallet drives one signer's transactions against one chain through a
// PublicClient.
type Wallet struct {
	client  *ethclient.PublicClient
	gas     *gasstrategy.Strategy
	signer  Signer
	chainID uint64
}

// New constructs a wallet pipeline bound to a client, chain id, signer, and
// gas strategy.
func New(client *ethclient.PublicClient, chainID uint64, signer Signer, gas *gasstrategy.Strategy) *Wallet {
	return &Wallet{client: client, chainID: chainID, signer: signer, gas: gas}
}

// SendTransaction runs the full pipeline and returns the broadcast
// transaction's hash. Any step's failure short-circuits the remaining
// steps.
func (w *Wallet) SendTransaction(ctx context.Context, req ethclient.TransactionRequest) (ethtypes.Hash, error) {
	if err := req.Validate(); err != nil {
		return ethtypes.Hash{}, err
	}

	// Step 1: chain guard.
	actual, err := w.client.GetChainID(ctx)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	if actual != w.chainID {
		return ethtypes.Hash{}, rpcerr.NewChainMismatch("wallet.SendTransaction", w.chainID, actual)
	}

	from := w.signer.Address()
	if req.From == nil {
		req.From = &from
	}

	// Step 2: fill nonce.
	if req.Nonce == nil {
		nonce, err := w.client.GetTransactionCount(ctx, *req.From, ethtypes.Pending)
		if err != nil {
			return ethtypes.Hash{}, err
		}
		req.Nonce = &nonce
	}

	// Step 3: fill fees.
	if err := w.gas.PopulateFees(ctx, &req); err != nil {
		return ethtypes.Hash{}, err
	}

	// Step 4: fill gas limit.
	if req.GasLimit == nil {
		gasLimit, err := w.client.EstimateGas(ctx, toCallRequest(req))
		if err != nil {
			return ethtypes.Hash{}, err
		}
		req.GasLimit = &gasLimit
	}

	// Step 5: sign.
	rawTxHex, err := w.signer.Sign(ctx, req, w.chainID)
	if err != nil {
		return ethtypes.Hash{}, err
	}

	// Step 6: broadcast.
	return w.client.SendRawTransaction(ctx, rawTxHex)
}

func toCallRequest(req ethclient.TransactionRequest) ethclient.CallRequest {
	return ethclient.CallRequest{
		From:                 req.From,
		To:                   req.To,
		Value:                req.Value,
		GasLimit:             req.GasLimit,
		GasPrice:             req.GasPrice,
		MaxFeePerGas:         req.MaxFeePerGas,
		MaxPriorityFeePerGas: req.MaxPriorityFeePerGas,
		Data:                 req.Data,
		AccessList:           req.AccessList,
	}
}

// SendTransactionAndWait broadcasts the transaction and polls for its
// receipt at pollInterval until the node reports a mined block or the
// deadline elapses. The poll interval is a lower bound; cancelling ctx
// terminates the poll at the next boundary.
func (w *Wallet) SendTransactionAndWait(ctx context.Context, req ethclient.TransactionRequest, timeout, pollInterval time.Duration) (*ethclient.Receipt, error) {
	hash, err := w.SendTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		receipt, err := w.client.GetTransactionReceipt(deadlineCtx, hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-deadlineCtx.Done():
			return nil, rpcerr.NewTimeout("wallet.SendTransactionAndWait", time.Since(start).Milliseconds())
		case <-ticker.C:
		}
	}
}
