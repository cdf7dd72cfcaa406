package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/noise-xyz/brane/internal/config"
	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/gasstrategy"
	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

type stubSigner struct {
	address ethtypes.Address
	rawHex  string
	gotReq  ethclient.TransactionRequest
}

func (s *stubSigner) Address() ethtypes.Address { return s.address }

func (s *stubSigner) Sign(_ context.Context, req ethclient.TransactionRequest, _ uint64) (string, error) {
	s.gotReq = req
	return s.rawHex, nil
}

func TestLegacySend(t *testing.T) {
	fake := transport.NewFakeProvider()
	expectedHash := "0x" + repeat("a", 64)

	// The request below pins gasPrice itself, so the pipeline skips
	// eth_gasPrice entirely.
	fake.Script("eth_chainId", "0x1", nil)
	fake.Script("eth_getTransactionCount", "0x5", nil)
	fake.Script("eth_estimateGas", "0x5208", nil)
	fake.Script("eth_sendRawTransaction", expectedHash, nil)

	client := ethclient.New(fake)
	profile := config.ChainProfile{ChainID: 1, SupportsEIP1559: false}
	gas := gasstrategy.New(client, profile)

	signerAddr := ethtypes.MustAddress("0x" + repeat("1", 40))
	signer := &stubSigner{address: signerAddr, rawHex: "0xf86c" + repeat("0", 100)}

	w := New(client, 1, signer, gas)

	to := ethtypes.MustAddress("0x" + repeat("2", 40))
	gasPrice, err := ethtypes.NewWeiFromHex("0x3b9aca00")
	if err != nil {
		t.Fatalf("NewWeiFromHex: %v", err)
	}
	req := ethclient.TransactionRequest{
		To:       &to,
		Value:    &ethtypes.ZeroWei,
		GasPrice: &gasPrice,
		Data:     ethtypes.EmptyHexData,
	}

	hash, err := w.SendTransaction(context.Background(), req)
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if hash.String() != expectedHash {
		t.Errorf("hash = %s, want %s", hash, expectedHash)
	}

	if signer.gotReq.Nonce == nil || *signer.gotReq.Nonce != 5 {
		t.Errorf("nonce = %v, want 5", signer.gotReq.Nonce)
	}
	if signer.gotReq.GasLimit == nil || *signer.gotReq.GasLimit != 0x5208 {
		t.Errorf("gasLimit = %v, want 0x5208", signer.gotReq.GasLimit)
	}
}

func TestChainMismatchBeforeSigning(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_chainId", "0x5", nil)

	client := ethclient.New(fake)
	profile := config.ChainProfile{ChainID: 5, SupportsEIP1559: false}
	gas := gasstrategy.New(client, profile)
	signer := &stubSigner{address: ethtypes.MustAddress("0x" + repeat("1", 40))}
	w := New(client, 1, signer, gas) // wallet configured for chain 1, node reports 5

	_, err := w.SendTransaction(context.Background(), ethclient.TransactionRequest{})
	if err == nil {
		t.Fatal("expected ChainMismatch error")
	}
	if signer.gotReq.Nonce != nil {
		t.Error("signer should never have been invoked before the chain guard failed")
	}
}

func TestSendTransactionAndWaitPollsUntilMined(t *testing.T) {
	fake := transport.NewFakeProvider()
	hash := "0x" + repeat("a", 64)
	fake.Script("eth_chainId", "0x1", nil)
	fake.Script("eth_getTransactionCount", "0x5", nil)
	fake.Script("eth_estimateGas", "0x5208", nil)
	fake.Script("eth_sendRawTransaction", hash, nil)
	fake.Script("eth_getTransactionReceipt", nil, nil)
	fake.Script("eth_getTransactionReceipt", nil, nil)
	fake.Script("eth_getTransactionReceipt", map[string]interface{}{
		"transactionHash":   hash,
		"blockNumber":       "0x64",
		"blockHash":         "0x" + repeat("b", 64),
		"status":            "0x1",
		"gasUsed":           "0x5208",
		"cumulativeGasUsed": "0x5208",
		"logs":              []interface{}{},
	}, nil)

	client := ethclient.New(fake)
	gas := gasstrategy.New(client, config.ChainProfile{ChainID: 1})
	signer := &stubSigner{address: ethtypes.MustAddress("0x" + repeat("1", 40)), rawHex: "0xf86c00"}
	w := New(client, 1, signer, gas)

	gasPrice, _ := ethtypes.NewWeiFromHex("0x3b9aca00")
	req := ethclient.TransactionRequest{GasPrice: &gasPrice}

	receipt, err := w.SendTransactionAndWait(context.Background(), req, time.Second, time.Millisecond)
	if err != nil {
		t.Fatalf("SendTransactionAndWait: %v", err)
	}
	if receipt.BlockNumber != 0x64 || !receipt.Status {
		t.Errorf("receipt = %+v", receipt)
	}
}

// alwaysPendingProvider answers every pipeline call but never reports a
// mined receipt, for exercising the poll deadline.
type alwaysPendingProvider struct{}

func (alwaysPendingProvider) Send(_ context.Context, method string, _ []interface{}) (json.RawMessage, error) {
	switch method {
	case "eth_chainId", "eth_getTransactionCount", "eth_gasPrice":
		return json.RawMessage(`"0x1"`), nil
	case "eth_estimateGas":
		return json.RawMessage(`"0x5208"`), nil
	case "eth_sendRawTransaction":
		return json.RawMessage(`"0x` + repeat("a", 64) + `"`), nil
	default:
		return json.RawMessage("null"), nil
	}
}

func (alwaysPendingProvider) Close() error { return nil }

func TestSendTransactionAndWaitTimesOut(t *testing.T) {
	client := ethclient.New(alwaysPendingProvider{})
	gas := gasstrategy.New(client, config.ChainProfile{ChainID: 1})
	signer := &stubSigner{address: ethtypes.MustAddress("0x" + repeat("1", 40)), rawHex: "0xf86c00"}
	w := New(client, 1, signer, gas)

	_, err := w.SendTransactionAndWait(context.Background(), ethclient.TransactionRequest{}, 30*time.Millisecond, 5*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	var rerr *rpcerr.Error
	if !errors.As(err, &rerr) || rerr.Kind != rpcerr.KindTimeout {
		t.Errorf("err = %v, want a Timeout-kind error", err)
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
