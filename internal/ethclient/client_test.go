package ethclient

import (
	"context"
	"testing"

	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func TestGetBalance(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_getBalance", "0x3e8", nil)

	client := New(fake)
	addr := ethtypes.MustAddress("0x" + repeatHex("1", 40))

	balance, err := client.GetBalance(context.Background(), addr, ethtypes.Latest)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Decimal() != "1000" {
		t.Errorf("balance = %s, want 1000", balance.Decimal())
	}

	recorded := fake.Recorded()
	if len(recorded) != 1 || recorded[0].Method != "eth_getBalance" {
		t.Fatalf("recorded = %+v", recorded)
	}
	if recorded[0].Params[0] != addr.String() || recorded[0].Params[1] != "latest" {
		t.Errorf("params = %v", recorded[0].Params)
	}
}

func TestBlockNumber(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_blockNumber", "0x1c9c380", nil)

	client := New(fake)
	n, err := client.BlockNumber(context.Background())
	if err != nil {
		t.Fatalf("BlockNumber: %v", err)
	}
	if n != 30_000_000 {
		t.Errorf("blockNumber = %d, want 30000000", n)
	}
}

func TestReceiptAbsentIsNilNil(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_getTransactionReceipt", nil, nil)

	client := New(fake)
	hash := ethtypes.MustHash("0x" + repeatHex("a", 64))

	receipt, err := client.GetTransactionReceipt(context.Background(), hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt != nil {
		t.Errorf("receipt = %+v, want nil for an unmined transaction", receipt)
	}
}

func TestCloseIsIdempotentAndFailsEveryMethod(t *testing.T) {
	fake := transport.NewFakeProvider()
	client := New(fake)

	if err := client.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	addr := ethtypes.MustAddress("0x" + repeatHex("1", 40))
	hash := ethtypes.MustHash("0x" + repeatHex("a", 64))

	checks := []func() error{
		func() error { _, err := client.GetChainID(ctx); return err },
		func() error { _, err := client.GetBalance(ctx, addr, ethtypes.Latest); return err },
		func() error { _, err := client.GetLatestBlock(ctx); return err },
		func() error { _, err := client.GetTransactionReceipt(ctx, hash); return err },
		func() error { _, err := client.Call(ctx, CallRequest{}, ethtypes.Latest); return err },
		func() error { _, err := client.GetLogs(ctx, LogFilter{}); return err },
		func() error { _, err := client.EstimateGas(ctx, CallRequest{}); return err },
		func() error { _, err := client.GasPrice(ctx); return err },
		func() error { _, err := client.SendRawTransaction(ctx, "0x00"); return err },
	}
	for i, call := range checks {
		err := call()
		if err == nil {
			t.Errorf("call %d succeeded after Close", i)
			continue
		}
		if !containsStr(err.Error(), "Client is closed") {
			t.Errorf("call %d error = %q, want it to contain %q", i, err, "Client is closed")
		}
	}

	if len(fake.Recorded()) != 0 {
		t.Error("closed client must not reach the provider")
	}
}

func containsStr(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
