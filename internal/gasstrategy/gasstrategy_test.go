package gasstrategy

import (
	"context"
	"testing"

	"github.com/noise-xyz/brane/internal/config"
	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func latestBlockResult(baseFeeHex string) map[string]interface{} {
	return map[string]interface{}{
		"number":        "0x64",
		"hash":          "0x" + repeatHex("ab", 64),
		"parentHash":    "0x" + repeatHex("cd", 64),
		"timestamp":     "0x1",
		"gasUsed":       "0x1",
		"gasLimit":      "0x1",
		"baseFeePerGas": baseFeeHex,
		"transactions":  []string{},
	}
}

func repeatHex(s string, n int) string {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, s...)
	}
	return string(out[:n])
}

func TestLegacyFeePopulatedFromNode(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_gasPrice", "0x3b9aca00", nil)

	client := ethclient.New(fake)
	s := New(client, config.ChainProfile{SupportsEIP1559: false})

	req := ethclient.TransactionRequest{}
	if err := s.PopulateFees(context.Background(), &req); err != nil {
		t.Fatalf("PopulateFees: %v", err)
	}
	if req.GasPrice == nil || req.GasPrice.Hex() != "0x3b9aca00" {
		t.Errorf("gasPrice = %v, want 0x3b9aca00", req.GasPrice)
	}
	if req.MaxFeePerGas != nil || req.MaxPriorityFeePerGas != nil {
		t.Error("legacy fill must not touch the 1559 fields")
	}
}

func TestEIP1559MaxFeeDerivation(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_maxPriorityFeePerGas", "0x3b9aca00", nil) // 1 gwei tip
	fake.Script("eth_getBlockByNumber", latestBlockResult("0x77359400"), nil) // 2 gwei base fee

	client := ethclient.New(fake)
	s := New(client, config.ChainProfile{SupportsEIP1559: true})

	req := ethclient.TransactionRequest{}
	if err := s.PopulateFees(context.Background(), &req); err != nil {
		t.Fatalf("PopulateFees: %v", err)
	}
	if req.MaxPriorityFeePerGas == nil || req.MaxPriorityFeePerGas.Hex() != "0x3b9aca00" {
		t.Errorf("priority fee = %v, want 0x3b9aca00", req.MaxPriorityFeePerGas)
	}
	// maxFee = baseFee*2 + tip = 4 gwei + 1 gwei = 5 gwei.
	if req.MaxFeePerGas == nil || req.MaxFeePerGas.Decimal() != "5000000000" {
		t.Errorf("maxFee = %v, want 5000000000", req.MaxFeePerGas)
	}
}

func TestEIP1559TipFallsBackToProfile(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_maxPriorityFeePerGas", nil,
		&nodeError{})
	fake.Script("eth_getBlockByNumber", latestBlockResult("0x3b9aca00"), nil)

	client := ethclient.New(fake)
	s := New(client, config.ChainProfile{SupportsEIP1559: true, DefaultPriorityFeeWei: "1500000000"})

	req := ethclient.TransactionRequest{}
	if err := s.PopulateFees(context.Background(), &req); err != nil {
		t.Fatalf("PopulateFees: %v", err)
	}
	if req.MaxPriorityFeePerGas == nil || req.MaxPriorityFeePerGas.Decimal() != "1500000000" {
		t.Errorf("priority fee = %v, want the profile default 1500000000", req.MaxPriorityFeePerGas)
	}
}

func TestRequestFlagOverridesProfile(t *testing.T) {
	client := ethclient.New(transport.NewFakeProvider())
	s := New(client, config.ChainProfile{SupportsEIP1559: true})

	legacy := false
	req := ethclient.TransactionRequest{IsEIP1559: &legacy}
	if s.UsesEIP1559(&req) {
		t.Error("explicit IsEIP1559=false must beat the profile default")
	}
}

func TestBuildCallObjectAccessList(t *testing.T) {
	to := ethtypes.MustAddress("0x" + repeatHex("2", 40))
	key := ethtypes.MustHash("0x" + repeatHex("a", 64))
	req := ethclient.TransactionRequest{
		To: &to,
		AccessList: []ethclient.AccessListEntry{
			{Address: to, StorageKeys: []ethtypes.Hash{key}},
		},
	}

	m := BuildCallObject(req)
	list, ok := m["accessList"].([]map[string]interface{})
	if !ok || len(list) != 1 {
		t.Fatalf("accessList = %v", m["accessList"])
	}
	if list[0]["address"] != to.String() {
		t.Errorf("accessList address = %v", list[0]["address"])
	}
	keys, ok := list[0]["storageKeys"].([]string)
	if !ok || len(keys) != 1 || keys[0] != key.String() {
		t.Errorf("storageKeys = %v", list[0]["storageKeys"])
	}

	if _, present := BuildCallObject(ethclient.TransactionRequest{})["accessList"]; present {
		t.Error("empty accessList should be omitted")
	}
}

type nodeError struct{}

func (e *nodeError) Error() string { return "Method not found" }
