package ethclient

import (
	"context"
	"testing"

	"github.com/noise-xyz/brane/internal/rpcerr"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func TestSimulateCallSuccess(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_call", "0x0000000000000000000000000000000000000000000000000000000000000001", nil)
	fake.Script("eth_estimateGas", "0x5208", nil)

	client := New(fake)
	to := ethtypes.MustAddress("0x" + repeatHex("2", 40))

	result, err := client.SimulateCall(context.Background(), CallRequest{To: &to}, ethtypes.Latest)
	if err != nil {
		t.Fatalf("SimulateCall: %v", err)
	}
	if !result.Success() {
		t.Fatalf("result = %+v, want success", result)
	}
	if result.GasUsed() != 0x5208 {
		t.Errorf("gasUsed = %d, want 21000", result.GasUsed())
	}
	if result.ReturnData().Len() != 32 {
		t.Errorf("returnData = %s", result.ReturnData())
	}
}

func TestSimulateCallRevertBecomesFailure(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_call", nil, rpcerr.NewRPC("eth_call", 3, "execution reverted: Unauthorized", `"0x08c379a0"`))

	client := New(fake)
	to := ethtypes.MustAddress("0x" + repeatHex("2", 40))

	result, err := client.SimulateCall(context.Background(), CallRequest{To: &to}, ethtypes.Latest)
	if err != nil {
		t.Fatalf("a revert should resolve to a Failure result, not an error: %v", err)
	}
	if result.Success() {
		t.Fatal("result should be a failure")
	}
	if !containsStr(result.ErrorMessage(), "Unauthorized") {
		t.Errorf("errorMessage = %q", result.ErrorMessage())
	}
	if result.RevertData() == nil || result.RevertData().String() != "0x08c379a0" {
		t.Errorf("revertData = %v", result.RevertData())
	}
}

func TestSimulateCallNonRevertErrorPropagates(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("eth_call", nil, rpcerr.NewRPC("eth_call", -32000, "insufficient funds", ""))

	client := New(fake)
	if _, err := client.SimulateCall(context.Background(), CallRequest{}, ethtypes.Latest); err == nil {
		t.Fatal("non-revert RPC failures must propagate as errors")
	}
}

func TestCallResultLogsAreCopied(t *testing.T) {
	addr := ethtypes.MustAddress("0x" + repeatHex("1", 40))
	hash := ethtypes.MustHash("0x" + repeatHex("a", 64))
	src := []Log{{Address: addr, TransactionHash: hash}}

	result := NewCallSuccess(1, src, ethtypes.EmptyHexData)
	src[0].LogIndex = 99
	if result.Logs()[0].LogIndex != 0 {
		t.Error("mutating the source slice after construction leaked into the result")
	}

	view := result.Logs()
	view[0].LogIndex = 42
	if result.Logs()[0].LogIndex != 0 {
		t.Error("mutating a returned view leaked into the result")
	}
}
