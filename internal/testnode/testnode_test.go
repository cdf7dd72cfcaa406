package testnode

import (
	"context"
	"testing"

	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func TestUnsupportedOperationNamesBackend(t *testing.T) {
	fake := transport.NewFakeProvider()
	c := New(fake, Ganache)

	err := c.SetNextBlockBaseFee(context.Background(), ethtypes.ZeroWei)
	if err == nil {
		t.Fatal("expected unsupported error")
	}
	if !contains(err.Error(), "ANVIL") || !contains(err.Error(), "HARDHAT") {
		t.Errorf("error message should name ANVIL and HARDHAT, got: %v", err)
	}
}

func TestSetBlockGasLimitDispatchPerBackend(t *testing.T) {
	cases := []struct {
		backend Backend
		method  string
	}{
		{Anvil, "anvil_setBlockGasLimit"},
		{Hardhat, "hardhat_setBlockGasLimit"},
		{Ganache, "evm_setBlockGasLimit"},
	}
	for _, c := range cases {
		t.Run(c.backend.String(), func(t *testing.T) {
			fake := transport.NewFakeProvider()
			fake.Script(c.method, true, nil)

			ctrl := New(fake, c.backend)
			if err := ctrl.SetBlockGasLimit(context.Background(), 30_000_000); err != nil {
				t.Fatalf("SetBlockGasLimit: %v", err)
			}

			recorded := fake.Recorded()
			if len(recorded) != 1 || recorded[0].Method != c.method {
				t.Fatalf("recorded = %+v, want one call to %s", recorded, c.method)
			}
			if len(recorded[0].Params) != 1 || recorded[0].Params[0] != "0x1c9c380" {
				t.Errorf("params = %v, want [0x1c9c380]", recorded[0].Params)
			}
		})
	}
}

func TestImpersonationOverride(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("anvil_impersonateAccount", true, nil)
	fake.Script("anvil_stopImpersonatingAccount", true, nil)

	c := New(fake, Anvil)
	impersonated := ethtypes.MustAddress("0x7099" + repeatHex("79C8", 36))
	sess, err := c.Impersonate(context.Background(), impersonated)
	if err != nil {
		t.Fatalf("Impersonate: %v", err)
	}

	differentFrom := ethtypes.MustAddress("0x90F7" + repeatHex("b906", 36))
	req := ethclient.TransactionRequest{From: &differentFrom}
	overridden, err := sess.Override(req)
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if overridden.From == nil || !overridden.From.Equals(impersonated) {
		t.Errorf("From = %v, want %v", overridden.From, impersonated)
	}

	sess.Close(context.Background())
	if _, err := sess.Override(req); err == nil {
		t.Error("Override after Close should fail")
	}
	// Close is idempotent and must not issue a second RPC.
	sess.Close(context.Background())
	if n := len(fake.Recorded()); n != 2 {
		t.Errorf("recorded %d calls, want 2 (impersonate + one stop)", n)
	}
}

func TestImpersonatedSendForcesFrom(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("anvil_impersonateAccount", true, nil)
	fake.Script("eth_sendTransaction", "0x"+repeatHex("a", 64), nil)

	c := New(fake, Anvil)
	impersonated := ethtypes.MustAddress("0x7099" + repeatHex("79C8", 36))
	sess, err := c.Impersonate(context.Background(), impersonated)
	if err != nil {
		t.Fatalf("Impersonate: %v", err)
	}

	differentFrom := ethtypes.MustAddress("0x90F7" + repeatHex("b906", 36))
	to := ethtypes.MustAddress("0x" + repeatHex("2", 40))
	hash, err := sess.SendTransaction(context.Background(), ethclient.TransactionRequest{From: &differentFrom, To: &to})
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if hash.String() != "0x"+repeatHex("a", 64) {
		t.Errorf("hash = %s", hash)
	}

	recorded := fake.Recorded()
	send := recorded[len(recorded)-1]
	if send.Method != "eth_sendTransaction" || len(send.Params) != 1 {
		t.Fatalf("wire call = %+v, want exactly one eth_sendTransaction param", send)
	}
	obj, ok := send.Params[0].(map[string]interface{})
	if !ok || obj["from"] != impersonated.String() {
		t.Errorf("wire from = %v, want %s", obj["from"], impersonated)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("evm_snapshot", "0x1", nil)
	fake.Script("evm_revert", true, nil)

	c := New(fake, Hardhat)
	id, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if id.String() != "0x1" {
		t.Errorf("id = %s, want 0x1", id)
	}

	other, err := NewSnapshotID("0x1")
	if err != nil {
		t.Fatalf("NewSnapshotID: %v", err)
	}
	if !id.Equals(other) {
		t.Error("snapshot ids with the same value should compare equal")
	}

	ok, err := c.RevertToSnapshot(context.Background(), id)
	if err != nil || !ok {
		t.Errorf("RevertToSnapshot = %v, %v", ok, err)
	}
}

func TestSnapshotIDRejectsBadInput(t *testing.T) {
	for _, s := range []string{"", "0x", "1234", "0x12g4"} {
		if _, err := NewSnapshotID(s); err == nil {
			t.Errorf("NewSnapshotID(%q) should fail", s)
		}
	}
}

func TestLoadStateNeverThrows(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("anvil_loadState", nil, nil)
	c := New(fake, Anvil)

	if c.LoadState(context.Background(), ethtypes.MustHexData("0x1234")) {
		t.Error("LoadState should resolve a null result to false")
	}
}

func TestDumpStateNullIsError(t *testing.T) {
	fake := transport.NewFakeProvider()
	fake.Script("anvil_dumpState", nil, nil)
	c := New(fake, Anvil)

	_, err := c.DumpState(context.Background())
	if err == nil || !contains(err.Error(), "returned null") {
		t.Errorf("expected a 'returned null' error, got: %v", err)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func repeatHex(s string, n int) string {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, s...)
	}
	return string(out[:n])
}
