package ethclient

import (
	"testing"

	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func TestAccountOverrideToMap(t *testing.T) {
	balance, _ := ethtypes.NewWeiFromDecimal("1000")
	nonce := uint64(42)
	code := ethtypes.MustHexData("0x1234")
	slot := ethtypes.MustHash("0x" + repeatHex("a", 64))
	value := ethtypes.MustHash("0x" + repeatHex("b", 64))

	o := NewAccountOverride(&balance, &nonce, &code, map[ethtypes.Hash]ethtypes.Hash{slot: value})
	m := o.ToMap()

	if m["balance"] != "0x3e8" {
		t.Errorf("balance = %v, want 0x3e8", m["balance"])
	}
	if m["nonce"] != "0x2a" {
		t.Errorf("nonce = %v, want 0x2a", m["nonce"])
	}
	if m["code"] != "0x1234" {
		t.Errorf("code = %v, want 0x1234", m["code"])
	}
	diff, ok := m["stateDiff"].(map[string]string)
	if !ok || diff[slot.String()] != value.String() {
		t.Errorf("stateDiff = %v, want {%s: %s}", m["stateDiff"], slot, value)
	}
}

func TestAccountOverrideOmitsEmptyStateDiff(t *testing.T) {
	balance, _ := ethtypes.NewWeiFromDecimal("1")

	for _, diff := range []map[ethtypes.Hash]ethtypes.Hash{nil, {}} {
		o := NewAccountOverride(&balance, nil, nil, diff)
		if _, present := o.ToMap()["stateDiff"]; present {
			t.Errorf("stateDiff should be omitted for input %v", diff)
		}
	}
}

func TestAccountOverrideDefensiveCopy(t *testing.T) {
	slot := ethtypes.MustHash("0x" + repeatHex("a", 64))
	value := ethtypes.MustHash("0x" + repeatHex("b", 64))
	src := map[ethtypes.Hash]ethtypes.Hash{slot: value}

	o := NewAccountOverride(nil, nil, nil, src)
	delete(src, slot)

	if len(o.StateDiff()) != 1 {
		t.Error("mutating the source map after construction leaked into the override")
	}
}

func TestCallRequestRejectsMixedFeeFields(t *testing.T) {
	gasPrice, _ := ethtypes.NewWeiFromDecimal("1000000000")
	maxFee, _ := ethtypes.NewWeiFromDecimal("2000000000")

	req := CallRequest{GasPrice: &gasPrice, MaxFeePerGas: &maxFee}
	if err := req.Validate(); err == nil {
		t.Error("expected gasPrice + maxFeePerGas to be rejected")
	}

	tx := TransactionRequest{GasPrice: &gasPrice, MaxPriorityFeePerGas: &maxFee}
	if err := tx.Validate(); err == nil {
		t.Error("expected gasPrice + maxPriorityFeePerGas to be rejected")
	}
}

func TestCallRequestToMapIsDetached(t *testing.T) {
	to := ethtypes.MustAddress("0x" + repeatHex("2", 40))
	req := CallRequest{To: &to, Data: ethtypes.MustHexData("0xdead")}

	m := req.ToMap()
	m["to"] = "tampered"
	m["data"] = "tampered"

	fresh := req.ToMap()
	if fresh["to"] != to.String() || fresh["data"] != "0xdead" {
		t.Errorf("mutating a returned map leaked into the request: %v", fresh)
	}
}

func TestLogFilterAddressScalarVsArray(t *testing.T) {
	a := ethtypes.MustAddress("0x" + repeatHex("1", 40))
	b := ethtypes.MustAddress("0x" + repeatHex("2", 40))

	if _, present := (LogFilter{}).ToMap()["address"]; present {
		t.Error("empty address list should be omitted entirely")
	}

	one := LogFilter{Addresses: []ethtypes.Address{a}}.ToMap()
	if one["address"] != a.String() {
		t.Errorf("single address should emit as a scalar, got %v", one["address"])
	}

	two := LogFilter{Addresses: []ethtypes.Address{a, b}}.ToMap()
	addrs, ok := two["address"].([]string)
	if !ok || len(addrs) != 2 {
		t.Errorf("two addresses should emit as an array, got %v", two["address"])
	}
}

func TestLogFilterTopicsPassThrough(t *testing.T) {
	h := ethtypes.MustHash("0x" + repeatHex("c", 64))
	f := LogFilter{Topics: []interface{}{h, nil, []ethtypes.Hash{h}}}

	topics, ok := f.ToMap()["topics"].([]interface{})
	if !ok || len(topics) != 3 {
		t.Fatalf("topics = %v", f.ToMap()["topics"])
	}
	if topics[0] != h.String() {
		t.Errorf("topics[0] = %v, want %s", topics[0], h)
	}
	if topics[1] != nil {
		t.Errorf("topics[1] = %v, want nil wildcard", topics[1])
	}
	if list, ok := topics[2].([]string); !ok || len(list) != 1 || list[0] != h.String() {
		t.Errorf("topics[2] = %v, want [%s]", topics[2], h)
	}
}

func repeatHex(s string, n int) string {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, s...)
	}
	return string(out[:n])
}
