package transport

import (
	"context"
	"testing"
)

func TestFakeProviderScriptedSequence(t *testing.T) {
	fake := NewFakeProvider()
	fake.Script("eth_chainId", "0x1", nil)
	fake.Script("eth_blockNumber", "0x10", nil)

	ctx := context.Background()
	result, err := fake.Send(ctx, "eth_chainId", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != `"0x1"` {
		t.Errorf("result = %s, want \"0x1\"", result)
	}

	if _, err := fake.Send(ctx, "eth_blockNumber", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recorded := fake.Recorded()
	if len(recorded) != 2 || recorded[0].Method != "eth_chainId" || recorded[1].Method != "eth_blockNumber" {
		t.Errorf("unexpected recorded calls: %+v", recorded)
	}
}

func TestFakeProviderMethodMismatch(t *testing.T) {
	fake := NewFakeProvider()
	fake.Script("eth_chainId", "0x1", nil)

	if _, err := fake.Send(context.Background(), "eth_blockNumber", nil); err == nil {
		t.Fatal("expected error on method mismatch")
	}
}

func TestValidateWebSocketURL(t *testing.T) {
	cases := []struct {
		url     string
		wantErr bool
	}{
		{"ws://localhost:8545", false},
		{"wss://node.example.com", false},
		{"WSS://node.example.com", false},
		{"http://localhost:8545", true},
		{"ws://", true},
		{"not a url at all", true},
	}
	for _, c := range cases {
		err := ValidateWebSocketURL(c.url)
		if (err != nil) != c.wantErr {
			t.Errorf("ValidateWebSocketURL(%q) error = %v, wantErr %v", c.url, err, c.wantErr)
		}
	}
}
