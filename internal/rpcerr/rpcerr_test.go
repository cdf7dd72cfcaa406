package rpcerr

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Classification
		reason  string
	}{
		{"nonce too low", "nonce too low", ClassNonceTooLow, ""},
		{"insufficient funds", "insufficient funds for gas * price + value", ClassInsufficientFunds, ""},
		{"already known", "already known", ClassAlreadyKnown, ""},
		{"invalid sender", "invalid sender", ClassInvalidSender, ""},
		{"filter not found", "filter not found", ClassFilterNotFound, ""},
		{"block range too large", "block range is too large, range: 5001", ClassBlockRangeTooLarge, ""},
		{"revert with reason", "execution reverted: Unauthorized", ClassReverted, "Unauthorized"},
		{"revert no reason", "execution reverted", ClassReverted, ""},
		{"unknown", "some other node-specific failure", ClassGeneric, ""},
		{"case insensitive", "NONCE TOO LOW", ClassNonceTooLow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewRPC("testOp", -32000, tt.message, "")
			if e.Classification != tt.want {
				t.Errorf("Classification = %v, want %v", e.Classification, tt.want)
			}
			if e.DecodedReason != tt.reason {
				t.Errorf("DecodedReason = %q, want %q", e.DecodedReason, tt.reason)
			}
		})
	}
}

func TestErrorMessageNamesOperation(t *testing.T) {
	e := NewChainMismatch("sendTransaction", 1, 5)
	msg := e.Error()
	if !contains(msg, "sendTransaction") || !contains(msg, "expected=1") || !contains(msg, "actual=5") {
		t.Errorf("Error() = %q, missing expected fields", msg)
	}
}

func TestTransportErrorCarriesCause(t *testing.T) {
	cause := NewInvalidArgument("dial", "bad host")
	e := NewTransport("PublicClient.call", 503, cause)
	if e.Unwrap() != cause {
		t.Error("Unwrap() should return the wrapped cause")
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
