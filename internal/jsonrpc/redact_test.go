package jsonrpc

import "testing"

func TestRedactNestedSecret(t *testing.T) {
	params := []interface{}{
		map[string]interface{}{
			"privateKey": "0x1234",
			"nested": map[string]interface{}{
				"mnemonic": "abandon abandon",
				"keep":     "visible",
			},
			"list": []interface{}{
				map[string]interface{}{"seed": "topsecret"},
			},
		},
	}

	out := Redact(params)
	top := out[0].(map[string]interface{})
	if top["privateKey"] != redactedPlaceholder {
		t.Errorf("privateKey not redacted: %v", top["privateKey"])
	}
	nested := top["nested"].(map[string]interface{})
	if nested["mnemonic"] != redactedPlaceholder {
		t.Errorf("nested mnemonic not redacted: %v", nested["mnemonic"])
	}
	if nested["keep"] != "visible" {
		t.Errorf("unrelated key was mutated: %v", nested["keep"])
	}
	list := top["list"].([]interface{})
	item := list[0].(map[string]interface{})
	if item["seed"] != redactedPlaceholder {
		t.Errorf("list-nested seed not redacted: %v", item["seed"])
	}

	// Original input must be untouched.
	origTop := params[0].(map[string]interface{})
	if origTop["privateKey"] != "0x1234" {
		t.Errorf("original params were mutated")
	}
}

func TestRedactCaseInsensitive(t *testing.T) {
	params := []interface{}{map[string]interface{}{"PRIVATE_KEY": "0xabc"}}
	out := Redact(params)
	if out[0].(map[string]interface{})["PRIVATE_KEY"] != redactedPlaceholder {
		t.Error("expected case-insensitive match on PRIVATE_KEY")
	}
}
