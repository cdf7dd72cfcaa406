package jsonrpc

import "strings"

// secretKeys is the case-insensitive set of param field names redacted from
// debug logs.
var secretKeys = map[string]bool{
	"privatekey":  true,
	"private_key": true,
	"mnemonic":    true,
	"seed":        true,
	"password":    true,
}

const redactedPlaceholder = "0x***[REDACTED]***"

// Redact returns a deep copy of params with any map key matching the secret
// set replaced by a placeholder, recursing through nested maps and slices.
// The original value is never mutated.
func Redact(params []interface{}) []interface{} {
	out := make([]interface{}, len(params))
	for i, p := range params {
		out[i] = redactValue(p)
	}
	return out
}

func redactValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		copied := make(map[string]interface{}, len(val))
		for k, sub := range val {
			if secretKeys[strings.ToLower(k)] {
				copied[k] = redactedPlaceholder
			} else {
				copied[k] = redactValue(sub)
			}
		}
		return copied
	case []interface{}:
		copied := make([]interface{}, len(val))
		for i, sub := range val {
			copied[i] = redactValue(sub)
		}
		return copied
	default:
		return v
	}
}
