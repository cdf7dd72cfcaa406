package ethclient

import (
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

// CallResult is the outcome of a simulated call: either a success carrying
// the return data, or a failure carrying the node's error message and any
// raw revert data. Which fields are meaningful follows the Success flag,
// the same data-over-type-hierarchy shape rpcerr uses for its error sum.
//
// The logs collection is copied on construction and only ever handed out
// as a copy, so no caller can mutate a result after the fact.
type CallResult struct {
	success      bool
	gasUsed      uint64
	logs         []Log
	returnData   ethtypes.HexData
	errorMessage string
	revertData   *ethtypes.HexData
}

// NewCallSuccess builds a successful call outcome.
func NewCallSuccess(gasUsed uint64, logs []Log, returnData ethtypes.HexData) CallResult {
	return CallResult{success: true, gasUsed: gasUsed, logs: copyLogs(logs), returnData: returnData}
}

// NewCallFailure builds a failed call outcome. revertData is the raw
// revert payload when the node supplied one, nil otherwise.
func NewCallFailure(gasUsed uint64, logs []Log, errorMessage string, revertData *ethtypes.HexData) CallResult {
	return CallResult{success: false, gasUsed: gasUsed, logs: copyLogs(logs), errorMessage: errorMessage, revertData: revertData}
}

func copyLogs(logs []Log) []Log {
	if len(logs) == 0 {
		return nil
	}
	out := make([]Log, len(logs))
	copy(out, logs)
	return out
}

// Success reports which member of the sum this result is.
func (r CallResult) Success() bool { return r.success }

// GasUsed returns the gas consumed by the call, when known.
func (r CallResult) GasUsed() uint64 { return r.gasUsed }

// Logs returns a copy of the logs emitted during the call.
func (r CallResult) Logs() []Log { return copyLogs(r.logs) }

// ReturnData returns the call's return payload; meaningful only on success.
func (r CallResult) ReturnData() ethtypes.HexData { return r.returnData }

// ErrorMessage returns the node's failure message; meaningful only on failure.
func (r CallResult) ErrorMessage() string { return r.errorMessage }

// RevertData returns the raw revert payload when the node supplied one;
// meaningful only on failure.
func (r CallResult) RevertData() *ethtypes.HexData { return r.revertData }
