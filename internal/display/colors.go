// Package display renders brane's terminal output: health/latency tables,
// block summaries, and multicall batch results.
package display

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// colorLatency applies traffic-light coloring to a latency value.
func colorLatency(ms int64) string {
	switch {
	case ms < 100:
		return green(fmt.Sprintf("%dms", ms))
	case ms < 300:
		return yellow(fmt.Sprintf("%dms", ms))
	default:
		return red(fmt.Sprintf("%dms", ms))
	}
}

// colorLag color-codes how far a provider trails the tallest height.
func colorLag(lag uint64) string {
	if lag == 0 {
		return dim("—")
	}
	if lag <= 2 {
		return yellow(fmt.Sprintf("-%d", lag))
	}
	return red(fmt.Sprintf("-%d", lag))
}

func colorStatus(healthy bool) string {
	if healthy {
		return green("OK")
	}
	return red("DOWN")
}
