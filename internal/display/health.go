package display

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/noise-xyz/brane/internal/diag"
)

// RenderHealth prints a health/latency table for a diag sweep and flags
// any block-height mismatch across healthy providers.
func RenderHealth(reports []diag.Report) {
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Provider", "Status", "Latency", "Block", "Lag")
	tbl.WithHeaderFormatter(headerFmt)
	tbl.WithWriter(os.Stdout)

	var tallest uint64
	for _, r := range reports {
		if r.Healthy() && r.BlockHeight > tallest {
			tallest = r.BlockHeight
		}
	}

	heightGroups := make(map[uint64][]string)
	for _, r := range reports {
		if !r.Healthy() {
			tbl.AddRow(r.ProviderName, colorStatus(false), dim("—"), dim("—"), red(r.Err.Error()))
			continue
		}
		lag := tallest - r.BlockHeight
		tbl.AddRow(r.ProviderName, colorStatus(true), colorLatency(r.LatencyMs), fmt.Sprintf("%d", r.BlockHeight), colorLag(lag))
		heightGroups[r.BlockHeight] = append(heightGroups[r.BlockHeight], r.ProviderName)
	}
	tbl.Print()

	if len(heightGroups) > 1 {
		fmt.Println()
		fmt.Println(yellow("block height mismatch detected:"))
		for height, providers := range heightGroups {
			fmt.Printf("  %d -> %v\n", height, providers)
		}
	}
}
