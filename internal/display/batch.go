package display

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// BatchRow is one rendered line of a multicall batch's results: the
// caller decodes each BatchHandle[T] into a display-friendly string
// before calling RenderBatch, since BatchResult[T] is generic per-call
// and this package only formats already-stringified values.
type BatchRow struct {
	Label   string
	Success bool
	Value   string
	Revert  string
}

// RenderBatch prints a multicall batch's resolved results as a table.
func RenderBatch(rows []BatchRow) {
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Call", "Status", "Value")
	tbl.WithHeaderFormatter(headerFmt)
	tbl.WithWriter(os.Stdout)

	for _, r := range rows {
		if !r.Success {
			reason := r.Revert
			if reason == "" {
				reason = "reverted"
			}
			tbl.AddRow(r.Label, red("FAIL"), red(reason))
			continue
		}
		tbl.AddRow(r.Label, green("OK"), r.Value)
	}
	tbl.Print()
}

// RenderBalance prints a single-account balance line.
func RenderBalance(address, weiDecimal string) {
	fmt.Printf("%s  %s wei\n", bold(address), weiDecimal)
}
