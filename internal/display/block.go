package display

import (
	"fmt"
	"io"
	"time"

	"github.com/noise-xyz/brane/internal/ethclient"
)

// BlockFormatter formats a single decoded block for terminal display.
type BlockFormatter struct {
	Block    *ethclient.Block
	Provider string
	Latency  time.Duration
}

// Format writes the formatted block output to w.
func (f *BlockFormatter) Format(w io.Writer) error {
	b := f.Block

	fmt.Fprintf(w, "\nBlock #%d\n", b.Number)
	fmt.Fprintln(w, "===================================================")
	fmt.Fprintf(w, "  Hash:         %s\n", b.Hash)
	fmt.Fprintf(w, "  Parent:       %s\n", b.ParentHash)
	fmt.Fprintf(w, "  Timestamp:    %s\n", time.Unix(int64(b.Timestamp), 0).UTC().Format(time.RFC3339))
	if b.GasLimit > 0 {
		fmt.Fprintf(w, "  Gas:          %d / %d (%.1f%%)\n", b.GasUsed, b.GasLimit, float64(b.GasUsed)/float64(b.GasLimit)*100)
	}
	if b.BaseFeePerGas != nil {
		fmt.Fprintf(w, "  Base Fee:     %s wei\n", b.BaseFeePerGas.Decimal())
	}
	fmt.Fprintf(w, "  Transactions: %d\n", len(b.Transactions))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Provider:     %s (%dms)\n", f.Provider, f.Latency.Milliseconds())
	fmt.Fprintln(w)

	return nil
}
