package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/transport"
)

func watchCmd() *cobra.Command {
	var wsURL string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream new block headers over a WebSocket subscription until Ctrl+C",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(wsURL)
		},
	}
	cmd.Flags().StringVar(&wsURL, "ws-url", "", "WebSocket endpoint (required)")
	cmd.MarkFlagRequired("ws-url")
	return cmd
}

func runWatch(wsURL string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := transport.DialWebSocket(ctx, "watch", wsURL)
	if err != nil {
		return fmt.Errorf("branectl watch: %w", err)
	}
	client := ethclient.New(ws)
	defer client.Close()

	sub, err := client.SubscribeToNewHeads(ctx, func(b *ethclient.Block) {
		fmt.Printf("block %d  hash=%s  txs=%d\n", b.Number, b.Hash, len(b.Transactions))
	})
	if err != nil {
		return fmt.Errorf("branectl watch: %w", err)
	}

	<-ctx.Done()
	return sub.Close(context.Background())
}
