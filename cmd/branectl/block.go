package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/display"
	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func blockCmd() *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "block",
		Short: "Fetch and print a block",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlock(cmd, number)
		},
	}
	cmd.Flags().StringVar(&number, "number", "latest", "block tag or 0x-prefixed number")
	return cmd
}

func runBlock(cmd *cobra.Command, numberArg string) error {
	tag, err := ethtypes.ParseBlockTag(numberArg)
	if err != nil {
		return err
	}

	cat, profile, err := resolveChain(cmd)
	if err != nil {
		return err
	}
	provider, err := dialProvider(cat, profile)
	if err != nil {
		return err
	}
	client := ethclient.New(provider)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	block, err := client.GetBlockByNumber(ctx, tag, false)
	if err != nil {
		return fmt.Errorf("branectl block: %w", err)
	}
	if block == nil {
		return fmt.Errorf("branectl block: node returned no block for %s", tag)
	}

	formatter := &display.BlockFormatter{Block: block, Provider: profile.Name, Latency: time.Since(start)}
	return formatter.Format(os.Stdout)
}
