package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/display"
	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Fetch an account's balance at the latest block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, args[0])
		},
	}
	return cmd
}

func runBalance(cmd *cobra.Command, addrStr string) error {
	addr, err := ethtypes.NewAddress(addrStr)
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

	balance, err := client.GetBalance(ctx, addr, ethtypes.Latest)
	if err != nil {
		return fmt.Errorf("branectl balance: %w", err)
	}
	display.RenderBalance(addr.String(), balance.Decimal())
	return nil
}
