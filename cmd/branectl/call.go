package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func callCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <to> <data>",
		Short: "Perform a raw read-only eth_call",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, args[0], args[1])
		},
	}
	return cmd
}

func runCall(cmd *cobra.Command, toStr, dataStr string) error {
	to, err := ethtypes.NewAddress(toStr)
	if err != nil {
		return err
	}
	data, err := ethtypes.NewHexData(dataStr)
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

	result, err := client.Call(ctx, ethclient.CallRequest{To: &to, Data: data}, ethtypes.Latest)
	if err != nil {
		return fmt.Errorf("branectl call: %w", err)
	}
	fmt.Println(result.String())
	return nil
}
