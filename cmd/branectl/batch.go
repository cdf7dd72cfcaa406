package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/abi"
	"github.com/noise-xyz/brane/internal/display"
	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/multicall"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

var balanceOfFn = abi.Function{
	Name:            "balanceOf",
	Inputs:          []abi.Param{{Name: "account", Type: "address"}},
	Outputs:         []abi.Param{{Name: "", Type: "uint256"}},
	StateMutability: "view",
}

func batchCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "batch <account...>",
		Short: "Batch balanceOf(account) across one ERC-20 token via multicall",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, token, args)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "ERC-20 token contract address (required)")
	cmd.MarkFlagRequired("token")
	return cmd
}

func runBatch(cmd *cobra.Command, tokenStr string, accountStrs []string) error {
	token, err := ethtypes.NewAddress(tokenStr)
	if err != nil {
		return err
	}

	cat, profile, err := resolveChain(cmd)
	if err != nil {
		return err
	}
	aggregator, err := profile.Aggregator()
	if err != nil {
		return fmt.Errorf("branectl batch: %w", err)
	}
	provider, err := dialProvider(cat, profile)
	if err != nil {
		return err
	}
	client := ethclient.New(provider)
	defer client.Close()

	batch := client.CreateBatch(aggregator)

	type pending struct {
		account string
		handle  *multicall.BatchHandle[*big.Int]
	}
	var handles []pending
	for _, accStr := range accountStrs {
		account, err := ethtypes.NewAddress(accStr)
		if err != nil {
			return err
		}
		handle, err := multicall.Call(batch, token, balanceOfFn, []interface{}{account}, abi.DecodeUint256)
		if err != nil {
			return fmt.Errorf("branectl batch: %w", err)
		}
		handles = append(handles, pending{account: accStr, handle: handle})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := batch.Execute(ctx); err != nil {
		return fmt.Errorf("branectl batch: %w", err)
	}

	var rows []display.BatchRow
	for _, p := range handles {
		result, err := p.handle.Result()
		if err != nil {
			return err
		}
		if !result.Success {
			reason := ""
			if result.RevertReason != nil {
				reason = *result.RevertReason
			}
			rows = append(rows, display.BatchRow{Label: p.account, Success: false, Revert: reason})
			continue
		}
		rows = append(rows, display.BatchRow{Label: p.account, Success: true, Value: (*result.Data).String()})
	}
	display.RenderBatch(rows)
	return nil
}
