package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/testnode"
	"github.com/noise-xyz/brane/internal/transport"
	"github.com/noise-xyz/brane/pkg/ethtypes"
)

func testnodeCmd() *cobra.Command {
	var (
		backendName string
		httpURL     string
	)

	cmd := &cobra.Command{
		Use:   "testnode impersonate <address>",
		Short: "Open and immediately close an impersonation session against a local dev node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "impersonate" {
				return fmt.Errorf("branectl testnode: unknown subcommand %q (want \"impersonate\")", args[0])
			}
			return runTestnodeImpersonate(backendName, httpURL, args[1])
		},
	}
	cmd.Flags().StringVar(&backendName, "backend", "anvil", "anvil|hardhat|ganache")
	cmd.Flags().StringVar(&httpURL, "url", "http://127.0.0.1:8545", "dev node RPC endpoint")
	return cmd
}

func parseBackend(name string) (testnode.Backend, error) {
	switch name {
	case "anvil":
		return testnode.Anvil, nil
	case "hardhat":
		return testnode.Hardhat, nil
	case "ganache":
		return testnode.Ganache, nil
	default:
		return 0, fmt.Errorf("branectl testnode: unknown backend %q", name)
	}
}

func runTestnodeImpersonate(backendName, httpURL, addrStr string) error {
	backend, err := parseBackend(backendName)
	if err != nil {
		return err
	}
	addr, err := ethtypes.NewAddress(addrStr)
	if err != nil {
		return err
	}

	provider := transport.NewHTTPProvider("testnode", httpURL, 10*time.Second)
	ctrl := testnode.New(provider, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sess, err := ctrl.Impersonate(ctx, addr)
	if err != nil {
		return fmt.Errorf("branectl testnode: %w", err)
	}
	fmt.Printf("impersonating %s\n", sess.Address())
	sess.Close(ctx)
	fmt.Println("impersonation session closed")
	return nil
}
