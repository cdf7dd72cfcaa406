// Command branectl is brane's demo CLI: a thin cobra wrapper that wires
// the chain-profile catalog, the typed PublicClient, the multicall batch,
// the provider health sweep, and the test-node controller together for
// manual exercise against a real or local (Anvil/Hardhat/Ganache) node.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/config"
	"github.com/noise-xyz/brane/internal/env"
	"github.com/noise-xyz/brane/internal/transport"
)

func main() {
	env.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branectl",
		Short: "Manual exercise CLI for the brane Ethereum RPC client",
	}
	cmd.PersistentFlags().String("config", "chains.yaml", "chain catalog path")
	cmd.PersistentFlags().String("chain", "", "chain profile name (defaults to the catalog's first entry)")

	cmd.AddCommand(balanceCmd())
	cmd.AddCommand(blockCmd())
	cmd.AddCommand(callCmd())
	cmd.AddCommand(batchCmd())
	cmd.AddCommand(healthCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(testnodeCmd())
	return cmd
}

// resolveChain loads the catalog named by --config and returns the
// profile named by --chain, or the catalog's first entry if --chain is
// unset.
func resolveChain(cmd *cobra.Command) (*config.Catalog, config.ChainProfile, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath, _ = cmd.Root().PersistentFlags().GetString("config")
	}
	cat, err := config.LoadCatalog(cfgPath)
	if err != nil {
		return nil, config.ChainProfile{}, err
	}

	name, _ := cmd.Flags().GetString("chain")
	if name == "" {
		name, _ = cmd.Root().PersistentFlags().GetString("chain")
	}
	if name != "" {
		profile, ok := cat.ByName(name)
		if !ok {
			return nil, config.ChainProfile{}, fmt.Errorf("branectl: no chain profile named %q", name)
		}
		return cat, profile, nil
	}
	if len(cat.Chains) == 0 {
		return nil, config.ChainProfile{}, fmt.Errorf("branectl: catalog %q has no chains configured", cfgPath)
	}
	return cat, cat.Chains[0], nil
}

// dialProvider connects to the first configured provider over HTTP.
func dialProvider(cat *config.Catalog, profile config.ChainProfile) (transport.Provider, error) {
	if len(cat.Providers) == 0 {
		return nil, fmt.Errorf("branectl: no providers configured for chain %q", profile.Name)
	}
	p := cat.Providers[0]
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return transport.NewHTTPProvider(p.Name, p.URL, timeout), nil
}
