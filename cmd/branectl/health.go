package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/noise-xyz/brane/internal/config"
	"github.com/noise-xyz/brane/internal/diag"
	"github.com/noise-xyz/brane/internal/display"
	"github.com/noise-xyz/brane/internal/transport"
)

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check latency and block height across every configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd)
		},
	}
	return cmd
}

func runHealth(cmd *cobra.Command) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath, _ = cmd.Root().PersistentFlags().GetString("config")
	}
	cat, err := config.LoadCatalog(cfgPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dial := func(p config.ProviderConfig) (transport.Provider, error) {
		timeout := p.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		return transport.NewHTTPProvider(p.Name, p.URL, timeout), nil
	}

	reports := diag.CheckAll(ctx, cat.Providers, dial)
	display.RenderHealth(reports)
	return nil
}
