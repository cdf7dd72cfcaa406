// Package diag implements brane's multi-provider health and latency
// comparator: fan a single read-only call out across every configured
// chain provider concurrently, and report per-provider latency, block
// height, and error.
package diag

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noise-xyz/brane/internal/config"
	"github.com/noise-xyz/brane/internal/ethclient"
	"github.com/noise-xyz/brane/internal/transport"
)

// Report is one provider's outcome from a health/latency sweep.
type Report struct {
	ProviderName string
	LatencyMs    int64
	BlockHeight  uint64
	Err          error
}

// Healthy reports whether the provider answered without error.
func (r Report) Healthy() bool { return r.Err == nil }

// CheckAll queries the latest block against every provider concurrently
// and collects per-provider results in provider order. One provider's
// error does not cancel the others' in-flight calls.
func CheckAll(ctx context.Context, providers []config.ProviderConfig, dial func(config.ProviderConfig) (transport.Provider, error)) []Report {
	reports := make([]Report, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			reports[i] = checkOne(gctx, p, dial)
			return nil // never fail-fast: always collect every provider's result
		})
	}
	_ = g.Wait()
	return reports
}

func checkOne(ctx context.Context, p config.ProviderConfig, dial func(config.ProviderConfig) (transport.Provider, error)) Report {
	start := time.Now()

	raw, err := dial(p)
	if err != nil {
		return Report{ProviderName: p.Name, Err: err}
	}
	defer raw.Close()

	client := ethclient.New(raw)
	block, err := client.GetLatestBlock(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return Report{ProviderName: p.Name, LatencyMs: latency, Err: err}
	}

	return Report{ProviderName: p.Name, LatencyMs: latency, BlockHeight: block.Number}
}

// Compare partitions a sweep's outcome into providers that agree on the
// tallest observed block height within maxLag blocks, and providers
// lagging beyond it (or unreachable).
func Compare(reports []Report, maxLag uint64) (inSync, lagging []Report) {
	var tallest uint64
	for _, r := range reports {
		if r.Healthy() && r.BlockHeight > tallest {
			tallest = r.BlockHeight
		}
	}
	for _, r := range reports {
		if !r.Healthy() {
			lagging = append(lagging, r)
			continue
		}
		if tallest-r.BlockHeight > maxLag {
			lagging = append(lagging, r)
		} else {
			inSync = append(inSync, r)
		}
	}
	return inSync, lagging
}
