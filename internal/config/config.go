// Package config loads brane's chain-profile catalog and the demo CLI's
// provider list from YAML, expanding ${VAR} environment references so
// secrets never live in the checked-in file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noise-xyz/brane/pkg/ethtypes"
)

// ChainProfile describes the fee-market and well-known-contract facts the
// gas strategy and multicall batch need for a given chain.
type ChainProfile struct {
	Name                  string `yaml:"name"`
	ChainID               uint64 `yaml:"chain_id"`
	SupportsEIP1559       bool   `yaml:"supports_eip1559"`
	DefaultPriorityFeeWei string `yaml:"default_priority_fee_wei"`
	AggregatorAddress     string `yaml:"aggregator_address"`
}

// DefaultPriorityFee parses DefaultPriorityFeeWei into a Wei amount.
func (p ChainProfile) DefaultPriorityFee() (ethtypes.Wei, error) {
	if p.DefaultPriorityFeeWei == "" {
		return ethtypes.ZeroWei, nil
	}
	return ethtypes.NewWeiFromDecimal(p.DefaultPriorityFeeWei)
}

// Aggregator parses AggregatorAddress into an ethtypes.Address.
func (p ChainProfile) Aggregator() (ethtypes.Address, error) {
	return ethtypes.NewAddress(p.AggregatorAddress)
}

// ProviderConfig is one RPC endpoint entry for the demo CLI and the
// diagnostics fan-out.
type ProviderConfig struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Catalog is the top-level chains.yaml contents: a chain profile per
// supported network plus the demo CLI's provider list.
type Catalog struct {
	Chains    []ChainProfile   `yaml:"chains"`
	Providers []ProviderConfig `yaml:"providers"`
	Defaults  struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"defaults"`
}

// LoadCatalog reads chains.yaml, expands ${VAR} references, and applies
// the catalog-wide default timeout to providers that don't set one.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cat Catalog
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cat); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	for i := range cat.Providers {
		if cat.Providers[i].Timeout == 0 {
			cat.Providers[i].Timeout = cat.Defaults.Timeout
		}
	}
	return &cat, nil
}

// ByChainID finds the profile for the given chain id.
func (c *Catalog) ByChainID(chainID uint64) (ChainProfile, bool) {
	for _, p := range c.Chains {
		if p.ChainID == chainID {
			return p, true
		}
	}
	return ChainProfile{}, false
}

// ByName finds the profile with the given name.
func (c *Catalog) ByName(name string) (ChainProfile, bool) {
	for _, p := range c.Chains {
		if p.Name == name {
			return p, true
		}
	}
	return ChainProfile{}, false
}
