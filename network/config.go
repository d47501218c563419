package network

import "fmt"

// Environment variables read by ResolveConfig.
const (
	EnvExplorerURL = "LIBBTC_EXPLORER_URL"
	EnvRPCURL      = "LIBBTC_RPC_URL"
	EnvRPCUser     = "LIBBTC_RPC_USER"
	EnvRPCPass     = "LIBBTC_RPC_PASS"
)

// SourceConfig selects where transactions are fetched from. RPCURL wins
// over ExplorerURL when both are set.
type SourceConfig struct {
	Network     string `json:"network"`
	ExplorerURL string `json:"explorer_url"`
	RPCURL      string `json:"rpc_url"`
	RPCUser     string `json:"rpc_user"`
	RPCPassword string `json:"rpc_password"`
}

// Testnet reports whether the configuration targets testnet.
func (c *SourceConfig) Testnet() bool { return c.Network == "testnet" }

// NetworkPresets holds the defaults per network. Regtest has no public
// explorer, so its preset is a local node.
var NetworkPresets = map[string]SourceConfig{
	"mainnet": {ExplorerURL: DefaultExplorerURL},
	"testnet": {ExplorerURL: DefaultExplorerURL},
	"regtest": {RPCURL: "http://localhost:18443", RPCUser: "libbtc", RPCPassword: "libbtc"},
}

// ResolveConfig merges source configuration with decreasing priority:
//  1. flags
//  2. environment (LIBBTC_EXPLORER_URL, LIBBTC_RPC_URL, LIBBTC_RPC_USER, LIBBTC_RPC_PASS)
//  3. NetworkPresets
func ResolveConfig(flags *SourceConfig, env map[string]string, network string) (*SourceConfig, error) {
	result := NetworkPresets[network]
	result.Network = network

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	override(&result.ExplorerURL, env[EnvExplorerURL])
	override(&result.RPCURL, env[EnvRPCURL])
	override(&result.RPCUser, env[EnvRPCUser])
	override(&result.RPCPassword, env[EnvRPCPass])

	if flags != nil {
		override(&result.ExplorerURL, flags.ExplorerURL)
		override(&result.RPCURL, flags.RPCURL)
		override(&result.RPCUser, flags.RPCUser)
		override(&result.RPCPassword, flags.RPCPassword)
	}

	if result.ExplorerURL == "" && result.RPCURL == "" {
		return nil, fmt.Errorf("%w for %q (set an explorer or RPC URL, %s or %s)",
			ErrNoSource, network, EnvExplorerURL, EnvRPCURL)
	}
	return &result, nil
}

// NewSource returns the ChainSource cfg selects.
func NewSource(cfg *SourceConfig) (ChainSource, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("%w: source config", ErrNilParam)
	case cfg.RPCURL != "":
		log.Debugf("Using node RPC at %s", cfg.RPCURL)
		return NewRPCClient(*cfg), nil
	case cfg.ExplorerURL != "":
		log.Debugf("Using explorer at %s (testnet=%v)", cfg.ExplorerURL, cfg.Testnet())
		return NewExplorerClient(cfg.ExplorerURL, cfg.Testnet()), nil
	default:
		return nil, ErrNoSource
	}
}
