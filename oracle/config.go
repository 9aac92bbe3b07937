package oracle

import "fmt"

// RPCConfig holds the connection parameters for an EVM node's JSON-RPC interface.
type RPCConfig struct {
	URL        string  `json:"url"`
	User       string  `json:"user"`
	Password   string  `json:"password"`
	Network    string  `json:"network"`
	Collection string  `json:"collection"` // token contract address
	RateLimit  float64 `json:"rate_limit"` // requests per second, 0 = unlimited
}

// NetworkPresets contains default RPC configurations for local networks.
// Public networks are intentionally omitted to require explicit configuration.
var NetworkPresets = map[string]RPCConfig{
	"localhost": {URL: "http://127.0.0.1:8545"},
	"hardhat":   {URL: "http://127.0.0.1:8545"},
}

// ResolveConfig merges RPC configuration from three sources with decreasing priority:
//  1. CLI flags (highest priority)
//  2. Environment variables (NFTCLAIM_RPC_URL, NFTCLAIM_RPC_USER, NFTCLAIM_RPC_PASS, NFTCLAIM_COLLECTION)
//  3. Network presets (lowest priority, local networks only)
func ResolveConfig(flags *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	result := RPCConfig{Network: network}

	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	if env != nil {
		if v, ok := env["NFTCLAIM_RPC_URL"]; ok && v != "" {
			result.URL = v
		}
		if v, ok := env["NFTCLAIM_RPC_USER"]; ok && v != "" {
			result.User = v
		}
		if v, ok := env["NFTCLAIM_RPC_PASS"]; ok && v != "" {
			result.Password = v
		}
		if v, ok := env["NFTCLAIM_COLLECTION"]; ok && v != "" {
			result.Collection = v
		}
	}

	if flags != nil {
		if flags.URL != "" {
			result.URL = flags.URL
		}
		if flags.User != "" {
			result.User = flags.User
		}
		if flags.Password != "" {
			result.Password = flags.Password
		}
		if flags.Collection != "" {
			result.Collection = flags.Collection
		}
		if flags.RateLimit > 0 {
			result.RateLimit = flags.RateLimit
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("%w: network %q has no preset (set --rpc-url or NFTCLAIM_RPC_URL)", ErrMissingRPCURL, network)
	}
	return &result, nil
}
