// Package cli implements the nftclaim command line: an operator tool over a
// bbolt-backed claim ledger whose ownership checks go to an EVM node.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JayWelsh/claim-against-nft/config"
)

// Version is the nftclaim release.
const Version = "0.1.0"

type rootOptions struct {
	v       *viper.Viper
	cfgFile string
	stderr  io.Writer
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"datadir":    "datadir",
	"network":    "network",
	"rpc-url":    "rpcurl",
	"rpc-user":   "rpcuser",
	"rpc-pass":   "rpcpass",
	"collection": "collection",
	"rate-limit": "ratelimit",
	"log-level":  "loglevel",
	"log-file":   "logfile",
}

// envKeys are environment variables that don't follow NFTCLAIM_<KEY>.
var envKeys = map[string]string{
	"rpcurl":  "NFTCLAIM_RPC_URL",
	"rpcuser": "NFTCLAIM_RPC_USER",
	"rpcpass": "NFTCLAIM_RPC_PASS",
}

// NewRootCommand builds the nftclaim command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{v: viper.New()}

	root := &cobra.Command{
		Use:   "nftclaim",
		Short: "Claim ledger and fee distribution for NFT holders",
		Long: `nftclaim records one-time claims against the tokens of an NFT collection,
checks ownership against an EVM node, and distributes collected claim fees
to payout recipients by basis-point share.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (NFTCLAIM_*)
  3. Config file (<datadir>/config)
  4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			o.stderr = cmd.ErrOrStderr()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file (default: <datadir>/config)")
	pf.String("datadir", "", "data directory (default: "+config.DefaultDataDir()+")")
	pf.String("network", "", "network preset for the RPC endpoint (localhost, hardhat)")
	pf.String("rpc-url", "", "EVM JSON-RPC endpoint")
	pf.String("rpc-user", "", "RPC basic auth user")
	pf.String("rpc-pass", "", "RPC basic auth password")
	pf.String("collection", "", "NFT collection contract address")
	pf.Float64("rate-limit", 0, "RPC requests per second (0 = unlimited)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "rotate logs into this file instead of stderr")
	for flag, key := range flagKeys {
		_ = o.v.BindPFlag(key, pf.Lookup(flag))
	}

	o.v.SetEnvPrefix("NFTCLAIM")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()
	for key, env := range envKeys {
		_ = o.v.BindEnv(key, env, "NFTCLAIM_"+strings.ToUpper(key))
	}

	root.AddCommand(
		newClaimCommand(o),
		newStatusCommand(o),
		newDistributeCommand(o),
		newSchemeCommand(o),
		newConfigCommand(o),
		newVersionCommand(),
	)
	return root
}

// Execute runs the nftclaim command line.
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nftclaim v%s\n", Version)
		},
	}
}

// dataDir resolves the data directory before the config file is read.
func (o *rootOptions) dataDir() string {
	if d := o.v.GetString("datadir"); d != "" {
		return d
	}
	return config.DefaultDataDir()
}

func (o *rootOptions) configPath() string {
	if o.cfgFile != "" {
		return o.cfgFile
	}
	return config.ConfigPath(o.dataDir())
}

// loadConfig reads the config file, if any, and layers environment and
// flag values over it.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath())
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return cfg, err
	}
	for _, key := range config.Keys {
		if !o.v.IsSet(key) {
			continue
		}
		if err := cfg.Set(key, o.v.GetString(key)); err != nil {
			return cfg, err
		}
	}
	if cfg.DataDir == "" || o.v.IsSet("datadir") {
		cfg.DataDir = o.dataDir()
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
