package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JayWelsh/claim-against-nft/config"
)

func newConfigCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage nftclaim configuration",
	}
	cmd.AddCommand(newConfigInitCommand(o), newConfigShowCommand(o))
	return cmd
}

func newConfigInitCommand(o *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := o.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			cfg := config.DefaultConfig()
			cfg.DataDir = o.dataDir()
			if err := config.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

type configDoc struct {
	DataDir    string  `yaml:"datadir"`
	Network    string  `yaml:"network"`
	RPCURL     string  `yaml:"rpcurl"`
	RPCUser    string  `yaml:"rpcuser,omitempty"`
	RPCPass    string  `yaml:"rpcpass,omitempty"`
	Collection string  `yaml:"collection"`
	RateLimit  float64 `yaml:"ratelimit"`
	OpensAt    int64   `yaml:"opensat"`
	ClosesAt   int64   `yaml:"closesat"`
	UnitFee    string  `yaml:"unitfee"`
	Recipients string  `yaml:"recipients"`
	Shares     string  `yaml:"shares"`
	Admin      string  `yaml:"admin"`
	LogLevel   string  `yaml:"loglevel"`
	LogFile    string  `yaml:"logfile"`
}

func newConfigShowCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			doc := configDoc(cfg)
			if doc.RPCPass != "" {
				doc.RPCPass = "********"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", o.configPath())
			return writeYAML(cmd, doc)
		},
	}
}
