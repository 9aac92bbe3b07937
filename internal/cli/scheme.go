package cli

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSchemeCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheme",
		Short: "Show or replace the fee payout scheme",
	}
	cmd.AddCommand(newSchemeShowCommand(o), newSchemeSetCommand(o))
	return cmd
}

func newSchemeShowCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active payout scheme as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			scheme, err := a.contract.FeePayoutScheme()
			if err != nil {
				return err
			}
			return writeYAML(cmd, schemeDocs(scheme))
		},
	}
}

func newSchemeSetCommand(o *rootOptions) *cobra.Command {
	var from, file string

	cmd := &cobra.Command{
		Use:   "set --from ADDRESS --file SCHEME.yaml",
		Short: "Replace the payout scheme",
		Long: `Replace the payout scheme with the entries in a YAML file:

  - recipient: 0x...
    share: 9000
  - recipient: 0x...
    share: 1000

Shares are basis points; each must be in 1..10000 and together they must
total exactly 10000.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := parseCaller(from)
			if err != nil {
				return err
			}
			recipients, shares, err := readSchemeFile(file)
			if err != nil {
				return err
			}

			a, err := o.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.contract.UpdateFeePayoutScheme(cmd.Context(), caller, recipients, shares); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payout scheme updated (%d recipients)\n", len(recipients))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "caller address")
	cmd.Flags().StringVar(&file, "file", "", "YAML scheme file")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readSchemeFile(path string) ([]common.Address, []uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var entries []schemeEntryDoc
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	recipients := make([]common.Address, 0, len(entries))
	shares := make([]uint64, 0, len(entries))
	for i, e := range entries {
		if !common.IsHexAddress(e.Recipient) {
			return nil, nil, fmt.Errorf("%s: entry %d: invalid recipient %q", path, i, e.Recipient)
		}
		recipients = append(recipients, common.HexToAddress(e.Recipient))
		shares = append(shares, e.Share)
	}
	return recipients, shares, nil
}
