package cli

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/JayWelsh/claim-against-nft/claim"
	"github.com/JayWelsh/claim-against-nft/token"
)

func parseCaller(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid --from address %q", s)
	}
	return common.HexToAddress(s), nil
}

func newClaimCommand(o *rootOptions) *cobra.Command {
	var from, payment string

	cmd := &cobra.Command{
		Use:   "claim --from ADDRESS TOKEN_ID...",
		Short: "Claim against one or more tokens",
		Long: `Record a claim by --from against every listed token ID. IDs may be decimal or
0x-prefixed hex, given as separate arguments or comma-separated. The batch is
recorded in full or not at all.

On a fee claim, --payment defaults to the unit fee times the number of IDs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := parseCaller(from)
			if err != nil {
				return err
			}
			ids, err := token.ParseIDs(strings.Join(args, ","))
			if err != nil {
				return err
			}

			a, err := o.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var amount *uint256.Int
			switch {
			case payment != "":
				if amount, err = uint256.FromDecimal(payment); err != nil {
					return fmt.Errorf("invalid --payment %q: %w", payment, err)
				}
			case a.contract.FeesEnabled():
				if amount, err = claim.NewFeeSchedule(a.contract.UnitFee()).Required(len(ids)); err != nil {
					return err
				}
			}

			if err := a.contract.ClaimAgainstTokenIDs(cmd.Context(), caller, ids, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "claimed %d token(s) for %s: %s\n",
				len(ids), caller.Hex(), strings.Join(token.Strings(ids), ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "claimant address")
	cmd.Flags().StringVar(&payment, "payment", "", "payment in wei")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
