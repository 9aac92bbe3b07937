package cli

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
	"github.com/JayWelsh/claim-against-nft/treasury"
)

type schemeEntryDoc struct {
	Recipient string `yaml:"recipient"`
	Share     uint64 `yaml:"share"`
}

type statusDoc struct {
	OpensAt     string           `yaml:"opens_at"`
	ClosesAt    string           `yaml:"closes_at"`
	Open        bool             `yaml:"open"`
	FeesEnabled bool             `yaml:"fees_enabled"`
	UnitFee     string           `yaml:"unit_fee_wei"`
	ClaimCount  uint64           `yaml:"claim_count"`
	Balance     string           `yaml:"balance_wei,omitempty"`
	Scheme      []schemeEntryDoc `yaml:"scheme,omitempty"`
	Claimant    *claimantDoc     `yaml:"claimant,omitempty"`
	Token       *tokenDoc        `yaml:"token,omitempty"`
}

type claimantDoc struct {
	Address    string   `yaml:"address"`
	ClaimCount uint64   `yaml:"claim_count"`
	TokenIDs   []string `yaml:"token_ids"`
	Credits    string   `yaml:"credits_wei"`
}

type tokenDoc struct {
	ID       string `yaml:"id"`
	Claimed  bool   `yaml:"claimed"`
	Claimant string `yaml:"claimant,omitempty"`
}

func schemeDocs(s payout.Scheme) []schemeEntryDoc {
	out := make([]schemeEntryDoc, 0, len(s))
	for _, e := range s {
		out = append(out, schemeEntryDoc{Recipient: e.Recipient.Hex(), Share: e.Share})
	}
	return out
}

func newStatusCommand(o *rootOptions) *cobra.Command {
	var address, tokenID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show claim window, counts, balance and payout scheme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			c := a.contract

			w := c.Window()
			doc := statusDoc{
				OpensAt:     w.OpensAt().UTC().Format(time.RFC3339),
				ClosesAt:    w.ClosesAt().UTC().Format(time.RFC3339),
				Open:        w.IsOpen(time.Now()),
				FeesEnabled: c.FeesEnabled(),
				UnitFee:     c.UnitFee().Dec(),
			}
			if doc.ClaimCount, err = c.ClaimCount(); err != nil {
				return err
			}
			if c.FeesEnabled() {
				bal, err := c.Balance()
				if err != nil {
					return err
				}
				doc.Balance = bal.Dec()
				scheme, err := c.FeePayoutScheme()
				if err != nil {
					return err
				}
				doc.Scheme = schemeDocs(scheme)
			}

			if address != "" {
				if !common.IsHexAddress(address) {
					return fmt.Errorf("invalid --address %q", address)
				}
				addr := common.HexToAddress(address)
				cd := &claimantDoc{Address: addr.Hex()}
				if cd.ClaimCount, err = c.ClaimantClaimCount(addr); err != nil {
					return err
				}
				ids, err := c.ClaimantToClaimedTokenIDs(addr)
				if err != nil {
					return err
				}
				cd.TokenIDs = token.Strings(ids)
				credits, err := c.Credits(addr)
				if err != nil {
					return err
				}
				cd.Credits = credits.Dec()
				doc.Claimant = cd
			}

			if tokenID != "" {
				id, err := token.ParseID(tokenID)
				if err != nil {
					return err
				}
				claimant, ok, err := c.TokenIDToClaimant(id)
				if err != nil {
					return err
				}
				td := &tokenDoc{ID: id.Dec(), Claimed: ok}
				if ok {
					td.Claimant = claimant.Hex()
				}
				doc.Token = td
			}

			return writeYAML(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "also show this claimant's claims and credits")
	cmd.Flags().StringVar(&tokenID, "token", "", "also show who claimed this token")
	return cmd
}

func newDistributeCommand(o *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "distribute --from ADDRESS",
		Short: "Distribute collected fees to the payout recipients",
		Long: `Split the collected fee balance by the active payout scheme and credit each
recipient. Either every recipient is paid or nothing changes. The rounding
remainder stays in the balance for the next distribution.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := parseCaller(from)
			if err != nil {
				return err
			}
			a, err := o.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.contract.DistributeFees(cmd.Context(), caller)
			if err != nil {
				return err
			}
			return writeYAML(cmd, reportDoc(report))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "caller address")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

type payoutDoc struct {
	Recipient string `yaml:"recipient"`
	Share     uint64 `yaml:"share"`
	Amount    string `yaml:"amount_wei"`
}

type distributionDoc struct {
	ID          string      `yaml:"id"`
	Balance     string      `yaml:"balance_wei"`
	Distributed string      `yaml:"distributed_wei"`
	Remainder   string      `yaml:"remainder_wei"`
	Payouts     []payoutDoc `yaml:"payouts"`
}

func reportDoc(r *treasury.Report) distributionDoc {
	doc := distributionDoc{
		ID:          r.ID.String(),
		Balance:     r.Balance.Dec(),
		Distributed: r.Distributed.Dec(),
		Remainder:   r.Remainder.Dec(),
	}
	for _, p := range r.Payouts {
		doc.Payouts = append(doc.Payouts, payoutDoc{Recipient: p.Recipient.Hex(), Share: p.Share, Amount: p.Amount.Dec()})
	}
	return doc
}

func writeYAML(cmd *cobra.Command, v interface{}) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
