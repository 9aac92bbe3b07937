package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/JayWelsh/claim-against-nft/claim"
	"github.com/JayWelsh/claim-against-nft/config"
	"github.com/JayWelsh/claim-against-nft/ledger"
	"github.com/JayWelsh/claim-against-nft/oracle"
	"github.com/JayWelsh/claim-against-nft/token"
	"github.com/JayWelsh/claim-against-nft/treasury"
	"github.com/JayWelsh/claim-against-nft/window"
)

var (
	errNoWindow     = errors.New("claim window is not configured (set opensat and closesat)")
	errNoCollection = errors.New("collection address is not configured")
)

// app is one command's view of the claim contract.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *ledger.BoltStore
	contract *claim.Contract
}

func (o *rootOptions) openApp() (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, o.stderr)
	if err != nil {
		return nil, err
	}
	if cfg.OpensAt == 0 && cfg.ClosesAt == 0 {
		return nil, errNoWindow
	}
	w, err := window.FromUnix(cfg.OpensAt, cfg.ClosesAt)
	if err != nil {
		return nil, err
	}
	owners, err := newOwnerOracle(cfg)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	store, err := ledger.OpenBoltStore(config.LedgerPath(cfg.DataDir))
	if err != nil {
		return nil, err
	}

	opts := []claim.Option{claim.WithLogger(logger)}
	if admin, ok, err := cfg.AdminAddress(); err != nil {
		_ = store.Close()
		return nil, err
	} else if ok {
		opts = append(opts, claim.WithPolicy(claim.OnlyAdmin(admin)))
	}

	params := claim.Params{
		Window: w,
		Owners: owners,
		Store:  store,
		Payee:  treasury.NewCreditPayee(),
	}
	fee, err := cfg.UnitFeeWei()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var contract *claim.Contract
	if fee == nil {
		contract, err = claim.NewWithoutFee(params, opts...)
	} else {
		params.UnitFee = fee
		params.Recipients, params.Shares, err = cfg.SchemeLists()
		if err == nil {
			contract, err = claim.NewWithFee(params, opts...)
		}
	}
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: store, contract: contract}, nil
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.store.Close()
}

// newOwnerOracle resolves the RPC endpoint for the configured collection.
// Without a collection, ownership lookups fail but read-only commands work.
func newOwnerOracle(cfg config.Config) (oracle.OwnerOracle, error) {
	if cfg.Collection == "" {
		return oracle.OwnerFunc(func(context.Context, token.ID) (common.Address, error) {
			return common.Address{}, errNoCollection
		}), nil
	}
	rpc, err := oracle.ResolveConfig(&oracle.RPCConfig{
		URL:        cfg.RPCURL,
		User:       cfg.RPCUser,
		Password:   cfg.RPCPass,
		Collection: cfg.Collection,
		RateLimit:  cfg.RateLimit,
	}, nil, cfg.Network)
	if err != nil {
		return nil, err
	}
	return oracle.NewRPCOracle(*rpc)
}
