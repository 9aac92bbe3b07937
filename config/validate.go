// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid. Empty
// optional values (collection, admin, unit fee, scheme) are accepted.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}
	if cfg.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	if cfg.Collection != "" {
		if _, err := parseAddress(cfg.Collection); err != nil {
			return fmt.Errorf("collection: %w", err)
		}
	}
	if cfg.Admin != "" {
		if _, err := parseAddress(cfg.Admin); err != nil {
			return fmt.Errorf("admin: %w", err)
		}
	}
	if (cfg.OpensAt != 0 || cfg.ClosesAt != 0) && cfg.OpensAt >= cfg.ClosesAt {
		return ErrInvalidWindow
	}
	if _, err := cfg.UnitFeeWei(); err != nil {
		return err
	}
	if _, _, err := cfg.SchemeLists(); err != nil {
		return err
	}
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// UnitFeeWei parses the unit fee. An empty value is nil, meaning the
// fee-free variant.
func (c Config) UnitFeeWei() (*uint256.Int, error) {
	if c.UnitFee == "" {
		return nil, nil
	}
	v, err := uint256.FromDecimal(c.UnitFee)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnitFee, c.UnitFee)
	}
	return v, nil
}

// AdminAddress parses the admin address. ok is false if none is configured.
func (c Config) AdminAddress() (addr common.Address, ok bool, err error) {
	if c.Admin == "" {
		return common.Address{}, false, nil
	}
	addr, err = parseAddress(c.Admin)
	return addr, err == nil, err
}

// CollectionAddress parses the collection contract address.
func (c Config) CollectionAddress() (common.Address, error) {
	return parseAddress(c.Collection)
}

// SchemeLists parses the recipients and shares lists. It checks their
// format and that they pair up; share totals are left to the payout scheme.
func (c Config) SchemeLists() ([]common.Address, []uint64, error) {
	rawRecipients, rawShares := splitList(c.Recipients), splitList(c.Shares)
	if len(rawRecipients) != len(rawShares) {
		return nil, nil, fmt.Errorf("%w: %d recipients, %d shares", ErrSchemeMismatch, len(rawRecipients), len(rawShares))
	}
	recipients := make([]common.Address, 0, len(rawRecipients))
	for _, r := range rawRecipients {
		addr, err := parseAddress(r)
		if err != nil {
			return nil, nil, fmt.Errorf("recipients: %w", err)
		}
		recipients = append(recipients, addr)
	}
	shares := make([]uint64, 0, len(rawShares))
	for _, s := range rawShares {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: share %q", ErrInvalidValue, s)
		}
		shares = append(shares, v)
	}
	return recipients, shares, nil
}
