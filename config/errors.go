// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidValue indicates a key holds a value of the wrong type.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrInvalidAddress indicates a value is not a 0x-prefixed 20-byte hex address.
	ErrInvalidAddress = errors.New("config: invalid address")

	// ErrInvalidWindow indicates opensat is not before closesat.
	ErrInvalidWindow = errors.New("config: opensat must be before closesat")

	// ErrInvalidUnitFee indicates the unit fee is not a decimal wei amount.
	ErrInvalidUnitFee = errors.New("config: invalid unit fee (decimal wei)")

	// ErrInvalidRateLimit indicates a negative RPC rate limit.
	ErrInvalidRateLimit = errors.New("config: rate limit must not be negative")

	// ErrSchemeMismatch indicates recipients and shares have different lengths.
	ErrSchemeMismatch = errors.New("config: recipients and shares differ in length")
)
