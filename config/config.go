// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the nftclaim configuration file, a plain
// "key = value" file with '#' comments.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the on-disk configuration.
type Config struct {
	DataDir string

	// Ownership oracle.
	Network    string
	RPCURL     string
	RPCUser    string
	RPCPass    string
	Collection string
	RateLimit  float64

	// Claim parameters. OpensAt and ClosesAt are unix seconds.
	OpensAt    int64
	ClosesAt   int64
	UnitFee    string
	Recipients string // comma-separated addresses
	Shares     string // comma-separated basis points
	Admin      string

	LogLevel string
	LogFile  string
}

// DefaultDataDir returns ~/.nftclaim, or .nftclaim in the working directory
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nftclaim"
	}
	return filepath.Join(home, ".nftclaim")
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LedgerPath returns the ledger database path inside dataDir.
func LedgerPath(dataDir string) string {
	return filepath.Join(dataDir, "ledger.db")
}

// DefaultConfig returns a configuration for a local node with no claim
// window set.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Network:  "localhost",
		LogLevel: "info",
	}
}

// Keys lists every recognized configuration key in file order.
var Keys = []string{
	"datadir",
	"network", "rpcurl", "rpcuser", "rpcpass", "collection", "ratelimit",
	"opensat", "closesat", "unitfee", "recipients", "shares", "admin",
	"loglevel", "logfile",
}

// LoadConfig reads path on top of DefaultConfig. Unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.Set(key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseKeyValue splits "key = value" on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

// Set assigns value to the named key. Unknown keys are ignored.
func (c *Config) Set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "network":
		c.Network = value
	case "rpcurl":
		c.RPCURL = value
	case "rpcuser":
		c.RPCUser = value
	case "rpcpass":
		c.RPCPass = value
	case "collection":
		c.Collection = value
	case "ratelimit":
		if value == "" {
			c.RateLimit = 0
			return nil
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: ratelimit %q", ErrInvalidValue, value)
		}
		c.RateLimit = v
	case "opensat", "closesat":
		var v int64
		if value != "" {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s %q", ErrInvalidValue, key, value)
			}
			v = n
		}
		if key == "opensat" {
			c.OpensAt = v
		} else {
			c.ClosesAt = v
		}
	case "unitfee":
		c.UnitFee = value
	case "recipients":
		c.Recipients = value
	case "shares":
		c.Shares = value
	case "admin":
		c.Admin = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# nftclaim configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n\n", cfg.DataDir)

	b.WriteString("# ownership oracle\n")
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "rpcurl = %s\n", cfg.RPCURL)
	fmt.Fprintf(&b, "rpcuser = %s\n", cfg.RPCUser)
	fmt.Fprintf(&b, "rpcpass = %s\n", cfg.RPCPass)
	fmt.Fprintf(&b, "collection = %s\n", cfg.Collection)
	fmt.Fprintf(&b, "ratelimit = %s\n\n", strconv.FormatFloat(cfg.RateLimit, 'f', -1, 64))

	b.WriteString("# claim\n")
	fmt.Fprintf(&b, "opensat = %d\n", cfg.OpensAt)
	fmt.Fprintf(&b, "closesat = %d\n", cfg.ClosesAt)
	fmt.Fprintf(&b, "unitfee = %s\n", cfg.UnitFee)
	fmt.Fprintf(&b, "recipients = %s\n", cfg.Recipients)
	fmt.Fprintf(&b, "shares = %s\n", cfg.Shares)
	fmt.Fprintf(&b, "admin = %s\n\n", cfg.Admin)

	b.WriteString("# logging\n")
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)

	return os.WriteFile(path, []byte(b.String()), 0600)
}
