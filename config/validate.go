// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/btcsuite/btclog"
)

// validNetworks lists the accepted network names.
var validNetworks = map[string]bool{
	"mainnet": true,
	"testnet": true,
	"regtest": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validNetworks[cfg.Network] {
		return ErrInvalidNetwork
	}

	if _, ok := btclog.LevelFromString(strings.ToLower(cfg.LogLevel)); !ok {
		return ErrInvalidLogLevel
	}

	urls := []struct{ key, raw string }{
		{"explorer", cfg.ExplorerURL},
		{"rpcurl", cfg.RPCURL},
	}
	for _, u := range urls {
		if u.raw == "" {
			continue
		}
		if err := validateURL(u.raw); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidURL, u.key, err)
		}
	}

	return nil
}

// validateURL checks that raw is an absolute http or https URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
