// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config reads and writes the library's key = value configuration
// file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the settings shared by the network and logging layers.
type Config struct {
	DataDir  string
	Network  string
	LogLevel string
	LogFile  string

	// ExplorerURL and RPCURL select the transaction source; empty values
	// fall back to the network's preset.
	ExplorerURL string
	RPCURL      string
	RPCUser     string
	RPCPassword string
}

// configKeys maps file keys to Config fields, in the order SaveConfig
// writes them.
var configKeys = []struct {
	key   string
	field func(*Config) *string
}{
	{"datadir", func(c *Config) *string { return &c.DataDir }},
	{"network", func(c *Config) *string { return &c.Network }},
	{"loglevel", func(c *Config) *string { return &c.LogLevel }},
	{"logfile", func(c *Config) *string { return &c.LogFile }},
	{"explorer", func(c *Config) *string { return &c.ExplorerURL }},
	{"rpcurl", func(c *Config) *string { return &c.RPCURL }},
	{"rpcuser", func(c *Config) *string { return &c.RPCUser }},
	{"rpcpass", func(c *Config) *string { return &c.RPCPassword }},
}

// DefaultDataDir returns ~/.libbtc, or .libbtc in the working directory
// when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".libbtc"
	}
	return filepath.Join(home, ".libbtc")
}

// DefaultConfig returns a mainnet configuration logging at info.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Network:  "mainnet",
		LogLevel: "info",
	}
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads path on top of DefaultConfig. Blank lines and lines
// starting with # are skipped; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: open: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", err, lineNo, line)
		}
		for _, k := range configKeys {
			if k.key == key {
				*k.field(&cfg) = value
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	return cfg, nil
}

// parseKeyValue splits a line on its first '='.
func parseKeyValue(line string) (key, value string, err error) {
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

// SaveConfig writes cfg to path, creating parent directories. The file is
// private to the user since it may hold RPC credentials.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# libbtc configuration\n\n")
	for _, k := range configKeys {
		fmt.Fprintf(&b, "%s = %s\n", k.key, *k.field(&cfg))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
