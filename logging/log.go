// Package logging wires a btclog backend into the subsystem loggers of
// the script, tx and network packages. Every package logs nothing until
// Setup is called.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/bitfsorg/libbtc-go/config"
	"github.com/bitfsorg/libbtc-go/network"
	"github.com/bitfsorg/libbtc-go/script"
	"github.com/bitfsorg/libbtc-go/tx"
)

// Subsystem tags that prefix each log line.
const (
	SubsystemScript  = "SCRP"
	SubsystemTx      = "TXVM"
	SubsystemNetwork = "NETW"
)

// Log file rotation limits.
const (
	MaxLogFileSizeKB = 10 * 1024
	MaxLogFiles      = 3
)

// ErrInvalidLevel indicates a level btclog does not know.
var ErrInvalidLevel = errors.New("logging: invalid log level")

// installers hands each subsystem logger to the package that uses it.
var installers = map[string]func(btclog.Logger){
	SubsystemScript:  script.UseLogger,
	SubsystemTx:      tx.UseLogger,
	SubsystemNetwork: network.UseLogger,
}

// Loggers is the set of subsystem loggers sharing one backend.
type Loggers struct {
	mu      sync.Mutex
	loggers map[string]btclog.Logger
	closer  io.Closer
}

// Setup creates a logger per subsystem writing to w at level and installs
// them.
func Setup(w io.Writer, level string) (*Loggers, error) {
	lvl, ok := btclog.LevelFromString(strings.ToLower(level))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	backend := btclog.NewBackend(w)
	l := &Loggers{loggers: make(map[string]btclog.Logger, len(installers))}
	for subsystem, install := range installers {
		logger := backend.Logger(subsystem)
		logger.SetLevel(lvl)
		l.loggers[subsystem] = logger
		install(logger)
	}
	return l, nil
}

// SetupFromConfig logs to cfg.LogFile through a size-based rotator, or to
// stderr when no file is set. Close releases the file.
func SetupFromConfig(cfg config.Config) (*Loggers, error) {
	if cfg.LogFile == "" {
		return Setup(os.Stderr, cfg.LogLevel)
	}
	if _, ok := btclog.LevelFromString(strings.ToLower(cfg.LogLevel)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, cfg.LogLevel)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
		return nil, fmt.Errorf("logging: create log directory: %w", err)
	}
	r, err := rotator.New(cfg.LogFile, MaxLogFileSizeKB, false, MaxLogFiles)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l, err := Setup(r, cfg.LogLevel)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	l.closer = r
	return l, nil
}

// Subsystems returns the subsystem tags in sorted order.
func (l *Loggers) Subsystems() []string {
	tags := make([]string, 0, len(l.loggers))
	for tag := range l.loggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// SetLevel changes the level of one subsystem.
func (l *Loggers) SetLevel(subsystem, level string) error {
	lvl, ok := btclog.LevelFromString(strings.ToLower(level))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	logger, ok := l.loggers[subsystem]
	if !ok {
		return fmt.Errorf("logging: unknown subsystem %q", subsystem)
	}
	logger.SetLevel(lvl)
	return nil
}

// Close silences every subsystem and closes the log file, if any.
func (l *Loggers) Close() error {
	Disable()
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Disable turns logging off in every subsystem.
func Disable() {
	script.DisableLog()
	tx.DisableLog()
	network.DisableLog()
}
