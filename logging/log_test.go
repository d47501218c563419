package logging

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbtc-go/config"
	"github.com/bitfsorg/libbtc-go/network"
	"github.com/bitfsorg/libbtc-go/script"
)

// failScript evaluates an empty script, which always fails and logs the
// reason at debug level.
func failScript(t *testing.T) {
	t.Helper()
	require.False(t, script.New().Evaluate(big.NewInt(0), nil, script.TxContext{}))
}

func TestSetup_Debug(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, "debug")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	failScript(t)
	out := buf.String()
	assert.Contains(t, out, "[DBG] SCRP:")
	assert.Contains(t, out, "Script evaluation failed")

	buf.Reset()
	_, err = network.NewSource(&network.SourceConfig{ExplorerURL: network.DefaultExplorerURL})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "NETW: Using explorer at "+network.DefaultExplorerURL)
}

func TestSetup_InfoSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, "INFO")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	failScript(t)
	assert.Empty(t, buf.String())
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup(&bytes.Buffer{}, "verbose")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLoggers_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, "off")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, []string{SubsystemNetwork, SubsystemScript, SubsystemTx}, l.Subsystems())

	failScript(t)
	assert.Empty(t, buf.String())

	require.NoError(t, l.SetLevel(SubsystemScript, "debug"))
	failScript(t)
	assert.Contains(t, buf.String(), "Script evaluation failed")

	assert.ErrorIs(t, l.SetLevel(SubsystemScript, "loud"), ErrInvalidLevel)
	assert.Error(t, l.SetLevel("WLLT", "debug"))
}

func TestClose_Disables(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, "trace")
	require.NoError(t, err)
	require.NoError(t, l.Close())

	failScript(t)
	assert.Empty(t, buf.String())
}

func TestSetupFromConfig_LogFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "libbtc.log")

	l, err := SetupFromConfig(cfg)
	require.NoError(t, err)
	failScript(t)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Script evaluation failed")

	// Reopening appends.
	l, err = SetupFromConfig(cfg)
	require.NoError(t, err)
	failScript(t)
	require.NoError(t, l.Close())

	data, err = os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("Script evaluation failed")))
}

func TestSetupFromConfig_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "chatty"
	cfg.LogFile = filepath.Join(t.TempDir(), "libbtc.log")
	_, err := SetupFromConfig(cfg)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	// The parent of the log file is a regular file.
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0600))
	cfg.LogLevel = "info"
	cfg.LogFile = filepath.Join(parent, "libbtc.log")
	_, err = SetupFromConfig(cfg)
	assert.Error(t, err)
}

func TestSetupFromConfig_CreatesDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "mainnet", "libbtc.log")

	l, err := SetupFromConfig(cfg)
	require.NoError(t, err)
	failScript(t)
	require.NoError(t, l.Close())

	_, err = os.Stat(cfg.LogFile)
	assert.NoError(t, err)
}

func TestSetupFromConfig_Stderr(t *testing.T) {
	cfg := config.DefaultConfig()
	l, err := SetupFromConfig(cfg)
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
