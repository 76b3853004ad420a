package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupCLI points the global flags at a temp config with remote search off.
func setupCLI(t *testing.T, storeEnabled bool) string {
	t.Helper()
	logger = zap.NewNop()
	timeout = time.Minute
	searchCategory = ""

	dir := t.TempDir()
	cfg := fmt.Sprintf(`search:
  disable_remote: true
  seed: 7
store:
  enabled: %t
  database_path: %s
logging:
  dir: %s
`, storeEnabled, filepath.Join(dir, "atelier.db"), filepath.Join(dir, "logs"))
	configPath = filepath.Join(dir, "atelier.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0644))
	t.Cleanup(func() { configPath = "atelier.yaml" })
	return dir
}

func runCmd(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := fn(cmd, args)
	return buf.String(), err
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "fisherman sweater", joinArgs([]string{"fisherman", "sweater"}))
	assert.Equal(t, "", joinArgs(nil))
}

func TestQuoteCmd(t *testing.T) {
	logger = zap.NewNop()

	out, err := runCmd(t, runQuote, "1240")
	require.NoError(t, err)
	assert.Contains(t, out, "1,561.05")
	assert.Contains(t, out, "110.05")

	out, err = runCmd(t, runQuote, "$1,240.00")
	require.NoError(t, err)
	assert.Contains(t, out, "1,561.05")

	_, err = runCmd(t, runQuote, "-5")
	assert.Error(t, err)
	_, err = runCmd(t, runQuote, "lots")
	assert.Error(t, err)
}

func TestStoresCmd(t *testing.T) {
	logger = zap.NewNop()
	out, err := runCmd(t, runStores)
	require.NoError(t, err)
	assert.Contains(t, out, "Bergdorf Goodman")
}

func TestSearchCmd_Curated(t *testing.T) {
	setupCLI(t, false)

	out, err := runCmd(t, runSearch, "fisherman", "sweater")
	require.NoError(t, err)
	assert.Contains(t, out, "Brunello Cucinelli")
	assert.Contains(t, out, "source: curated")
}

func TestSearchCmd_NeverEmpty(t *testing.T) {
	setupCLI(t, false)

	out, err := runCmd(t, runSearch, "teal", "umbrella")
	require.NoError(t, err)
	assert.Contains(t, out, "source: procedural")
	assert.Contains(t, out, "skipped curated")
}

func TestOrdersCmd(t *testing.T) {
	setupCLI(t, false)
	out, err := runCmd(t, runOrders)
	require.NoError(t, err)
	assert.Contains(t, out, "mirror is disabled")

	dir := setupCLI(t, true)
	out, err = runCmd(t, runOrders)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "No orders recorded yet"), out)
	assert.FileExists(t, filepath.Join(dir, "atelier.db"))
}

func TestUsageDir(t *testing.T) {
	setupCLI(t, true)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(cfg.Store.DatabasePath), usageDir(cfg))

	cfg.Store.Enabled = false
	assert.Empty(t, usageDir(cfg))
}
