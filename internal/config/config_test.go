package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://html.duckduckgo.com/html/", cfg.Search.BaseURL)
	assert.Equal(t, ".nz", cfg.Search.SiteFilter)
	assert.Equal(t, 10, cfg.Search.TimeoutSecs)
	assert.Equal(t, 3, cfg.Search.Oversample)
	assert.Contains(t, cfg.Search.Denylist, "facebook.com")
	assert.Contains(t, cfg.Search.Denylist, ".govt.nz")
	assert.Equal(t, 10, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, int64(2*1024*1024), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, "sheets", cfg.Ledger.Driver)
	assert.Equal(t, "Sheet1", cfg.Ledger.Sheet)
	assert.Equal(t, 2.0, cfg.Pipeline.DelaySecs)
	assert.Equal(t, 5, cfg.Pipeline.DefaultCount)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LEADS_LEDGER_DRIVER", "csv")
	t.Setenv("LEADS_SEARCH_SITE_FILTER", ".com.au")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Ledger.Driver)
	assert.Equal(t, ".com.au", cfg.Search.SiteFilter)
}

func TestLoad_SpreadsheetIDLegacyEnv(t *testing.T) {
	t.Setenv("SPREADSHEET_ID", "1abcDEF")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "1abcDEF", cfg.Ledger.SpreadsheetID)
}

func TestLoadDenylist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denylist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- facebook.com\n- .govt.nz\n- clinic\n"), 0o644))

	denylist, err := LoadDenylist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"facebook.com", ".govt.nz", "clinic"}, denylist)
}

func TestLoadDenylist_Missing(t *testing.T) {
	_, err := LoadDenylist(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
