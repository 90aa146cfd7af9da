package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NFTDESK_CONFIG", filepath.Join(home, "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "XCH", cfg.Wallet.Ticker)
	require.Equal(t, 12, cfg.Wallet.Decimals)
	require.Equal(t, DefaultBurnAddress, cfg.Wallet.BurnAddress)
	require.True(t, cfg.Wallet.SeedDemo)
	require.Equal(t, 24, cfg.UI.PageSize)
	require.Equal(t, "name", cfg.UI.View)
	require.False(t, cfg.UI.ShowHidden)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.toml")
	data := `
[wallet]
ticker = "TXCH"
decimals = 12

[ui]
page_size = 50
view = "recent"
show_hidden = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("NFTDESK_CONFIG", path)
	t.Setenv("NFTDESK_UI_VIEW", "collection")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "TXCH", cfg.Wallet.Ticker)
	require.Equal(t, 50, cfg.UI.PageSize)
	require.True(t, cfg.UI.ShowHidden)
	require.Equal(t, "collection", cfg.UI.View)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Wallet.Decimals = 30
	cfg.UI.PageSize = 0
	cfg.UI.View = "grid"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "wallet.decimals")
	require.Contains(t, err.Error(), "ui.page_size")
	require.Contains(t, err.Error(), "ui.view")
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "nested", "config.toml")
	t.Setenv("NFTDESK_CONFIG", path)

	cfg := Default()
	cfg.UI.PageSize = 10
	cfg.Wallet.Ticker = "TXCH"
	written, err := Save(cfg)
	require.NoError(t, err)
	require.Equal(t, path, written)

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10, loaded.UI.PageSize)
	require.Equal(t, "TXCH", loaded.Wallet.Ticker)
}
