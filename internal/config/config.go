package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBurnAddress is the well-known unspendable Chia address.
const DefaultBurnAddress = "xch1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqm6ks6e8mvy"

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Wallet   WalletConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string
	Migrations string
}

// WalletConfig describes the unit and burn destination of the local wallet.
type WalletConfig struct {
	Ticker      string
	Decimals    int
	BurnAddress string `mapstructure:"burn_address"`
	SeedDemo    bool   `mapstructure:"seed_demo"`
}

// MaxPageSize bounds ui.page_size and any saved page size.
const MaxPageSize = 100

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize   int `mapstructure:"page_size"`
	View       string
	ShowHidden bool   `mapstructure:"show_hidden"`
	StateFile  string `mapstructure:"state_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from file and env. Env var overrides use prefix NFTDESK_.
// A .env file in the working directory is loaded first; variables already set win.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("NFTDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "nftdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NFTDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

func setDefaults(v *viper.Viper) {
	home := homeDir()
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "nftdesk", "nftdesk.db"))
	v.SetDefault("database.migrations", filepath.Join("internal", "database", "migrations"))
	v.SetDefault("wallet.ticker", "XCH")
	v.SetDefault("wallet.decimals", 12)
	v.SetDefault("wallet.burn_address", DefaultBurnAddress)
	v.SetDefault("wallet.seed_demo", true)
	v.SetDefault("ui.page_size", 24)
	v.SetDefault("ui.view", "name")
	v.SetDefault("ui.show_hidden", false)
	v.SetDefault("ui.state_file", filepath.Join(userConfigDir(), "nftdesk", "view.yaml"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "nftdesk", "nftdesk.log"))
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Wallet.Decimals < 0 || c.Wallet.Decimals > 18 {
		errs = append(errs, fmt.Errorf("wallet.decimals %d out of range [0, 18]", c.Wallet.Decimals))
	}
	if c.UI.PageSize < 1 || c.UI.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("ui.page_size %d out of range [1, %d]", c.UI.PageSize, MaxPageSize))
	}
	switch c.UI.View {
	case "name", "recent", "collection":
	default:
		errs = append(errs, fmt.Errorf("ui.view %q must be one of name, recent, collection", c.UI.View))
	}
	return errors.Join(errs...)
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) (string, error) {
	path := os.Getenv("NFTDESK_CONFIG")
	if path == "" {
		path = filepath.Join(homeDir(), ".config", "nftdesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("wallet.ticker", cfg.Wallet.Ticker)
	v.Set("wallet.decimals", cfg.Wallet.Decimals)
	v.Set("wallet.burn_address", cfg.Wallet.BurnAddress)
	v.Set("wallet.seed_demo", cfg.Wallet.SeedDemo)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.view", cfg.UI.View)
	v.Set("ui.show_hidden", cfg.UI.ShowHidden)
	v.Set("ui.state_file", cfg.UI.StateFile)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return filepath.Join(homeDir(), ".config")
}
