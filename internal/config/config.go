// Package config loads the dwj configuration from ~/.dwj/config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration for dwj.
type Config struct {
	// DataDir holds the JSON stores, the SQLite database and the log file.
	DataDir string `toml:"data_dir"`
	// Backend is "file" (JSON files) or "sqlite".
	Backend string `toml:"backend"`
	// DatabasePath is the SQLite file. Empty means <data_dir>/dwj.db.
	DatabasePath string `toml:"database_path"`
	// OutputDir is where exports are written before falling back to ~/Downloads.
	OutputDir string `toml:"output_dir"`
	// Timezone is the IANA zone used when the export settings name none.
	Timezone string `toml:"timezone"`
	// LogFile sends the log to <data_dir>/dwj.log instead of stderr.
	LogFile bool `toml:"log_file"`

	Outlook  OutlookConfig  `toml:"outlook"`
	Schedule ScheduleConfig `toml:"schedule"`
}

// OutlookConfig holds Microsoft Graph calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `toml:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `toml:"client_id"`
	// Timezone is the IANA timezone for event times. Empty = UTC.
	Timezone string `toml:"timezone"`
}

// ScheduleConfig configures `dwj schedule`. Empty fields fall back to the
// persisted export settings.
type ScheduleConfig struct {
	Cron      string `toml:"cron"`
	Format    string `toml:"format"`
	Template  string `toml:"template"`
	DateRange string `toml:"date_range"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// the device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultCron runs the scheduled export every weekday at 18:00.
	DefaultCron = "0 18 * * 1-5"

	// EnvDataDir overrides data_dir.
	EnvDataDir = "DWJ_DATA_DIR"
)

// Default returns a Config rooted at dataDir.
func Default(dataDir string) Config {
	return Config{
		DataDir:   dataDir,
		Backend:   BackendFile,
		OutputDir: ".",
		Timezone:  "UTC",
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
		Schedule: ScheduleConfig{Cron: DefaultCron},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# dwj configuration - ~/.dwj/config.toml
#
# All settings are optional; the defaults below work out of the box.

# Directory for the stores and the log file. DWJ_DATA_DIR overrides it.
# data_dir = "~/.dwj"

# Persistence backend: "file" (one JSON file per store) or "sqlite".
backend = "file"

# SQLite database file, used with backend = "sqlite".
# Defaults to <data_dir>/dwj.db.
# database_path = ""

# Directory exports are written to. If writing fails the file goes to ~/Downloads.
output_dir = "."

# IANA timezone used when the export settings do not name one.
timezone = "UTC"

# Write the log to <data_dir>/dwj.log instead of stderr.
log_file = false

# Microsoft Graph / Outlook calendar import (dwj outlook sync).
[outlook]
# "common" for personal accounts and any organisation, or your tenant GUID.
tenant_id = "common"
# The public Azure CLI app; replace with your own registration if required.
client_id = "04b07795-8542-4c4a-95af-30b2c573d5ab"
# Timezone for event times, e.g. "Europe/Berlin". Empty = UTC.
timezone = ""

# Scheduled exports (dwj schedule). Empty values use the saved export settings.
[schedule]
cron = "0 18 * * 1-5"
# format = "markdown"
# template = "auto"
# date_range = "today"
`

// Path returns the config file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// DefaultDataDir returns $DWJ_DATA_DIR or ~/.dwj.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".dwj"), nil
}

// Load reads the config from the default data directory.
func Load() (Config, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads <dataDir>/config.toml, creating it with annotated defaults on
// first run. DWJ_DATA_DIR wins over a data_dir set in the file.
func LoadFrom(dataDir string) (Config, error) {
	path := Path(dataDir)
	cfg := Default(dataDir)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return cfg, nil
	}

	var fromFile Config
	if _, err := toml.DecodeFile(path, &fromFile); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	fromFile.fillDefaults(cfg)
	if dir := os.Getenv(EnvDataDir); dir != "" {
		fromFile.DataDir = dir
	}
	if err := fromFile.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return fromFile, nil
}

// fillDefaults copies zero-valued fields from def.
func (c *Config) fillDefaults(def Config) {
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = def.Outlook.TenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = def.Outlook.ClientID
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = def.Schedule.Cron
	}
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Backend)
	}
	return nil
}

// Database returns the SQLite path.
func (c Config) Database() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.DataDir, "dwj.db")
}

// Save writes c to <DataDir>/config.toml. Comments of an existing file are lost.
func Save(c Config) error {
	path := Path(c.DataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}

// writeDefault creates the config directory and writes the annotated template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
