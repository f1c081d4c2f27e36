/*
Package config loads run configuration.

SOURCES (later wins):
  1. Built-in defaults (below)
  2. orders.yaml in the working directory, or the file passed to Load
  3. .env in the working directory (loaded into the environment)
  4. ORDERS_* environment variables: ORDERS_SPREADSHEET_NAME overrides
     spreadsheet.name, and so on

BACKENDS:
  google  Google Sheets + Docs + Drive (the production setup)
  sqlite  a SQLite workbook file; order forms go to an in-memory drive
  xlsx    an Excel workbook file; same
  memory  everything in memory, seeded from a demo dataset (api only)
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ORDERS"

// ErrUnknownBackend is returned for a backend name not listed above.
var ErrUnknownBackend = errors.New("unknown backend")

const (
	BackendGoogle = "google"
	BackendSQLite = "sqlite"
	BackendXLSX   = "xlsx"
	BackendMemory = "memory"
)

type Config struct {
	Backend     string      `mapstructure:"backend"`
	Spreadsheet Spreadsheet `mapstructure:"spreadsheet"`
	Sheets      Sheets      `mapstructure:"sheets"`
	Template    Template    `mapstructure:"template"`
	Credentials Credentials `mapstructure:"credentials"`
	SQLite      FileStore   `mapstructure:"sqlite"`
	XLSX        FileStore   `mapstructure:"xlsx"`
	Output      Output      `mapstructure:"output"`
	Leaderboard Leaderboard `mapstructure:"leaderboard"`
	Detector    Detector    `mapstructure:"detector"`
	Export      Export      `mapstructure:"export"`
	Server      Server      `mapstructure:"server"`
	Verbose     bool        `mapstructure:"verbose"`
}

type Spreadsheet struct {
	Name string `mapstructure:"name"`
	ID   string `mapstructure:"id"`
}

type Sheets struct {
	Master     string `mapstructure:"master"`
	Production string `mapstructure:"production"`
	ErrorLog   string `mapstructure:"error_log"`
}

type Template struct {
	Name     string `mapstructure:"name"`
	MaxItems int    `mapstructure:"max_items"`
}

type Credentials struct {
	ServiceAccount string `mapstructure:"service_account"`
	ClientSecret   string `mapstructure:"client_secret"`
	Token          string `mapstructure:"token"`
}

type FileStore struct {
	Path string `mapstructure:"path"`
}

type Output struct {
	Dir string `mapstructure:"dir"`
}

type Leaderboard struct {
	Top int `mapstructure:"top"`
}

type Detector struct {
	Threshold int `mapstructure:"threshold"`
}

type Export struct {
	Upload bool `mapstructure:"upload"`
}

type Server struct {
	Port            int           `mapstructure:"port"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Dataset         string        `mapstructure:"dataset"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendGoogle)
	v.SetDefault("spreadsheet.name", "MASTER SPRING 2026")
	v.SetDefault("spreadsheet.id", "")
	v.SetDefault("sheets.master", "MASTER")
	v.SetDefault("sheets.production", "Production")
	v.SetDefault("sheets.error_log", "Error Log")
	v.SetDefault("template.name", "Order Template for PDF")
	v.SetDefault("template.max_items", 13)
	v.SetDefault("credentials.service_account", "service_account.json")
	v.SetDefault("credentials.client_secret", "client_secret.json")
	v.SetDefault("credentials.token", "token.json")
	v.SetDefault("sqlite.path", "orders.db")
	v.SetDefault("xlsx.path", "orders.xlsx")
	v.SetDefault("output.dir", ".")
	v.SetDefault("leaderboard.top", 5)
	v.SetDefault("detector.threshold", 70)
	v.SetDefault("export.upload", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.refresh_interval", time.Duration(0))
	v.SetDefault("server.dataset", "lincoln")
	v.SetDefault("verbose", false)
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return c
}

// Load reads the configuration. path names a config file; empty means the
// optional orders.yaml in the working directory.
func Load(path string) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("config.godotenv(.env): %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config.os.Stat(.env): %w", err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("orders")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read orders.yaml: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendGoogle, BackendSQLite, BackendXLSX, BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.Template.MaxItems <= 0 {
		return fmt.Errorf("template.max_items must be positive, got %d", c.Template.MaxItems)
	}
	if c.Leaderboard.Top <= 0 {
		return fmt.Errorf("leaderboard.top must be positive, got %d", c.Leaderboard.Top)
	}
	if c.Detector.Threshold < 0 || c.Detector.Threshold > 100 {
		return fmt.Errorf("detector.threshold must be within 0-100, got %d", c.Detector.Threshold)
	}
	return nil
}
