package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. PLANTCALC_MODE.
const EnvPrefix = "PLANTCALC_"

// Calculation modes.
const (
	ModeFormula = "formula" // closed-form damage
	ModeTable   = "table"   // tabulated damage from CSV tables
)

// Plant index sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Calculator holds all configuration for the damage calculator.
type Calculator struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"` // debug, info, warn, error

	// Mode selects formula or table damage.
	Mode string `yaml:"mode" env:"MODE"`
	// FusionRules selects the fusion rule set: matrix or priority.
	FusionRules string `yaml:"fusion_rules" env:"FUSION_RULES"`

	Plants   PlantsConfig   `yaml:"plants" envPrefix:"PLANTS_"`
	Tables   TablesConfig   `yaml:"tables" envPrefix:"TABLES_"`
	HTTP     HTTPConfig     `yaml:"http" envPrefix:"HTTP_"`
	MCP      MCPConfig      `yaml:"mcp" envPrefix:"MCP_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
}

// PlantsConfig describes where the plant index (formula mode) comes from.
type PlantsConfig struct {
	Source string `yaml:"source" env:"SOURCE"`
	Path   string `yaml:"path" env:"PATH"` // file source
	URL    string `yaml:"url" env:"URL"`   // http source
}

// TablesConfig describes the variant index and damage tables (table mode).
type TablesConfig struct {
	BaseURL       string        `yaml:"base_url" env:"BASE_URL"` // fetch over HTTP when set
	Dir           string        `yaml:"dir" env:"DIR"`           // otherwise read from disk
	Index         string        `yaml:"index" env:"INDEX"`
	Prefetch      bool          `yaml:"prefetch" env:"PREFETCH"`
	PrefetchLimit int           `yaml:"prefetch_limit" env:"PREFETCH_LIMIT"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT"`
}

// HTTPConfig configures the plantcalcd listener.
type HTTPConfig struct {
	BindAddress string `yaml:"bind_address" env:"BIND_ADDRESS"`
	Port        int    `yaml:"port" env:"PORT"`
}

// Addr returns host:port.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.BindAddress, h.Port)
}

// MCPConfig configures the MCP tool server.
type MCPConfig struct {
	Transport string `yaml:"transport" env:"TRANSPORT"`
	Address   string `yaml:"address" env:"ADDRESS"` // http transport only
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultCalculator returns Calculator config with sensible defaults:
// formula mode, matrix fusion, embedded plant index.
func DefaultCalculator() Calculator {
	return Calculator{
		LogLevel:    "info",
		Mode:        ModeFormula,
		FusionRules: "matrix",
		Plants: PlantsConfig{
			Source: SourceEmbedded,
		},
		Tables: TablesConfig{
			Dir:           "data",
			Index:         "index.csv",
			PrefetchLimit: 8,
			FetchTimeout:  10 * time.Second,
		},
		HTTP: HTTPConfig{
			BindAddress: "127.0.0.1",
			Port:        8087,
		},
		MCP: MCPConfig{
			Transport: TransportStdio,
			Address:   "localhost:8088",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "plantcalc",
			Password: "plantcalc",
			DBName:   "plantcalc",
			SSLMode:  "disable",
		},
	}
}

// LoadCalculator loads calculator config from a YAML file, then applies
// PLANTCALC_* environment overrides.
// If the file doesn't exist, defaults are used.
func LoadCalculator(path string) (Calculator, error) {
	cfg := DefaultCalculator()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown enum values and missing source locations.
func (c Calculator) Validate() error {
	switch c.Mode {
	case ModeFormula, ModeTable:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	switch c.FusionRules {
	case "matrix", "priority":
	default:
		return fmt.Errorf("unknown fusion_rules %q", c.FusionRules)
	}

	if c.Mode == ModeFormula {
		switch c.Plants.Source {
		case SourceEmbedded, SourcePostgres:
		case SourceFile:
			if c.Plants.Path == "" {
				return fmt.Errorf("plants.path is required for source %q", c.Plants.Source)
			}
		case SourceHTTP:
			if c.Plants.URL == "" {
				return fmt.Errorf("plants.url is required for source %q", c.Plants.Source)
			}
		default:
			return fmt.Errorf("unknown plants.source %q", c.Plants.Source)
		}
	}

	if c.Mode == ModeTable && c.Tables.BaseURL == "" && c.Tables.Dir == "" {
		return fmt.Errorf("tables.base_url or tables.dir is required in table mode")
	}

	switch c.MCP.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown mcp.transport %q", c.MCP.Transport)
	}
	return nil
}
