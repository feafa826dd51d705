// Package config loads the cardroom's HCL configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete cardroom configuration.
type Config struct {
	Server   ServerConfig    `hcl:"server,block"`
	Database *DatabaseConfig `hcl:"database,block"`
	Tables   []TableConfig   `hcl:"table,block"`
	Bots     []BotConfig     `hcl:"bot,block"`
}

// ServerConfig contains server-level settings.
type ServerConfig struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// DatabaseConfig enables the hand archive. Without this block hands are
// not persisted.
type DatabaseConfig struct {
	DSN string `hcl:"dsn"`
}

// TableConfig defines one table opened at startup.
type TableConfig struct {
	Name            string `hcl:"name,label"`
	Seats           int    `hcl:"seats,optional"`
	SmallBlind      int64  `hcl:"small_blind"`
	BigBlind        int64  `hcl:"big_blind"`
	ActionTimeoutMS int    `hcl:"action_timeout_ms,optional"`
}

// ActionTimeout converts the configured per-turn budget. Zero disables
// auto-actions for the table.
func (t TableConfig) ActionTimeout() time.Duration {
	return time.Duration(t.ActionTimeoutMS) * time.Millisecond
}

// BotConfig seats an AI player at startup.
type BotConfig struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy"`
	Tables   []string `hcl:"tables,optional"`
	BuyIn    int64    `hcl:"buy_in,optional"`
}

// Default returns the configuration used when no file exists: one table,
// no bots, no archive.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{
				Name:            "main",
				Seats:           6,
				SmallBlind:      10,
				BigBlind:        20,
				ActionTimeoutMS: 30000,
			},
		},
	}
}

// Load reads an HCL configuration file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadBytes parses configuration from memory. Used by tests.
func LoadBytes(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	for i := range c.Tables {
		if c.Tables[i].Seats == 0 {
			c.Tables[i].Seats = 6
		}
		if c.Tables[i].ActionTimeoutMS == 0 {
			c.Tables[i].ActionTimeoutMS = 30000
		}
	}
	for i := range c.Bots {
		if c.Bots[i].BuyIn == 0 {
			c.Bots[i].BuyIn = 1000
		}
		if len(c.Bots[i].Tables) == 0 {
			for _, tbl := range c.Tables {
				c.Bots[i].Tables = append(c.Bots[i].Tables, tbl.Name)
			}
		}
	}
}

// Validate rejects configurations the server cannot run.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	names := make(map[string]bool)
	for _, tbl := range c.Tables {
		if names[tbl.Name] {
			return fmt.Errorf("table %s: duplicate name", tbl.Name)
		}
		names[tbl.Name] = true
		if tbl.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", tbl.Name)
		}
		if tbl.BigBlind <= tbl.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", tbl.Name)
		}
		if tbl.Seats < 2 || tbl.Seats > 10 {
			return fmt.Errorf("table %s: seats must be between 2 and 10", tbl.Name)
		}
	}

	validStrategies := map[string]bool{
		"caller": true,
		"folder": true,
		"random": true,
		"tight":  true,
	}
	for _, bot := range c.Bots {
		if !validStrategies[bot.Strategy] {
			return fmt.Errorf("bot %s: invalid strategy %s", bot.Name, bot.Strategy)
		}
		if bot.BuyIn <= 0 {
			return fmt.Errorf("bot %s: buy-in must be positive", bot.Name)
		}
		for _, ref := range bot.Tables {
			if !names[ref] {
				return fmt.Errorf("bot %s: unknown table %s", bot.Name, ref)
			}
		}
	}
	return nil
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
