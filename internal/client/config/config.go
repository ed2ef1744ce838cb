package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

// Config holds runtime settings for the notekeeper CLI.
type Config struct {
	ServerURL      string
	SessionDir     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.SessionDir = ".notekeeper"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig builds a Config from defaults, the JSON file named in args and
// the flags in args. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	jsonPath, _ := flagx.ConfigFiles(args)
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("invalid config: server URL is empty")
	}
	return cfg, nil
}
