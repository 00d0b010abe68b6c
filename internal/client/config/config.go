package config

import "time"

// Config holds runtime settings for the booklib CLI.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with defaults matching a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
// It panics on unreadable files or malformed flag values.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
