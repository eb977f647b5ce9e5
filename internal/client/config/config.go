package config

import "time"

// Config holds runtime settings for the studio CLI.
//
// Fields:
//   - ServerURL: base URL of the gateway JSON API.
//   - AdminGRPCAddr: host:port of the account administration RPC service.
//   - DatabasePath: SQLite file holding the persisted session.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string
	AdminGRPCAddr  string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.AdminGRPCAddr = "127.0.0.1:50051"
	c.DatabasePath = "studio_client.db"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
