package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/studiogate/internal/flagx"
	"github.com/dmitrijs2005/studiogate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts
// accept strings like "30s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	AdminGRPCAddr  string         `json:"admin_grpc_addr"`
	DatabasePath   string         `json:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Keys missing from the file keep their current value. Read or
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	jc := JsonConfig{
		ServerURL:      cfg.ServerURL,
		AdminGRPCAddr:  cfg.AdminGRPCAddr,
		DatabasePath:   cfg.DatabasePath,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.AdminGRPCAddr = jc.AdminGRPCAddr
	cfg.DatabasePath = jc.DatabasePath
	cfg.RequestTimeout = jc.RequestTimeout.Duration
}
