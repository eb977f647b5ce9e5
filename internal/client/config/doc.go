// Package config loads runtime configuration for the studio CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   gateway API base URL
//	-g string   admin RPC address:port
//	-p string   session database path
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "admin_grpc_addr": "127.0.0.1:50051",
//	  "database_path": "studio_client.db",
//	  "request_timeout": "30s"
//	}
package config
