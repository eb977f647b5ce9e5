package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"http_addr":                      "www.example:8000",
		"grpc_addr":                      "www.example:9000",
		"storage_backend":                "postgres",
		"database_dsn":                   "postgres://db",
		"db_connect_timeout":             "5s",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "15m",
		"admin_password":                 "changed",
		"protect_users_api":              false,
		"facebook_token":                 "fb",
		"linkedin_accounts":              map[string]string{"acme": "li"},
		"s3_bucket":                      "bucket",
		"s3_presign_ttl":                 int64(2 * time.Minute),
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:8000", cfg.HTTPAddr)
		assert.Equal(t, "www.example:9000", cfg.GRPCAddr)
		assert.Equal(t, "postgres", cfg.StorageBackend)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, "changed", cfg.AdminPassword)
		assert.False(t, cfg.ProtectUsersAPI)
		assert.Equal(t, "fb", cfg.FacebookToken)
		assert.Equal(t, map[string]string{"acme": "li"}, cfg.LinkedInAccounts)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, 2*time.Minute, cfg.S3PresignTTL)
	})

	t.Run("missing keys keep current values", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "data/studio.db", cfg.BoltPath)
		assert.Equal(t, "v19.0", cfg.FacebookGraphVersion)
		assert.Equal(t, "us-east-1", cfg.S3Region)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{HTTPAddr: "defaults:1234", SecretKey: "key", S3PresignTTL: time.Minute}
		parseJson(cfg)

		assert.Equal(t, &Config{HTTPAddr: "defaults:1234", SecretKey: "key", S3PresignTTL: time.Minute}, cfg)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "absent.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
