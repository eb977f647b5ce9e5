package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, "bolt", c.StorageBackend)
	assert.Equal(t, "data/studio.db", c.BoltPath)
	assert.Equal(t, 30*time.Second, c.DBConnectTimeout)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 60*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "clingroup#123@", c.AdminPassword)
	assert.True(t, c.ProtectUsersAPI)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "https://graph.facebook.com", c.FacebookBaseURL)
	assert.Empty(t, c.FacebookToken)
	assert.Empty(t, c.S3Bucket, "uploads are off by default")
	assert.Equal(t, time.Hour, c.S3PresignTTL)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"http_addr":       ":1",
		"storage_backend": "postgres",
	})
	os.Args = []string{"testbin", "-c", path, "-a", ":2"}

	c := LoadConfig()
	assert.Equal(t, ":2", c.HTTPAddr)
	assert.Equal(t, "postgres", c.StorageBackend)
}
