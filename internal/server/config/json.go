package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/studiogate/internal/flagx"
	"github.com/dmitrijs2005/studiogate/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept both "15m"
// and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                    string            `json:"http_addr"`
	GRPCAddr                    string            `json:"grpc_addr"`
	StorageBackend              string            `json:"storage_backend"`
	DatabaseDSN                 string            `json:"database_dsn"`
	BoltPath                    string            `json:"bolt_path"`
	DBConnectTimeout            timex.Duration    `json:"db_connect_timeout"`
	SecretKey                   string            `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration    `json:"access_token_validity_duration"`
	AdminPassword               string            `json:"admin_password"`
	ProtectUsersAPI             bool              `json:"protect_users_api"`
	LogFormat                   string            `json:"log_format"`
	LogLevel                    string            `json:"log_level"`
	FacebookGraphVersion        string            `json:"facebook_graph_version"`
	FacebookToken               string            `json:"facebook_token"`
	FacebookBaseURL             string            `json:"facebook_base_url"`
	LinkedInAccounts            map[string]string `json:"linkedin_accounts"`
	LinkedInBaseURL             string            `json:"linkedin_base_url"`
	S3RootUser                  string            `json:"s3_root_user"`
	S3RootPassword              string            `json:"s3_root_password"`
	S3Bucket                    string            `json:"s3_bucket"`
	S3Region                    string            `json:"s3_region"`
	S3BaseEndpoint              string            `json:"s3_base_endpoint"`
	S3PresignTTL                timex.Duration    `json:"s3_presign_ttl"`
}

// parseJson overlays the file named by -c / -config onto config. Keys
// missing from the file keep their current value. An unreadable or invalid
// file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := fromConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}
	c.apply(config)
}

func fromConfig(config *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:                    config.HTTPAddr,
		GRPCAddr:                    config.GRPCAddr,
		StorageBackend:              config.StorageBackend,
		DatabaseDSN:                 config.DatabaseDSN,
		BoltPath:                    config.BoltPath,
		DBConnectTimeout:            timex.Duration{Duration: config.DBConnectTimeout},
		SecretKey:                   config.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		AdminPassword:               config.AdminPassword,
		ProtectUsersAPI:             config.ProtectUsersAPI,
		LogFormat:                   config.LogFormat,
		LogLevel:                    config.LogLevel,
		FacebookGraphVersion:        config.FacebookGraphVersion,
		FacebookToken:               config.FacebookToken,
		FacebookBaseURL:             config.FacebookBaseURL,
		LinkedInAccounts:            config.LinkedInAccounts,
		LinkedInBaseURL:             config.LinkedInBaseURL,
		S3RootUser:                  config.S3RootUser,
		S3RootPassword:              config.S3RootPassword,
		S3Bucket:                    config.S3Bucket,
		S3Region:                    config.S3Region,
		S3BaseEndpoint:              config.S3BaseEndpoint,
		S3PresignTTL:                timex.Duration{Duration: config.S3PresignTTL},
	}
}

func (c *JsonConfig) apply(config *Config) {
	config.HTTPAddr = c.HTTPAddr
	config.GRPCAddr = c.GRPCAddr
	config.StorageBackend = c.StorageBackend
	config.DatabaseDSN = c.DatabaseDSN
	config.BoltPath = c.BoltPath
	config.DBConnectTimeout = c.DBConnectTimeout.Duration
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.AdminPassword = c.AdminPassword
	config.ProtectUsersAPI = c.ProtectUsersAPI
	config.LogFormat = c.LogFormat
	config.LogLevel = c.LogLevel
	config.FacebookGraphVersion = c.FacebookGraphVersion
	config.FacebookToken = c.FacebookToken
	config.FacebookBaseURL = c.FacebookBaseURL
	config.LinkedInAccounts = c.LinkedInAccounts
	config.LinkedInBaseURL = c.LinkedInBaseURL
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3PresignTTL = c.S3PresignTTL.Duration
}
