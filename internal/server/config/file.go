package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/booklib/internal/flagx"
	"github.com/dmitrijs2005/booklib/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration, read from JSON or
// YAML. Only fields present with a non-zero value override the defaults.
type FileConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	APIPrefix                   string         `json:"api_prefix" yaml:"api_prefix"`
	StorageType                 string         `json:"storage_type" yaml:"storage_type"`
	UsersFile                   string         `json:"users_file" yaml:"users_file"`
	DatabaseDSN                 string         `json:"database_dsn" yaml:"database_dsn"`
	CatalogSource               string         `json:"catalog_source" yaml:"catalog_source"`
	BooksFile                   string         `json:"books_file" yaml:"books_file"`
	S3RootUser                  string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3CatalogKey                string         `json:"s3_catalog_key" yaml:"s3_catalog_key"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	LoginRateLimit              int            `json:"login_rate_limit" yaml:"login_rate_limit"`
	LoginRateWindow             timex.Duration `json:"login_rate_window" yaml:"login_rate_window"`
	RedisAddr                   string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword               string         `json:"redis_password" yaml:"redis_password"`
	RedisDB                     int            `json:"redis_db" yaml:"redis_db"`
	ThrottleRPS                 float64        `json:"throttle_rps" yaml:"throttle_rps"`
	ThrottleBurst               int            `json:"throttle_burst" yaml:"throttle_burst"`
	TrustedProxies              []string       `json:"trusted_proxies" yaml:"trusted_proxies"`
	BcryptCost                  int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	LogBackend                  string         `json:"log_backend" yaml:"log_backend"`
	LogLevel                    string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file named by -c/-config (or the
// CONFIG environment variable). Files ending in .yaml or .yml are decoded
// as YAML, anything else as JSON. No file configured means no changes.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&c.APIPrefix, fc.APIPrefix)
	setString(&c.StorageType, fc.StorageType)
	setString(&c.UsersFile, fc.UsersFile)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.CatalogSource, fc.CatalogSource)
	setString(&c.BooksFile, fc.BooksFile)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3CatalogKey, fc.S3CatalogKey)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.RedisPassword, fc.RedisPassword)
	setString(&c.LogBackend, fc.LogBackend)
	setString(&c.LogLevel, fc.LogLevel)

	if fc.AccessTokenValidityDuration.Duration > 0 {
		c.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.LoginRateWindow.Duration > 0 {
		c.LoginRateWindow = fc.LoginRateWindow.Duration
	}
	if fc.LoginRateLimit > 0 {
		c.LoginRateLimit = fc.LoginRateLimit
	}
	if fc.RedisDB > 0 {
		c.RedisDB = fc.RedisDB
	}
	if fc.ThrottleRPS > 0 {
		c.ThrottleRPS = fc.ThrottleRPS
	}
	if fc.ThrottleBurst > 0 {
		c.ThrottleBurst = fc.ThrottleBurst
	}
	if fc.BcryptCost > 0 {
		c.BcryptCost = fc.BcryptCost
	}
	if len(fc.TrustedProxies) > 0 {
		c.TrustedProxies = append([]string(nil), fc.TrustedProxies...)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
