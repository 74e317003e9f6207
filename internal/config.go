package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/weddingshare/weddingshare_server/internal/media"
)

const defaultConfigFile = "files/config.yaml"

type Config struct {
	Port           int                 `mapstructure:"port"`
	LogLevel       string              `mapstructure:"log_level"`
	LogFormat      string              `mapstructure:"log_format"`
	AllowedOrigins []string            `mapstructure:"allowed_origins"`
	MaxUploadBytes int64               `mapstructure:"max_upload_bytes"`
	Storage        media.BackendConfig `mapstructure:"storage"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadConfig reads files/config.yaml when present and lets environment
// variables override it. PORT and MEDIA_DIR keep their short names.
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), defaultConfigFile)
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	v.SetDefault("port", 3002)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("max_upload_bytes", 500*1024*1024)
	v.SetDefault("storage.type", string(media.StorageTypeLocal))
	v.SetDefault("storage.local_path", "./media")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_use_ssl", true)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindings := map[string]string{
		"port":                  "PORT",
		"log_level":             "LOG_LEVEL",
		"log_format":            "LOG_FORMAT",
		"allowed_origins":       "ALLOWED_ORIGINS",
		"max_upload_bytes":      "MAX_UPLOAD_BYTES",
		"storage.type":          "STORAGE_TYPE",
		"storage.local_path":    "MEDIA_DIR",
		"storage.s3_endpoint":   "S3_ENDPOINT",
		"storage.s3_bucket":     "S3_BUCKET",
		"storage.s3_access_key": "S3_ACCESS_KEY",
		"storage.s3_secret_key": "S3_SECRET_KEY",
		"storage.s3_region":     "S3_REGION",
		"storage.s3_use_ssl":    "S3_USE_SSL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.AllowedOrigins = splitOrigins(config.AllowedOrigins)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// splitOrigins accepts both a YAML list and a comma separated env value.
func splitOrigins(origins []string) []string {
	var result []string
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	switch c.Storage.Type {
	case media.StorageTypeLocal:
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("storage.local_path is required")
		}
	case media.StorageTypeS3:
		if c.Storage.S3Endpoint == "" || c.Storage.S3Bucket == "" {
			return fmt.Errorf("storage.s3_endpoint and storage.s3_bucket are required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}
	return nil
}
