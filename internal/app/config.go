package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chorepoints/chorepoints-backend/internal/pkg/envutil"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
}

// fileConfig is the optional YAML overlay; any field left zero falls back
// to the environment value.
type fileConfig struct {
	Port                  string `yaml:"port"`
	JWTSecretKey          string `yaml:"jwt_secret_key"`
	AccessTokenTTLSeconds int    `yaml:"access_token_ttl_seconds"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:           envutil.Str("PORT", "8080"),
		JWTSecretKey:   envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL: time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 28800)) * time.Second,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		overlay, err := loadFileConfig(path)
		if err != nil {
			log.Warn("Skipping config file", "path", path, "error", err)
			return cfg
		}
		if overlay.Port != "" {
			cfg.Port = overlay.Port
		}
		if overlay.JWTSecretKey != "" {
			cfg.JWTSecretKey = overlay.JWTSecretKey
		}
		if overlay.AccessTokenTTLSeconds > 0 {
			cfg.AccessTokenTTL = time.Duration(overlay.AccessTokenTTLSeconds) * time.Second
		}
		log.Info("Applied config file", "path", path)
	}

	return cfg
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}
