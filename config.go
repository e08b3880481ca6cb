package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/michael1011/web3-proxy/pkg/log"
)

const (
	configDirPathEnv     = "WEB3_PROXY_CONFIG_DIR_PATH"
	defaultConfigDirPath = "."
)

// Config represents the overall application configuration
type Config struct {
	ListenAddr        string        `env:"WEB3_PROXY_LISTEN_ADDR" env-default:":3000" validate:"required"`
	UpstreamURL       string        `env:"WEB3_PROXY_UPSTREAM_URL" validate:"required,url"`
	MaxBlockRange     uint64        `env:"WEB3_PROXY_MAX_BLOCK_RANGE" env-default:"1000" validate:"gt=0"`
	MaxBodyBytes      int64         `env:"WEB3_PROXY_MAX_BODY_BYTES" env-default:"5242880" validate:"gt=0"`
	StartupTimeout    time.Duration `env:"WEB3_PROXY_STARTUP_TIMEOUT" env-default:"5s" validate:"gt=0"`
	MetricsListenAddr string        `env:"WEB3_PROXY_METRICS_LISTEN_ADDR" env-default:":4242"`
	InfoBanner        string        `env:"WEB3_PROXY_INFO_BANNER" env-default:"This web3 provider is protected by web3-proxy"`

	// configDirPath holds .env and policy.yaml.
	configDirPath string
	policy        PolicyConfig
}

// LoadConfig builds configuration from the .env file in the config directory,
// environment variables and the optional policy file.
func LoadConfig(logger log.Logger) (*Config, error) {
	logger = logger.WithName("config")

	configDirPath := os.Getenv(configDirPathEnv)
	if configDirPath == "" {
		configDirPath = defaultConfigDirPath
	}

	configDotEnvPath := filepath.Join(configDirPath, ".env")
	logger.Info("loading .env file", "path", configDotEnvPath)
	if err := godotenv.Load(configDotEnvPath); err != nil {
		logger.Warn(".env file not found")
	}

	var conf Config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	conf.configDirPath = configDirPath

	if err := validator.New().Struct(conf); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	policy, err := LoadPolicy(configDirPath, conf.MaxBlockRange)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	conf.policy = policy

	logger.Info("configuration loaded",
		"listenAddr", conf.ListenAddr,
		"metricsListenAddr", conf.MetricsListenAddr,
		"maxBlockRange", conf.MaxBlockRange,
		"maxBodyBytes", conf.MaxBodyBytes,
	)
	return &conf, nil
}
