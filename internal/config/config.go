package config

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	// Database (demand fact table)
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (artifact store); empty keeps artifacts in memory
	RedisURL string `mapstructure:"REDIS_URL"`

	// Geocoding
	GoogleMapsAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`

	// LLM (chart narration)
	LLMProvider  string `mapstructure:"LLM_PROVIDER"`
	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string `mapstructure:"OPENAI_MODEL"`
	ArkAPIKey    string `mapstructure:"ARK_API_KEY"`
	ArkModel     string `mapstructure:"ARK_MODEL"`

	// Upstream hardening
	HTTPTimeoutSeconds int `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	ArtifactTTLMinutes int `mapstructure:"ARTIFACT_TTL_MINUTES"`

	// Tracing (eino model/tool calls); empty disables tracing
	CozeLoopWorkspaceID string `mapstructure:"COZELOOP_WORKSPACE_ID"`
	CozeLoopAPIToken    string `mapstructure:"COZELOOP_API_TOKEN"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Environment
	Environment string `mapstructure:"ENVIRONMENT"`
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("PORT", "8086")
	viper.SetDefault("GIN_MODE", "release")
	viper.SetDefault("LLM_PROVIDER", "openai")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("ARTIFACT_TTL_MINUTES", 30)
	viper.SetDefault("LOG_LEVEL", "info")

	// Try to read .env file (optional)
	_ = viper.ReadInConfig()

	// Bind environment variables
	for _, key := range []string{
		"PORT", "GIN_MODE", "DATABASE_URL", "REDIS_URL",
		"GOOGLE_MAPS_API_KEY",
		"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "ARK_API_KEY", "ARK_MODEL",
		"HTTP_TIMEOUT_SECONDS", "ARTIFACT_TTL_MINUTES",
		"COZELOOP_WORKSPACE_ID", "COZELOOP_API_TOKEN",
		"LOG_LEVEL", "ENVIRONMENT",
	} {
		if val := os.Getenv(key); val != "" {
			viper.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
