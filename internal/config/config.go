package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort                int    `mapstructure:"APP_PORT"`
	DatabasePath           string `mapstructure:"DATABASE_PATH"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	EncryptionKey          string `mapstructure:"ENCRYPTION_KEY"`
	RequirePersistentKey   bool   `mapstructure:"REQUIRE_PERSISTENT_KEY"`
	GeminiAPIKey           string `mapstructure:"GEMINI_API_KEY"`
	GeminiAPIURL           string `mapstructure:"GEMINI_API_URL"`
	ProviderTimeoutSeconds int    `mapstructure:"PROVIDER_TIMEOUT_SECONDS"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/lumen.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("ENCRYPTION_KEY", "")
	viper.SetDefault("REQUIRE_PERSISTENT_KEY", false)
	// Process-wide fallback credential used when a user has not stored
	// their own key. May be empty; sends then require a per-user key.
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_API_URL", "https://generativelanguage.googleapis.com")
	viper.SetDefault("PROVIDER_TIMEOUT_SECONDS", 60)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
