package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// BraveAPIKeyEnv holds the Brave Search subscription token
	BraveAPIKeyEnv = "BRAVE_API_KEY"
	// LinkupAPIKeyEnv holds the Linkup bearer credential
	LinkupAPIKeyEnv = "LINKUP_API_KEY"

	envPrefix  = "WEBSEARCH"
	configName = "config"
	appName    = "agent-web-search"
)

type Config struct {
	Brave   BraveConfig   `mapstructure:"brave"`
	Linkup  LinkupConfig  `mapstructure:"linkup"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BraveConfig configures the Brave Search web API
type BraveConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Timeout    int    `mapstructure:"timeout"` // seconds
	Country    string `mapstructure:"country"`
	SearchLang string `mapstructure:"search_lang"`
}

// LinkupConfig configures the Linkup search and fetch API
type LinkupConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from defaults, an optional YAML file, .env files
// and the environment. An explicitly named config file that cannot be read
// is an error; a missing default file is not.
func Load(cfgFile string) (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	godotenv.Load()
	godotenv.Load(".env.local")

	v := viper.New()

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Credentials use the provider-conventional names, without the prefix
	if err := v.BindEnv("brave.api_key", BraveAPIKeyEnv); err != nil {
		return nil, err
	}
	if err := v.BindEnv("linkup.api_key", LinkupAPIKeyEnv); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Brave.APIKey = strings.TrimSpace(cfg.Brave.APIKey)
	cfg.Linkup.APIKey = strings.TrimSpace(cfg.Linkup.APIKey)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("brave.base_url", "https://api.search.brave.com")
	v.SetDefault("brave.timeout", 30)
	v.SetDefault("brave.country", "us")
	v.SetDefault("brave.search_lang", "en")

	// Deep searches on Linkup are slow
	v.SetDefault("linkup.base_url", "https://api.linkup.so")
	v.SetDefault("linkup.timeout", 60)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
}
