// Package config loads the application configuration from an optional
// config file, environment bindings, and built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envConfigPrefix = "$env:"

// Config is the full application configuration.
type Config struct {
	Site    SiteConfig
	Google  GoogleConfig
	Sync    SyncConfig
	Logger  LoggerConfig
	Storage StorageConfig
}

// SiteConfig controls the website walk.
type SiteConfig struct {
	Root            string
	CalendarPath    string
	WaitTimeout     time.Duration
	MaxAttempts     int
	EmptyMonthLimit int
	MaxMonths       int
}

// GoogleConfig identifies the target calendar and the service account
// credentials used to manage it.
type GoogleConfig struct {
	CredentialsFile string
	CalendarID      string
	Creator         string
}

// SyncConfig selects the reconciliation behavior.
type SyncConfig struct {
	Policy   string
	FailFast bool
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level string
}

// StorageConfig locates the local data directory for run reports.
type StorageConfig struct {
	DataDir string
}

// New builds a Config from defaults, the given config file (optional) and
// any $env: bindings found in it.
func New(configFile string) (Config, error) {
	config := Config{}

	viper.SetDefault("site.root", "https://www.ps154.org")
	viper.SetDefault("site.calendarPath", "/calendar")
	viper.SetDefault("site.waitTimeout", "5s")
	viper.SetDefault("site.maxAttempts", 5)
	viper.SetDefault("site.emptyMonthLimit", 4)
	viper.SetDefault("site.maxMonths", 0)
	viper.SetDefault("google.credentialsFile", "service-account-key.json")
	viper.SetDefault("google.calendarId", "")
	viper.SetDefault("google.creator", "")
	viper.SetDefault("sync.policy", "equality-diff")
	viper.SetDefault("sync.failFast", false)
	viper.SetDefault("logger.level", "INFO")
	viper.SetDefault("storage.dataDir", "~/.local/share/cal-sync")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return config, fmt.Errorf("failed to read config %q: %w", configFile, err)
		}
	}

	keys := viper.AllKeys()
	for _, key := range keys {
		env := viper.GetString(key)
		if strings.HasPrefix(env, envConfigPrefix) {
			err := viper.BindEnv(key, env[len(envConfigPrefix):])
			if err != nil {
				return Config{}, fmt.Errorf("failed to prepare config: %w", err)
			}
		}
	}

	err := viper.Unmarshal(&config)
	if err != nil {
		return config, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	return config, nil
}

// Validate checks that the settings a sync run cannot proceed without
// are present.
func (c Config) Validate() error {
	if c.Google.CalendarID == "" {
		return fmt.Errorf("google.calendarId is required")
	}
	if c.Google.Creator == "" {
		return fmt.Errorf("google.creator is required")
	}
	return nil
}
