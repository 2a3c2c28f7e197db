package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	DefaultSeasonID string
	SeedFile        string
	AdminToken      string
	ShutdownTimeout Duration
	Log             LogConfig
	Store           StoreConfig
	Metrics         MetricsConfig
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
// When CONFIG_FILE names a yaml file its values sit between the defaults and the environment.
func Load() (Config, error) {
	v := newViper()

	if path := strings.TrimSpace(os.Getenv(envConfigFile)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(key(envPort), defaultPort)
	v.SetDefault(key(envLogLevel), defaultLogLevel)
	v.SetDefault(key(envLogFormat), defaultLogFormat)
	v.SetDefault(key(envStoreBackend), defaultStoreBackend)
	v.SetDefault(key(envSQLitePath), defaultSQLitePath)
	v.SetDefault(key(envMongoDatabase), defaultMongoDatabase)
	v.SetDefault(key(envDefaultSeason), defaultSeasonID)
	v.SetDefault(key(envMetricsPort), defaultMetricsPort)
	v.SetDefault(key(envOtelService), defaultServiceName)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:            stringValue(v, envPort),
		DefaultSeasonID: stringValue(v, envDefaultSeason),
		SeedFile:        stringValue(v, envSeedFile),
		AdminToken:      stringValue(v, envAdminToken),
		ShutdownTimeout: durationValue(v, envShutdownPeriod, defaultShutdownPeriod),
		Log: LogConfig{
			Level:  stringValue(v, envLogLevel),
			Format: stringValue(v, envLogFormat),
		},
		Store:   loadStore(v),
		Metrics: loadMetrics(v),
	}
}
