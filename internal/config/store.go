package config

import (
	"strings"

	"github.com/spf13/viper"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is one of memory, sqlite or mongo.
	Backend       string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
	RetryAttempts int
}

func loadStore(v *viper.Viper) StoreConfig {
	return StoreConfig{
		Backend:       strings.ToLower(stringValue(v, envStoreBackend)),
		SQLitePath:    stringValue(v, envSQLitePath),
		MongoURI:      stringValue(v, envMongoURI),
		MongoDatabase: stringValue(v, envMongoDatabase),
		RetryAttempts: intValue(v, envStoreRetries, defaultStoreRetries),
	}
}
