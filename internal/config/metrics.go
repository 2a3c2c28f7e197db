package config

import "github.com/spf13/viper"

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadMetrics(v *viper.Viper) MetricsConfig {
	return MetricsConfig{
		Enabled:      boolValue(v, envMetricsOn, defaultMetricsEnabled),
		Port:         stringValue(v, envMetricsPort),
		OtlpEndpoint: stringValue(v, envOtelEndpoint),
		ServiceName:  stringValue(v, envOtelService),
		OtlpInsecure: boolValue(v, envOtelInsecure, defaultOtelInsecure),
	}
}
