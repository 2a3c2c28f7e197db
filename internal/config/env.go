package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Duration wraps time.Duration for clearer type usage in Config.
type Duration = time.Duration

// key maps an environment variable name onto the viper key that AutomaticEnv resolves back to it.
func key(env string) string {
	return strings.ToLower(env)
}

func stringValue(v *viper.Viper, env string) string {
	return strings.TrimSpace(v.GetString(key(env)))
}

func durationValue(v *viper.Viper, env string, defaultValue time.Duration) time.Duration {
	return positiveValue(v, env, defaultValue, time.ParseDuration)
}

func intValue(v *viper.Viper, env string, defaultValue int) int {
	return positiveValue(v, env, defaultValue, strconv.Atoi)
}

// positiveValue parses the raw value and keeps the default for blank, malformed or non-positive input.
func positiveValue[T int | time.Duration](v *viper.Viper, env string, defaultValue T, parse func(string) (T, error)) T {
	raw := stringValue(v, env)
	if raw == "" {
		return defaultValue
	}
	parsed, err := parse(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func boolValue(v *viper.Viper, env string, defaultValue bool) bool {
	return parseBool(stringValue(v, env), defaultValue)
}

func parseBool(raw string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}
