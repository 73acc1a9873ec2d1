package config

import (
	"os"

	"github.com/quartz-framework/start/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value together with its source.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// Resolve reports the effective value of key using precedence
// flag > env > config > default.
func (l *Loader) Resolve(key string) ResolvedValue {
	result := ResolvedValue{
		Key:      key,
		Value:    l.v.Get(key),
		Source:   SourceDefault,
		Shadowed: make(map[ConfigSource]any),
	}

	type candidate struct {
		source ConfigSource
		value  any
	}
	var found []candidate

	if f := l.flags[key]; f != nil && f.Changed {
		found = append(found, candidate{SourceFlag, f.Value.String()})
	}
	if env, ok := os.LookupEnv(EnvName(key)); ok && env != "" {
		found = append(found, candidate{SourceEnv, env})
	}
	if l.file != nil && l.file.IsSet(key) {
		found = append(found, candidate{SourceConfig, l.file.Get(key)})
	}

	if len(found) == 0 {
		return result
	}
	result.Source = found[0].source
	for _, c := range found[1:] {
		result.Shadowed[c.source] = c.value
	}
	return result
}

// ResolveAll resolves every key in Keys.
func (l *Loader) ResolveAll() []ResolvedValue {
	out := make([]ResolvedValue, 0, len(Keys))
	for _, key := range Keys {
		out = append(out, l.Resolve(key))
	}
	return out
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) QSTART_CONFIG env, (3) ~/.qstart/config.yaml
func ResolveConfigPath(flagValue string) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case flagValue != "":
		result.ConfigPath = flagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
