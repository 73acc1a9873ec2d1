// Package config provides configuration loading and management.
package config

import (
	"time"

	"github.com/quartz-framework/start/internal/catalog"
)

// Configuration keys. Nested keys map to nested YAML mappings and to
// QSTART_-prefixed environment variables with dots replaced by underscores.
const (
	KeyServerAddr            = "server.addr"
	KeyServerShutdownTimeout = "server.shutdownTimeout"
	KeyServerPublicURL       = "server.publicURL"
	KeyLogTimestamps         = "log.timestamps"
	KeyDefaultsGroupID       = "defaults.groupId"
	KeyDefaultsPlatform      = "defaults.platform"
	KeyDefaultsJavaVersion   = "defaults.javaVersion"
	KeyDefaultsQuartzVersion = "defaults.quartzVersion"
)

// Keys lists every configuration key in display order.
var Keys = []string{
	KeyServerAddr,
	KeyServerShutdownTimeout,
	KeyServerPublicURL,
	KeyLogTimestamps,
	KeyDefaultsGroupID,
	KeyDefaultsPlatform,
	KeyDefaultsJavaVersion,
	KeyDefaultsQuartzVersion,
}

// ServerConfig contains settings for qstart serve.
type ServerConfig struct {
	// Addr is the listen address. Env: QSTART_SERVER_ADDR, Default: ":8080"
	Addr string `mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown. Default: 5s
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`

	// PublicURL is the base of share links. Empty disables them.
	PublicURL string `mapstructure:"publicURL"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Nil means the logger default (true). Override with --timestamps.
	Timestamps *bool `mapstructure:"timestamps"`
}

// DefaultsConfig seeds project requests when a flag is not given.
type DefaultsConfig struct {
	GroupID       string `mapstructure:"groupId"`
	Platform      string `mapstructure:"platform"`
	JavaVersion   int    `mapstructure:"javaVersion"`
	QuartzVersion string `mapstructure:"quartzVersion"`
}

// Config represents the qstart configuration.
// Loaded from ~/.qstart/config.yaml, validated against an embedded CUE schema.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// Default values.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
)

// DefaultConfig returns a Config with all default values populated. Request
// defaults come from cat.
func DefaultConfig(cat *catalog.Catalog) *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Defaults: DefaultsConfig{
			Platform:      string(cat.DefaultPlatform()),
			JavaVersion:   int(cat.DefaultJavaVersion()),
			QuartzVersion: cat.DefaultQuartzVersion(),
		},
	}
}

// defaultValues flattens DefaultConfig into viper defaults.
func defaultValues(cat *catalog.Catalog) map[string]any {
	d := DefaultConfig(cat)
	return map[string]any{
		KeyServerAddr:            d.Server.Addr,
		KeyServerShutdownTimeout: d.Server.ShutdownTimeout,
		KeyServerPublicURL:       d.Server.PublicURL,
		KeyDefaultsGroupID:       d.Defaults.GroupID,
		KeyDefaultsPlatform:      d.Defaults.Platform,
		KeyDefaultsJavaVersion:   d.Defaults.JavaVersion,
		KeyDefaultsQuartzVersion: d.Defaults.QuartzVersion,
	}
}
