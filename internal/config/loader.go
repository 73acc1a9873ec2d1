package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/quartz-framework/start/internal/catalog"
)

// Environment variable prefix for qstart configuration.
const envPrefix = "QSTART"

// EnvName returns the environment variable bound to key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Loader layers flags, environment, config file and defaults.
type Loader struct {
	v     *viper.Viper
	file  *viper.Viper
	flags map[string]*pflag.Flag
	path  string
}

// NewLoader creates a loader with defaults taken from cat.
func NewLoader(cat *catalog.Catalog) *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range Keys {
		_ = v.BindEnv(key, EnvName(key))
	}
	for key, value := range defaultValues(cat) {
		v.SetDefault(key, value)
	}

	return &Loader{v: v, flags: make(map[string]*pflag.Flag)}
}

// BindFlag makes f the highest precedence source for key once it is set on
// the command line.
func (l *Loader) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	l.flags[key] = f
	return l.v.BindPFlag(key, f)
}

// Path returns the config file used by the last Load.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the config file at path, if it exists, and returns the merged
// configuration. A missing file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}
	l.path = expanded

	file := viper.New()
	file.SetConfigFile(expanded)
	file.SetConfigType("yaml")

	if err := file.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No file: defaults and env only
	} else {
		l.file = file
		if err := l.v.MergeConfigMap(file.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if !l.v.IsSet(KeyLogTimestamps) {
		cfg.Log.Timestamps = nil
	}

	return &cfg, nil
}

// FileExists reports whether the last Load read a config file.
func (l *Loader) FileExists() bool {
	return l.file != nil
}
