package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(catalog.Default())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "SPIGOT", cfg.Defaults.Platform)
	assert.Equal(t, 17, cfg.Defaults.JavaVersion)
	assert.Equal(t, "0.1.0-SNAPSHOT", cfg.Defaults.QuartzVersion)
	assert.Nil(t, cfg.Log.Timestamps)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "QSTART_SERVER_ADDR", EnvName(KeyServerAddr))
	assert.Equal(t, "QSTART_DEFAULTS_GROUPID", EnvName(KeyDefaultsGroupID))
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
  shutdownTimeout: 10s
  publicURL: https://start.example
log:
  timestamps: false
defaults:
  groupId: org.acme
  platform: BUNGEE
  javaVersion: 21
`)
		loader := NewLoader(catalog.Default())
		cfg, err := loader.Load(path)
		require.NoError(t, err)

		assert.True(t, loader.FileExists())
		assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, "https://start.example", cfg.Server.PublicURL)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
		assert.Equal(t, "org.acme", cfg.Defaults.GroupID)
		assert.Equal(t, "BUNGEE", cfg.Defaults.Platform)
		assert.Equal(t, 21, cfg.Defaults.JavaVersion)
		assert.Equal(t, "0.1.0-SNAPSHOT", cfg.Defaults.QuartzVersion)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		loader := NewLoader(catalog.Default())
		cfg, err := loader.Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		require.NoError(t, err)

		assert.False(t, loader.FileExists())
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
		assert.Nil(t, cfg.Log.Timestamps)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  addr: \":9000\"\n")
		t.Setenv("QSTART_SERVER_ADDR", ":9100")
		t.Setenv("QSTART_SERVER_SHUTDOWNTIMEOUT", "2s")

		cfg, err := NewLoader(catalog.Default()).Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9100", cfg.Server.Addr)
		assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeConfig(t, "server: [\n")
		_, err := NewLoader(catalog.Default()).Load(path)
		assert.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\ndefaults:\n  groupId: org.file\n")
	t.Setenv("QSTART_SERVER_ADDR", ":9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", "", "")
	flags.String("group", "", "")
	require.NoError(t, flags.Parse([]string{"--addr", ":9200"}))

	loader := NewLoader(catalog.Default())
	require.NoError(t, loader.BindFlag(KeyServerAddr, flags.Lookup("addr")))
	require.NoError(t, loader.BindFlag(KeyDefaultsGroupID, flags.Lookup("group")))
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9200", cfg.Server.Addr)
	assert.Equal(t, "org.file", cfg.Defaults.GroupID)

	addr := loader.Resolve(KeyServerAddr)
	assert.Equal(t, SourceFlag, addr.Source)
	assert.Equal(t, ":9100", addr.Shadowed[SourceEnv])
	assert.Equal(t, ":9000", addr.Shadowed[SourceConfig])

	group := loader.Resolve(KeyDefaultsGroupID)
	assert.Equal(t, SourceConfig, group.Source)
	assert.Equal(t, "org.file", group.Value)
	assert.Empty(t, group.Shadowed)

	platform := loader.Resolve(KeyDefaultsPlatform)
	assert.Equal(t, SourceDefault, platform.Source)
	assert.Equal(t, "SPIGOT", platform.Value)

	assert.Len(t, loader.ResolveAll(), len(Keys))
	assert.Error(t, loader.BindFlag(KeyServerPublicURL, flags.Lookup("missing")))
}

func TestResolveConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	defaultPath := filepath.Join(home, ".qstart", "config.yaml")

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvConfig, "/env/config.yaml")
		result, err := ResolveConfigPath("/flag/config.yaml")
		require.NoError(t, err)
		assert.Equal(t, "/flag/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
		assert.Equal(t, defaultPath, result.Shadowed[SourceDefault])
	})

	t.Run("env over default", func(t *testing.T) {
		t.Setenv(EnvConfig, "/env/config.yaml")
		result, err := ResolveConfigPath("")
		require.NoError(t, err)
		assert.Equal(t, "/env/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceEnv, result.Source)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		result, err := ResolveConfigPath("")
		require.NoError(t, err)
		assert.Equal(t, defaultPath, result.ConfigPath)
		assert.Equal(t, SourceDefault, result.Source)
	})
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"absolute", "/absolute/path", "/absolute/path"},
		{"relative", "relative/path", "relative/path"},
		{"tilde only", "~", home},
		{"tilde path", "~/.qstart/config.yaml", filepath.Join(home, ".qstart", "config.yaml")},
		{"tilde user", "~other/config.yaml", "~other/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	cat := catalog.Default()
	v, err := NewValidator(cat)
	require.NoError(t, err)

	assert.NoError(t, v.Validate(DefaultConfig(cat)))

	bad := DefaultConfig(cat)
	bad.Server.Addr = "8080"
	bad.Server.ShutdownTimeout = 0
	bad.Server.PublicURL = "ftp://start.example"
	bad.Defaults.Platform = "VELOCITY"
	bad.Defaults.JavaVersion = 8

	err = v.Validate(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{
		KeyServerAddr,
		KeyServerShutdownTimeout,
		KeyServerPublicURL,
		KeyDefaultsPlatform,
		KeyDefaultsJavaVersion,
	}, fields)
}

func TestValidatorValidateFile(t *testing.T) {
	v, err := NewValidator(catalog.Default())
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		path := writeConfig(t, "server:\n  addr: \":9000\"\n  shutdownTimeout: 1m30s\nlog:\n  timestamps: true\n")
		assert.NoError(t, v.ValidateFile(path))
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writeConfig(t, "server:\n  adress: \":9000\"\n")
		err := v.ValidateFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
		assert.Contains(t, err.Error(), "server.adress")
	})

	t.Run("schema mismatch", func(t *testing.T) {
		path := writeConfig(t, "server:\n  shutdownTimeout: soon\n")
		err := v.ValidateFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.shutdownTimeout")
	})

	t.Run("unknown platform", func(t *testing.T) {
		path := writeConfig(t, "defaults:\n  platform: VELOCITY\n")
		err := v.ValidateFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown platform")
	})

	t.Run("invalid YAML", func(t *testing.T) {
		path := writeConfig(t, "server: [\n")
		assert.ErrorIs(t, v.ValidateFile(path), oerrors.ErrValidation)
	})

	t.Run("missing file", func(t *testing.T) {
		err := v.ValidateFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, oerrors.ErrNotFound)
	})
}

func TestRenderConfig(t *testing.T) {
	cat := catalog.Default()
	data, err := RenderConfig(DefaultConfig(cat))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "# qstart configuration")
	assert.Contains(t, content, "# Listen address for 'qstart serve'.")
	assert.Contains(t, content, "shutdownTimeout: 5s")
	assert.Contains(t, content, "timestamps: true")
	assert.Contains(t, content, "platform: SPIGOT")

	// The rendered defaults must load back and pass validation.
	path := writeConfig(t, content)
	v, err := NewValidator(cat)
	require.NoError(t, err)
	assert.NoError(t, v.ValidateFile(path))

	cfg, err := NewLoader(cat).Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.True(t, *cfg.Log.Timestamps)
}
