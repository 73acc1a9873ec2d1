package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/config"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/testutil"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func testGlobalConfig() *cmdtypes.GlobalConfig {
	cat := catalog.Default()
	return &cmdtypes.GlobalConfig{Catalog: cat, Config: config.DefaultConfig(cat)}
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "qstart", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, root.PersistentFlags().Lookup("timestamps"))

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"generate", "serve", "diff", "catalog", "link", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestNewGenerateCmd(t *testing.T) {
	c := NewGenerateCmd(testGlobalConfig())

	assert.Equal(t, "generate", c.Use)
	assert.NotEmpty(t, c.Short)
	assert.NotEmpty(t, c.Long)

	f := c.Flags()
	for _, name := range []string{"link", "group", "artifact", "platform", "dependencies", "out", "dir", "force", "interactive", "dry-run"} {
		assert.NotNil(t, f.Lookup(name), name)
	}
}

func TestGenerateCmd_Archive(t *testing.T) {
	testutil.Isolate(t)
	out := filepath.Join(t.TempDir(), "plugin.zip")

	stdout, err := execute(t, "generate", "-g", "com.example", "-a", "my-plugin", "-d", "lombok", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Archive written to "+out)

	names := testutil.ZipEntries(t, out)
	assert.Contains(t, names, "my-plugin/pom.xml")
	assert.Contains(t, names, "my-plugin/src/main/resources/plugin.yml")
}

func TestGenerateCmd_RefusesOverwrite(t *testing.T) {
	testutil.Isolate(t)
	out := filepath.Join(t.TempDir(), "plugin.zip")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0o644))

	_, err := execute(t, "generate", "-g", "com.example", "-a", "my-plugin", "--out", out)
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	_, err = execute(t, "generate", "-g", "com.example", "-a", "my-plugin", "--out", out, "--force")
	require.NoError(t, err)
}

func TestGenerateCmd_Directory(t *testing.T) {
	testutil.Isolate(t)
	dir := t.TempDir()

	stdout, err := execute(t, "generate", "-g", "com.example", "-a", "proxy", "-p", "BUNGEE", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "bungee.yml")
	assert.FileExists(t, filepath.Join(dir, "proxy", "pom.xml"))
	assert.FileExists(t, filepath.Join(dir, "proxy", "src", "main", "resources", "bungee.yml"))

	_, err = execute(t, "generate", "-g", "com.example", "-a", "proxy", "-p", "BUNGEE", "--dir", dir)
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestGenerateCmd_DryRun(t *testing.T) {
	testutil.Isolate(t)
	wd := t.TempDir()
	t.Chdir(wd)

	stdout, err := execute(t, "generate", "-g", "com.example", "-a", "demo", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "demo")
	assert.Contains(t, stdout, "pom.xml")
	assert.Contains(t, stdout, "Maven build descriptor")
	assert.Contains(t, stdout, "plugin entry point")
	assert.NoFileExists(t, filepath.Join(wd, "demo.zip"))
}

func TestGenerateCmd_DryRunInvalidSelection(t *testing.T) {
	testutil.Isolate(t)

	stdout, err := execute(t, "generate", "-g", "com.example", "-a", "demo", "-d", "POSTGRESQL_DRIVER", "--dry-run")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
	assert.NotContains(t, stdout, "pom.xml")
}

func TestGenerateCmd_OutAndDirExclusive(t *testing.T) {
	testutil.Isolate(t)

	_, err := execute(t, "generate", "-g", "com.example", "-a", "demo", "--out", "a.zip", "--dir", "b")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestGenerateCmd_InvalidRequest(t *testing.T) {
	testutil.Isolate(t)
	out := filepath.Join(t.TempDir(), "x.zip")

	_, err := execute(t, "generate", "-a", "demo", "-d", "POSTGRESQL_DRIVER", "--out", out)
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
	assert.NoFileExists(t, out)
}

func TestGenerateCmd_InteractiveNeedsTTY(t *testing.T) {
	testutil.Isolate(t)

	_, err := execute(t, "generate", "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a terminal")
}

func TestGenerateCmd_ConfigDefaults(t *testing.T) {
	home := testutil.Isolate(t)
	testutil.WriteFile(t, home, ".qstart/config.yaml", "defaults:\n  groupId: org.configured\n")

	stdout, err := execute(t, "link", "encode", "-a", "demo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "groupId=org.configured")

	stdout, err = execute(t, "link", "encode", "-a", "demo", "-g", "com.flag")
	require.NoError(t, err)
	assert.Contains(t, stdout, "groupId=com.flag")
}

func TestNewServeCmd(t *testing.T) {
	c := NewServeCmd(testGlobalConfig())

	assert.Equal(t, "serve", c.Use)
	assert.NotEmpty(t, c.Long)
	assert.NotNil(t, c.Flags().Lookup("addr"))
	assert.NotNil(t, c.Flags().Lookup("public-url"))
	assert.NotNil(t, c.Flags().Lookup("shutdown-timeout"))
	assert.NotNil(t, c.Flags().Lookup("log-json"))
	assert.Equal(t, config.DefaultAddr, c.Flags().Lookup("addr").DefValue)
}

func TestServeCmd_InvalidAddr(t *testing.T) {
	testutil.Isolate(t)

	_, err := execute(t, "serve", "--addr", "nope")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestDiffCmd(t *testing.T) {
	testutil.Isolate(t)

	stdout, err := execute(t, "diff",
		"--from", "groupId=com.example&artifactId=demo",
		"--to", "groupId=com.example&artifactId=demo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No changes detected.")

	stdout, err = execute(t, "diff",
		"--from", "groupId=com.example&artifactId=demo",
		"--to", "groupId=com.example&artifactId=demo&dependencies=LOMBOK")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Modified:")
	assert.Contains(t, stdout, "pom.xml")
}

func TestDiffCmd_ExitCode(t *testing.T) {
	testutil.Isolate(t)

	_, err := execute(t, "diff", "--exit-code",
		"--from", "groupId=com.example&artifactId=demo",
		"--to", "groupId=com.example&artifactId=demo&dependencies=LOMBOK")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitGeneralError, oerrors.ExitCodeFromError(err))
}

func TestDiffCmd_ConfiguredGroup(t *testing.T) {
	home := testutil.Isolate(t)
	testutil.WriteFile(t, home, ".qstart/config.yaml", "defaults:\n  groupId: org.configured\n")

	stdout, err := execute(t, "diff",
		"--from", "artifactId=demo",
		"--to", "artifactId=demo&dependencies=LOMBOK")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pom.xml")
	assert.NotContains(t, stdout, "No changes detected.")
}

func TestDiffCmd_RequiresLinks(t *testing.T) {
	testutil.Isolate(t)

	_, err := execute(t, "diff", "--from", "groupId=com.example&artifactId=demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to")
}

func TestDiffCmd_InvalidLink(t *testing.T) {
	testutil.Isolate(t)

	_, err := execute(t, "diff",
		"--from", "groupId=com.example&artifactId=demo&javaVersion=abc",
		"--to", "groupId=com.example&artifactId=demo")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestGenerateCmd_DryRunReadme(t *testing.T) {
	testutil.Isolate(t)

	stdout, err := execute(t, "generate", "-g", "com.example", "-a", "demo", "--dry-run", "--readme")
	require.NoError(t, err)
	assert.Contains(t, stdout, "README.md")
	assert.Contains(t, stdout, "# ")
}
