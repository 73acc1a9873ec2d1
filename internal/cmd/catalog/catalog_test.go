package catalog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qcatalog "github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/config"
	oerrors "github.com/quartz-framework/start/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QSTART_NO_TTY", "1")
	cat := qcatalog.Default()
	c := NewCatalogCmd(&cmdtypes.GlobalConfig{Catalog: cat, Config: config.DefaultConfig(cat)})
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestNewCatalogCmd(t *testing.T) {
	c := NewCatalogCmd(&cmdtypes.GlobalConfig{})
	assert.Equal(t, "catalog", c.Use)

	list := NewListCmd(&cmdtypes.GlobalConfig{})
	assert.Equal(t, "list", list.Use)
	assert.NotNil(t, list.Flags().Lookup("output"))
	assert.NotNil(t, list.Flags().Lookup("platform"))
	assert.NotNil(t, list.Flags().Lookup("selected"))

	show := NewShowCmd(&cmdtypes.GlobalConfig{})
	assert.Equal(t, "show <id>", show.Use)
}

func TestList_Table(t *testing.T) {
	stdout, err := run(t, "list")
	require.NoError(t, err)

	assert.Contains(t, stdout, "LOMBOK")
	assert.Contains(t, stdout, "STATE")
	assert.Contains(t, stdout, "available")
	assert.Contains(t, stdout, "blocked")
}

func TestList_JSONStates(t *testing.T) {
	stdout, err := run(t, "list", "-o", "json", "--selected", "QUARTZ_DATA_JPA")
	require.NoError(t, err)

	var rows []optionRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))

	states := map[qcatalog.OptionID]optionRow{}
	for _, r := range rows {
		states[r.ID] = r
	}
	assert.Equal(t, "selected", states["QUARTZ_DATA_JPA"].State)
	assert.Equal(t, "available", states["POSTGRESQL_DRIVER"].State)
	assert.Equal(t, "available", states["LOMBOK"].State)
}

func TestList_Blocked(t *testing.T) {
	stdout, err := run(t, "list", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "id: POSTGRESQL_DRIVER")
	assert.Contains(t, stdout, "state: blocked")
}

func TestList_InvalidFlags(t *testing.T) {
	_, err := run(t, "list", "-o", "xml")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	_, err = run(t, "list", "-p", "FORGE")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
}

func TestShow(t *testing.T) {
	stdout, err := run(t, "show", "postgresql_driver")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# PostgreSQL Driver")
	assert.Contains(t, stdout, "`POSTGRESQL_DRIVER`")
	assert.Contains(t, stdout, "Quartz Data JPA")
}

func TestShow_Unknown(t *testing.T) {
	_, err := run(t, "show", "NOPE")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}
