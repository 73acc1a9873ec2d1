package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/quartz-framework/start/internal/errors"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Options(), 9)
	assert.Len(t, c.Categories(), 3)
	assert.Equal(t, PlatformSpigot, c.DefaultPlatform())
	assert.Equal(t, JavaVersion(17), c.DefaultJavaVersion())
	assert.Equal(t, BuildToolMaven, c.DefaultBuildTool())
	assert.Equal(t, "0.1.0-SNAPSHOT", c.DefaultQuartzVersion())
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestEmbeddedOptionData(t *testing.T) {
	c := Default()

	lombok, err := c.Option("LOMBOK")
	require.NoError(t, err)
	assert.Equal(t, "Lombok", lombok.Name)
	assert.Equal(t, Category("DEVELOPMENT_TOOLS"), lombok.Category)
	assert.Equal(t, Coordinates{GroupID: "org.projectlombok", ArtifactID: "lombok", Optional: true}, lombok.Maven)
	assert.Empty(t, lombok.Requires)
	assert.Empty(t, lombok.AllowedPlatforms)

	pg, err := c.Option("POSTGRESQL_DRIVER")
	require.NoError(t, err)
	assert.Equal(t, "runtime", pg.Maven.Scope)
	assert.Equal(t, []OptionID{"QUARTZ_DATA_JPA"}, c.Requires("POSTGRESQL_DRIVER"))

	assert.Len(t, c.RequiresAny("FLYWAY"), 5)
	assert.Contains(t, c.RequiresAny("FLYWAY"), OptionID("H2_DATABASE_DRIVER"))

	assert.ElementsMatch(t, []Platform{PlatformSpigot, PlatformBungee}, c.AllowedPlatforms("MINE_DOWN"))
}

func TestOptionUnknown(t *testing.T) {
	_, err := Default().Option("NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOption))
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	assert.Nil(t, Default().Requires("NOPE"))
}

func TestAllowedOn(t *testing.T) {
	c := Default()
	assert.True(t, c.AllowedOn("LOMBOK", PlatformBungee))
	assert.True(t, c.AllowedOn("MINE_DOWN", PlatformSpigot))
	assert.False(t, c.AllowedOn("NOPE", PlatformSpigot))
}

func TestPlatforms(t *testing.T) {
	c := Default()

	spigot, err := c.Platform(PlatformSpigot)
	require.NoError(t, err)
	assert.Equal(t, "plugin.yml", spigot.Manifest)
	assert.Equal(t, "SpigotPlugin", spigot.StarterClass)
	assert.Equal(t, "1.21.4-R0.1-SNAPSHOT", spigot.DefaultAPIVersion())
	assert.True(t, spigot.SupportsAPIVersion("1.20.1-R0.1-SNAPSHOT"))
	assert.False(t, spigot.SupportsAPIVersion("1.19-R0.1-SNAPSHOT"))

	bungee, err := c.Platform(PlatformBungee)
	require.NoError(t, err)
	assert.Equal(t, "bungee.yml", bungee.Manifest)
	assert.Equal(t, "net.md-5", bungee.API.GroupID)

	_, err = c.Platform("VELOCITY")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestBuildTools(t *testing.T) {
	c := Default()

	gradle, err := c.BuildTool(BuildToolGradle)
	require.NoError(t, err)
	assert.False(t, gradle.Supported)

	maven, err := c.BuildTool(BuildToolMaven)
	require.NoError(t, err)
	assert.True(t, maven.Supported)

	_, err = c.BuildTool("ANT")
	assert.ErrorIs(t, err, ErrUnknownBuildTool)
}

func TestCategoryOrder(t *testing.T) {
	c := Default()

	var ids []OptionID
	for _, o := range c.Category("SQL") {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, OptionID("QUARTZ_DATA_JPA"), ids[0])
	assert.Equal(t, OptionID("FLYWAY"), ids[len(ids)-1])
	assert.Equal(t, "Development Tools", c.CategoryName("DEVELOPMENT_TOOLS"))
	assert.Equal(t, "OTHER", c.CategoryName("OTHER"))
}

func TestDependents(t *testing.T) {
	c := Default()
	deps := c.Dependents("QUARTZ_DATA_JPA")
	assert.Len(t, deps, 5)
	assert.NotContains(t, deps, OptionID("FLYWAY"))
	assert.Equal(t, []OptionID{"FLYWAY"}, c.Dependents("MYSQL_DRIVER"))
	assert.Empty(t, c.Dependents("LOMBOK"))
}

func TestTopoOrder(t *testing.T) {
	c := Default()
	got := c.TopoOrder([]OptionID{"FLYWAY", "NOPE", "H2_DATABASE_DRIVER", "QUARTZ_DATA_JPA", "LOMBOK", "FLYWAY"})
	assert.Equal(t, []OptionID{"LOMBOK", "QUARTZ_DATA_JPA", "H2_DATABASE_DRIVER", "FLYWAY", "NOPE"}, got)
}

func TestSortIDs(t *testing.T) {
	c := Default()
	got := c.SortIDs([]OptionID{"ZZZ", "MINE_DOWN", "LOMBOK", "AAA"})
	assert.Equal(t, []OptionID{"LOMBOK", "MINE_DOWN", "AAA", "ZZZ"}, got)
}

// chain returns a definition with options A <- B <- C.
func chain() Definition {
	return Definition{
		Categories: []CategoryInfo{{ID: "X", Name: "X"}},
		Platforms:  []PlatformInfo{{ID: "P", Name: "P", APIVersions: []string{"1"}}},
		Options: []Option{
			{ID: "A", Name: "A", Category: "X"},
			{ID: "B", Name: "B", Category: "X", Requires: []OptionID{"A"}},
			{ID: "C", Name: "C", Category: "X", Requires: []OptionID{"B"}},
		},
	}
}

func TestNewRejectsBrokenDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Definition)
		wantMsg string
	}{
		{
			name: "duplicate id",
			mutate: func(d *Definition) {
				d.Options = append(d.Options, Option{ID: "A", Name: "A2", Category: "X"})
			},
			wantMsg: "duplicate option A",
		},
		{
			name: "dangling requires",
			mutate: func(d *Definition) {
				d.Options[0].Requires = []OptionID{"MISSING"}
			},
			wantMsg: "references unknown option MISSING",
		},
		{
			name: "dangling requiresAny",
			mutate: func(d *Definition) {
				d.Options[0].RequiresAny = []OptionID{"MISSING"}
			},
			wantMsg: "references unknown option MISSING",
		},
		{
			name: "self reference",
			mutate: func(d *Definition) {
				d.Options[0].Requires = []OptionID{"A"}
			},
			wantMsg: "requires itself",
		},
		{
			name: "cycle",
			mutate: func(d *Definition) {
				d.Options[0].RequiresAny = []OptionID{"C"}
			},
			wantMsg: "dependency cycle",
		},
		{
			name: "unknown category",
			mutate: func(d *Definition) {
				d.Options[2].Category = "Y"
			},
			wantMsg: "unknown category Y",
		},
		{
			name: "unknown platform",
			mutate: func(d *Definition) {
				d.Options[1].AllowedPlatforms = []Platform{"Q"}
			},
			wantMsg: "unknown platform Q",
		},
		{
			name: "no platforms",
			mutate: func(d *Definition) {
				d.Platforms = nil
			},
			wantMsg: "at least one platform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := chain()
			tt.mutate(&def)
			_, err := New(def)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
			assert.ErrorIs(t, err, oerrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewChain(t *testing.T) {
	c, err := New(chain())
	require.NoError(t, err)
	assert.Equal(t, []OptionID{"A", "B", "C"}, c.TopoOrder([]OptionID{"C", "A", "B"}))
	assert.Equal(t, []OptionID{"B"}, c.Dependents("A"))
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `options: [`},
		{"lowercase id", validDoc(`{id: "lombok", name: "Lombok", category: "X", maven: {groupId: "a", artifactId: "b"}}`)},
		{"bad scope", validDoc(`{id: "L", name: "L", category: "X", maven: {groupId: "a", artifactId: "b", scope: "system"}}`)},
		{"unknown field", validDoc(`{id: "L", name: "L", category: "X", color: "red", maven: {groupId: "a", artifactId: "b"}}`)},
		{"missing maven", validDoc(`{id: "L", name: "L", category: "X"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParseValidDocument(t *testing.T) {
	c, err := Parse([]byte(validDoc(`{id: "L", name: "L", category: "X", maven: {groupId: "a", artifactId: "b"}}`)))
	require.NoError(t, err)

	o, err := c.Option("L")
	require.NoError(t, err)
	assert.Empty(t, o.Maven.Scope)
	assert.False(t, o.Maven.Optional)
	assert.Empty(t, o.Requires)
}

func validDoc(option string) string {
	return `
categories: [{id: "X", name: "X"}]
options: [` + option + `]
platforms: [{
	id: "P"
	name: "P"
	manifest: "plugin.yml"
	starterClass: "PPlugin"
	starterPackage: "xyz.p"
	starterArtifact: "p-starter"
	api: {groupId: "g", artifactId: "a"}
	apiVersions: ["1"]
}]
javaVersions: [{version: 17}]
buildTools: [{id: "MAVEN", name: "Maven"}]
quartzVersions: ["0.1.0"]
`
}

func TestJavaVersionUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    JavaVersion
		wantErr bool
	}{
		{`17`, 17, false},
		{`"21"`, 21, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"seventeen"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v JavaVersion
			err := v.UnmarshalJSON([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}
