package generator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartz-framework/start/internal/archive"
	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/project"
	"github.com/quartz-framework/start/internal/selection"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(content)
	}
	return out
}

func TestArchiveSnapshotProject(t *testing.T) {
	g := New(catalog.Default(), WithClock(fixedClock))

	res, data, err := g.Archive(context.Background(), project.Request{
		GroupID:    "com.example",
		ArtifactID: "my-plugin",
		Platform:   catalog.PlatformSpigot,
		Version:    "0.1.0-SNAPSHOT",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-plugin.zip", res.Project.ArchiveName())

	files := unzip(t, data)
	require.Contains(t, files, "my-plugin/pom.xml")
	pom := files["my-plugin/pom.xml"]
	assert.Contains(t, pom, "<version>0.1.0-SNAPSHOT</version>")
	assert.Contains(t, pom, "https://central.sonatype.com/repository/maven-snapshots")
	assert.Contains(t, pom, "<artifactId>spigot-api</artifactId>")

	assert.Equal(t,
		"name: '@project.name@'\nversion: '@project.version@'\nmain: 'com.example.myplugin.MyPlugin'\n",
		files["my-plugin/src/main/resources/plugin.yml"])
	assert.Contains(t, files, "my-plugin/src/main/java/com/example/myplugin/MyPlugin.java")
	assert.Contains(t, files, "my-plugin/mvnw")
	assert.Contains(t, files, "my-plugin/mvnw.cmd")
	assert.Contains(t, files, "my-plugin/.mvn/wrapper/maven-wrapper.properties")
}

func TestArchiveDataLayerProject(t *testing.T) {
	g := New(catalog.Default(), WithClock(fixedClock))

	_, data, err := g.Archive(context.Background(), project.Request{
		GroupID:      "com.example",
		ArtifactID:   "store",
		Platform:     catalog.PlatformSpigot,
		Version:      "0.1.0",
		Dependencies: []catalog.OptionID{"POSTGRESQL_DRIVER", "QUARTZ_DATA_JPA"},
	})
	require.NoError(t, err)

	pom := unzip(t, data)["store/pom.xml"]
	assert.NotContains(t, pom, "<repositories>")
	assert.Contains(t, pom, "<artifactId>quartz-starter-data-jpa</artifactId>")
	assert.Contains(t, pom, "<groupId>org.postgresql</groupId>\n      <artifactId>postgresql</artifactId>\n      <scope>runtime</scope>")
}

func TestArchiveRejectsDriverWithoutDataLayer(t *testing.T) {
	g := New(catalog.Default())

	res, data, err := g.Archive(context.Background(), project.Request{
		GroupID:      "com.example",
		ArtifactID:   "store",
		Platform:     catalog.PlatformSpigot,
		Version:      "0.1.0",
		Dependencies: []catalog.OptionID{"POSTGRESQL_DRIVER"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Nil(t, res)
	assert.Nil(t, data)

	detail, ok := oerrors.AsDetail(err)
	require.True(t, ok)
	require.Len(t, detail.Fields, 1)
	assert.Equal(t, "dependencies", detail.Fields[0].Field)
}

func TestRenderProjectRejectsBrokenSelection(t *testing.T) {
	cat := catalog.Default()
	p, err := project.Resolve(cat, project.Request{
		GroupID:    "com.example",
		ArtifactID: "store",
		Platform:   catalog.PlatformSpigot,
		Version:    "0.1.0",
	})
	require.NoError(t, err)
	p.Selection = selection.Of("POSTGRESQL_DRIVER")

	res, err := New(cat).renderProject(context.Background(), p)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	var cerr *selection.ConstraintError
	require.ErrorAs(t, err, &cerr)
	require.Len(t, cerr.Violations, 1)
	assert.Equal(t, catalog.OptionID("POSTGRESQL_DRIVER"), cerr.Violations[0].ID)
}

func TestPreviewMatchesRender(t *testing.T) {
	g := New(catalog.Default())
	req := project.Request{
		GroupID:      "com.example",
		ArtifactID:   "my-plugin",
		Platform:     catalog.PlatformSpigot,
		Version:      "0.1.0",
		Dependencies: []catalog.OptionID{"LOMBOK"},
	}

	p, paths, err := g.Preview(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "my-plugin", p.Request.ArtifactID)

	res, err := g.Render(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, res.Paths(), paths)
	assert.Equal(t, "plugin entry point", paths["my-plugin/"+p.PackageDir()+"/MyPlugin.java"])
}

func TestPreviewRejectsInvalidRequest(t *testing.T) {
	p, paths, err := New(catalog.Default()).Preview(context.Background(), project.Request{})
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Nil(t, p)
	assert.Nil(t, paths)
}

func TestArchiveMissingFields(t *testing.T) {
	_, data, err := New(catalog.Default()).Archive(context.Background(), project.Request{})
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Nil(t, data)
}

func TestArchiveIsDeterministic(t *testing.T) {
	g := New(catalog.Default(), WithClock(fixedClock))
	req := project.Request{
		GroupID:      "com.example",
		ArtifactID:   "my-plugin",
		Platform:     catalog.PlatformBungee,
		Version:      "0.1.0-SNAPSHOT",
		Dependencies: []catalog.OptionID{"LOMBOK", "MINE_DOWN"},
	}

	_, a, err := g.Archive(context.Background(), req)
	require.NoError(t, err)
	req.Dependencies = []catalog.OptionID{"MINE_DOWN", "LOMBOK"}
	_, b, err := g.Archive(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestArchiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, data, err := New(catalog.Default()).Archive(ctx, project.Request{
		GroupID:    "com.example",
		ArtifactID: "my-plugin",
		Platform:   catalog.PlatformSpigot,
		Version:    "0.1.0",
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, data)
}

func TestRenderShareURL(t *testing.T) {
	g := New(catalog.Default(), WithShareBaseURL("https://start.example/"))

	res, err := g.Render(context.Background(), project.Request{
		GroupID:    "com.example",
		ArtifactID: "my-plugin",
		Platform:   catalog.PlatformSpigot,
		Version:    "0.1.0",
	})
	require.NoError(t, err)
	assert.Contains(t, res.ShareURL, "https://start.example/?")
	assert.Contains(t, res.ShareURL, "artifactId=my-plugin")

	var readme string
	for _, f := range res.Files {
		if f.Path == "my-plugin/README.md" {
			readme = string(f.Content)
		}
	}
	assert.Contains(t, readme, res.ShareURL)

	paths := res.Paths()
	assert.Equal(t, "Maven build descriptor", paths["my-plugin/pom.xml"])
}

func TestWriteDir(t *testing.T) {
	fsys := memfs.New()
	g := New(catalog.Default())
	req := project.Request{
		GroupID:    "com.example",
		ArtifactID: "my-plugin",
		Platform:   catalog.PlatformSpigot,
		Version:    "0.1.0",
	}

	_, err := g.WriteDir(context.Background(), req, fsys, false)
	require.NoError(t, err)

	content, err := util.ReadFile(fsys, "my-plugin/src/main/resources/plugin.yml")
	require.NoError(t, err)
	assert.Contains(t, string(content), "com.example.myplugin.MyPlugin")

	_, err = g.WriteDir(context.Background(), req, fsys, false)
	assert.ErrorIs(t, err, archive.ErrExists)

	_, err = g.WriteDir(context.Background(), req, fsys, true)
	assert.NoError(t, err)
}
