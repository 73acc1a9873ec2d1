package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPlainFileTree(t *testing.T) {
	files := map[string]string{
		"demo/pom.xml":                              "build descriptor",
		"demo/mvnw":                                 "",
		"demo/src/main/resources/plugin.yml":        "manifest",
		"demo/src/main/java/com/example/Demo.java": "",
	}

	got := RenderPlainFileTree("demo", files)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	assert.Equal(t, "demo/", lines[0])
	// directories sort before files
	assert.Equal(t, "├── src/", lines[1])
	assert.Contains(t, got, "└── pom.xml")
	assert.Contains(t, got, "build descriptor")
	assert.Contains(t, got, "│       ├── java/")
	assert.Contains(t, got, "plugin.yml")
}

func TestRenderFileTreeEmpty(t *testing.T) {
	assert.Empty(t, RenderFileTree("demo", nil))
}

func TestRenderDiff(t *testing.T) {
	styles := NoColorStyles()

	t.Run("no changes", func(t *testing.T) {
		assert.Equal(t, "No changes detected.\n", RenderDiff(nil, nil, nil, styles))
	})

	t.Run("all sections", func(t *testing.T) {
		got := RenderDiff(
			[]string{"src/main/java/A.java"},
			[]string{"src/main/java/B.java"},
			[]ModifiedItem{{Name: "pom.xml", Diff: "- old\n+ new\n"}},
			styles,
		)
		assert.Contains(t, got, "  + src/main/java/A.java")
		assert.Contains(t, got, "  - src/main/java/B.java")
		assert.Contains(t, got, "  ~ pom.xml")
		assert.Contains(t, got, "    + new")
		assert.Contains(t, got, "Summary: 1 added, 1 removed, 1 modified")
	})
}

func TestStateStyleUnknown(t *testing.T) {
	assert.Equal(t, "x", StateStyle("bogus").Render("x"))
}

func TestTableRendersHeadersAndRows(t *testing.T) {
	out := NewTable("ID", "NAME").Row("LOMBOK", "Lombok").String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "LOMBOK")
	assert.Contains(t, out, "Lombok")
}

func TestIsTTYOverride(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func() bool { return true }

	assert.True(t, IsTTY())
	t.Setenv("QSTART_NO_TTY", "1")
	assert.False(t, IsTTY())
}
