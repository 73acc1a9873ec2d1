package project

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// words splits s on every rune that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !isASCIIAlnum(r)
	})
}

func isASCIIAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// PascalCase joins the alphanumeric words of s, upper-casing the first letter
// of each and keeping the rest as written: "my-plugin" becomes "MyPlugin".
func PascalCase(s string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, w := range words(s) {
		sb.WriteString(caser.String(w))
	}
	return sb.String()
}

// DefaultName derives a display name from an artifact ID.
func DefaultName(artifactID string) string {
	return PascalCase(artifactID)
}

// PackageSegment turns an artifact ID into a single Java package segment:
// alphanumerics only, lower case, never starting with a digit.
func PackageSegment(artifactID string) string {
	seg := strings.ToLower(strings.Join(words(artifactID), ""))
	return identifierSafe(seg)
}

// ClassName derives a Java class name from a display name.
func ClassName(name string) string {
	return identifierSafe(PascalCase(name))
}

// DefaultMainClass derives the fully qualified entry-point class:
// <groupId>.<artifact segment>.<ClassName>.
func DefaultMainClass(groupID, artifactID, name string) string {
	parts := make([]string, 0, 3)
	if groupID != "" {
		parts = append(parts, groupID)
	}
	if seg := PackageSegment(artifactID); seg != "" {
		parts = append(parts, seg)
	}
	if cls := ClassName(name); cls != "" {
		parts = append(parts, cls)
	}
	return strings.Join(parts, ".")
}

// SplitMainClass splits a fully qualified class name into package and
// simple class name.
func SplitMainClass(fqn string) (pkg, class string) {
	i := strings.LastIndex(fqn, ".")
	if i < 0 {
		return "", fqn
	}
	return fqn[:i], fqn[i+1:]
}

func identifierSafe(s string) string {
	if s == "" {
		return s
	}
	if unicode.IsDigit(rune(s[0])) {
		return "_" + s
	}
	return s
}

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "_": true,
}

// isJavaIdentifier reports whether s is a valid, non-reserved Java
// identifier made of ASCII letters, digits, '_' and '$'.
func isJavaIdentifier(s string) bool {
	if s == "" || javaKeywords[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r < unicode.MaxASCII && unicode.IsLetter(r):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// isQualifiedName reports whether s is a dot-separated list of at least minParts
// Java identifiers.
func isQualifiedName(s string, minParts int) bool {
	parts := strings.Split(s, ".")
	if len(parts) < minParts {
		return false
	}
	for _, p := range parts {
		if !isJavaIdentifier(p) {
			return false
		}
	}
	return true
}
