// Package templates renders the embedded Maven project skeleton for a
// resolved project.
package templates

import "embed"

// projectFS holds the Maven skeleton. Path segments are placeholders:
//
//	dot_<name>    becomes .<name>
//	__package__   becomes the main class package as directories
//	__main__      becomes the main class name
//
// Files ending in .tmpl are executed with TemplateData; others are copied.
//
//go:embed all:maven
var projectFS embed.FS

const templateRoot = "maven"
