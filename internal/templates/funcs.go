package templates

import (
	"encoding/xml"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"xml":   xmlEscape,
	"lower": strings.ToLower,
}

func xmlEscape(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return s
	}
	return sb.String()
}
