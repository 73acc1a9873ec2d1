package output

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown for the terminal. When styled is false, or
// the renderer cannot be built, the source is returned unchanged.
func RenderMarkdown(src string, width int, styled bool) string {
	if !styled {
		return src
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Debug("markdown renderer unavailable", "error", err)
		return src
	}

	out, err := r.Render(src)
	if err != nil {
		logger.Debug("rendering markdown", "error", err)
		return src
	}
	return out
}
