package preview

import (
	"github.com/charmbracelet/glamour"
)

// Terminal renders a markdown document for display in a terminal.
// A width of 0 keeps glamour's default wrapping. On any rendering error
// the markdown is returned as-is.
func Terminal(markdown string, width int) string {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
