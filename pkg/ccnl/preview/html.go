// Package preview turns rendered documents into HTML or terminal output.
package preview

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// documentPolicy allows the formatting admins use in letters and checklists.
func documentPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("mark", "section", "header", "footer")
		p.AllowAttrs("class").OnElements("p", "span", "div", "section", "table", "td", "th")
		policy = p
	})
	return policy
}

// Sanitize strips markup that is not allowed in a document preview.
func Sanitize(raw string) string {
	return documentPolicy().Sanitize(raw)
}

// EscapeBindings returns a copy of b where every value r would substitute is
// replaced by its HTML-escaped text, so user-entered values cannot inject
// markup into the preview. Values r treats as missing or unsupported are
// copied unchanged and r still reports them. A nil r uses default settings.
func EscapeBindings(r *template.Renderer, b template.Bindings) template.Bindings {
	if r == nil {
		r = template.NewRenderer()
	}
	text := r.Stringify(b)
	out := make(template.Bindings, len(b))
	for k, v := range b {
		if s, ok := text[k]; ok {
			out[k] = html.EscapeString(s)
			continue
		}
		out[k] = v
	}
	return out
}

// HighlightMissing wraps the tokens of missing keys in <mark> elements.
func HighlightMissing(s string, missingKeys []string) string {
	if len(missingKeys) == 0 {
		return s
	}
	missing := make(map[string]bool, len(missingKeys))
	for _, k := range missingKeys {
		missing[k] = true
	}
	return template.ReplaceTokens(s, func(key, token string) string {
		if !missing[key] {
			return token
		}
		return `<mark class="missing" data-key="` + key + `">` + token + `</mark>`
	})
}

// HTML sanitizes a rendered result and highlights its missing keys.
func HTML(res template.RenderResult) string {
	return HighlightMissing(Sanitize(res.Output), res.MissingKeys)
}

// RenderHTML escapes bindings, renders tmpl with r and returns the preview
// markup along with the raw result.
func RenderHTML(r *template.Renderer, tmpl string, b template.Bindings) (string, template.RenderResult) {
	res := r.Render(tmpl, EscapeBindings(r, b))
	return HTML(res), res
}

// JoinSections renders sections in order as <section> blocks.
func JoinSections(res template.SectionsResult) string {
	var sb strings.Builder
	for _, name := range res.Order {
		sec := res.Sections[name]
		sb.WriteString(`<section class="` + html.EscapeString(name) + `">`)
		sb.WriteString(HTML(sec))
		sb.WriteString("</section>\n")
	}
	return sb.String()
}
