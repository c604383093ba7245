package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches {{key}} with optional inner whitespace.
// RE2 guarantees a linear scan regardless of input.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// ReplaceTokens calls fn for every placeholder token in s and writes its
// return value in place of the token. fn receives the key and the literal
// token text. It uses the same matching rule as Extract and Render.
func ReplaceTokens(s string, fn func(key, token string) string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(token string) string {
		m := placeholderPattern.FindStringSubmatch(token)
		return fn(m[1], token)
	})
}

// RenderResult is the outcome of rendering one template.
type RenderResult struct {
	// Output is the template with every resolved placeholder substituted.
	Output string

	// MissingKeys lists keys that were referenced but not resolved,
	// deduplicated, in first-occurrence order.
	MissingKeys []string

	// UnsupportedKeys lists the subset of MissingKeys whose bound value had
	// a kind the renderer refuses to stringify.
	UnsupportedKeys []string
}

// Complete reports whether every placeholder was resolved.
func (r RenderResult) Complete() bool {
	return len(r.MissingKeys) == 0
}

// Err returns a *MissingKeysError when the result is incomplete, nil otherwise.
func (r RenderResult) Err() error {
	if r.Complete() {
		return nil
	}
	return &MissingKeysError{Keys: append([]string(nil), r.MissingKeys...)}
}

// Renderer substitutes bindings into templates.
//
// Create with NewRenderer() and configure with Option functions.
// Renderer is safe for concurrent use after construction.
type Renderer struct {
	missingAction  MissingAction
	blankAsMissing bool
	dateLayout     string
	floatPrecision int
}

// NewRenderer creates a new Renderer with the given options.
//
// Default configuration:
//   - MissingAction: MissingKeep (leave {{key}} in the output)
//   - BlankAsMissing: true (an empty string counts as missing)
//   - DateLayout: DefaultDateLayout
//   - FloatPrecision: -1 (shortest exact representation)
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		missingAction:  MissingKeep,
		blankAsMissing: true,
		dateLayout:     DefaultDateLayout,
		floatPrecision: -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extract returns the distinct placeholder keys in tmpl, in order of first
// occurrence. It uses the same matching rule as Render.
func (r *Renderer) Extract(tmpl string) []string {
	keys := []string{}
	if tmpl == "" {
		return keys
	}
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		key := m[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Render substitutes bindings into tmpl.
//
// Every occurrence is handled on its own, so a key may be used any number of
// times. Occurrences whose binding is absent, nil, blank or of an unsupported
// kind are handled per the MissingAction and their keys reported once.
//
// Substituted values are not scanned again. A value that itself contains a
// {{key}} token is written verbatim, so rendering a complete output a second
// time is a no-op only when no bound value contains a token.
func (r *Renderer) Render(tmpl string, bindings Bindings) RenderResult {
	res := RenderResult{
		MissingKeys:     []string{},
		UnsupportedKeys: []string{},
	}

	matches := placeholderPattern.FindAllStringSubmatchIndex(tmpl, -1)
	if len(matches) == 0 {
		res.Output = tmpl
		return res
	}

	var (
		sb          strings.Builder
		last        int
		missing     = make(map[string]struct{})
		unsupported = make(map[string]struct{})
	)
	sb.Grow(len(tmpl))

	for _, m := range matches {
		start, end := m[0], m[1]
		key := tmpl[m[2]:m[3]]
		sb.WriteString(tmpl[last:start])
		last = end

		text, st := r.format(bindings[key])
		if st == resolved || (st == blank && !r.blankAsMissing) {
			sb.WriteString(text)
			continue
		}

		if r.missingAction == MissingKeep {
			sb.WriteString(tmpl[start:end])
		}
		if _, ok := missing[key]; !ok {
			missing[key] = struct{}{}
			res.MissingKeys = append(res.MissingKeys, key)
		}
		if st == unsupportedKind {
			if _, ok := unsupported[key]; !ok {
				unsupported[key] = struct{}{}
				res.UnsupportedKeys = append(res.UnsupportedKeys, key)
			}
		}
	}
	sb.WriteString(tmpl[last:])

	res.Output = sb.String()
	return res
}

// SectionsResult is the outcome of rendering a multi-section document.
type SectionsResult struct {
	// Sections maps each section name to its rendered result.
	Sections map[string]RenderResult

	// Order lists section names sorted alphabetically.
	Order []string

	// MissingKeys aggregates missing keys across sections, deduplicated,
	// walking sections in Order.
	MissingKeys []string
}

// Complete reports whether every section was fully resolved.
func (s SectionsResult) Complete() bool {
	return len(s.MissingKeys) == 0
}

// RenderSections renders each named section with the same bindings.
//
// Example:
//
//	res := r.RenderSections(map[string]string{
//	    "header": "Spett.le {{company}}",
//	    "body":   "Oggetto: assunzione di {{name}}",
//	}, bindings)
func (r *Renderer) RenderSections(sections map[string]string, bindings Bindings) SectionsResult {
	out := SectionsResult{
		Sections:    make(map[string]RenderResult, len(sections)),
		Order:       make([]string, 0, len(sections)),
		MissingKeys: []string{},
	}
	for name := range sections {
		out.Order = append(out.Order, name)
	}
	sort.Strings(out.Order)

	seen := make(map[string]struct{})
	for _, name := range out.Order {
		res := r.Render(sections[name], bindings)
		out.Sections[name] = res
		for _, key := range res.MissingKeys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out.MissingKeys = append(out.MissingKeys, key)
		}
	}
	return out
}

// MissingKeysError reports placeholders that could not be resolved.
type MissingKeysError struct {
	// Keys is the list of unresolved placeholder keys.
	Keys []string
}

// Error implements the error interface.
func (e *MissingKeysError) Error() string {
	if len(e.Keys) == 1 {
		return fmt.Sprintf("missing value for placeholder: %s", e.Keys[0])
	}
	return fmt.Sprintf("missing values for placeholders: %s", strings.Join(e.Keys, ", "))
}

// defaultRenderer is the package-level renderer with default settings.
var defaultRenderer = NewRenderer()

// ExtractPlaceholders returns the distinct keys referenced in tmpl using the
// default renderer.
//
// Example:
//
//	keys := template.ExtractPlaceholders("Hello {{name}} {{name}} - {{date}}")
//	// keys: ["name", "date"]
func ExtractPlaceholders(tmpl string) []string {
	return defaultRenderer.Extract(tmpl)
}

// RenderTemplate renders tmpl with the default renderer.
//
// Missing keys keep their {{key}} token and empty strings count as missing.
// Tokens inside bound values are left as they are; see Renderer.Render.
func RenderTemplate(tmpl string, bindings Bindings) RenderResult {
	return defaultRenderer.Render(tmpl, bindings)
}
