/*
Package template fills document templates that use {{key}} placeholders.

# Overview

Templates are free text authored by administrators: contract letters,
onboarding checklists, cost summaries. Placeholders mark the points where a
record value is substituted:

	Gentile {{name}}, la sua assunzione presso {{company.name}} decorre dal {{start_date}}.

A key is one or more characters from [A-Za-z0-9_.-]. Whitespace inside the
braces is allowed ({{ name }}). Anything else, including unbalanced braces,
is ordinary text and passes through untouched.

# Basic Usage

List the keys a template needs:

	keys := template.ExtractPlaceholders("Hello {{name}} from {{company}}!")
	// keys: ["name", "company"]

Render with the values you have:

	res := template.RenderTemplate("Dear {{name}}, your code is {{code}}.",
	    template.Bindings{"name": "Marco"})
	// res.Output:      "Dear Marco, your code is {{code}}."
	// res.MissingKeys: ["code"]

Keys without a usable value keep their literal token in the output and are
listed once in MissingKeys, in first-occurrence order. Rendering never fails;
use RenderResult.Err when a document must be complete.

# Values

Supported kinds are strings, signed and unsigned integers, floats, booleans,
time.Time and fmt.Stringer, plus named types and pointers built on them.
Nil values and empty strings count as missing. Maps, slices, structs and
other composite values are never stringified: the placeholder stays and the
key is reported in both MissingKeys and UnsupportedKeys.

# Custom Renderer

	r := template.NewRenderer(
	    template.WithBlankAsMissing(false), // "" is a legitimate answer
	    template.WithDateLayout("2 January 2006"),
	)
	res := r.Render(body, bindings)

# Thread Safety

Renderer is safe for concurrent use after construction. Package-level
functions use a shared default renderer.
*/
package template
