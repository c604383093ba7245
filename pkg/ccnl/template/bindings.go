package template

import (
	"maps"
	"sort"
)

// Bindings maps placeholder keys to values.
//
// A nil Bindings is valid and binds nothing.
type Bindings map[string]any

// Set binds key to value and returns b for chaining.
// Set on a nil Bindings allocates a new map.
func (b Bindings) Set(key string, value any) Bindings {
	if b == nil {
		b = make(Bindings)
	}
	b[key] = value
	return b
}

// Merge returns a new Bindings with the entries of b overlaid by other.
// Neither input is modified.
func (b Bindings) Merge(other Bindings) Bindings {
	out := make(Bindings, len(b)+len(other))
	maps.Copy(out, b)
	maps.Copy(out, other)
	return out
}

// Keys returns the bound keys sorted alphabetically.
func (b Bindings) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromRecord builds Bindings from a decoded record, flattening nested
// map[string]any values into dotted keys.
//
// Example:
//
//	b := FromRecord(map[string]any{
//	    "name":    "Mario",
//	    "company": map[string]any{"name": "ACME", "vat": "IT01234567890"},
//	})
//	// b: {"name": "Mario", "company.name": "ACME", "company.vat": "IT01234567890"}
func FromRecord(record map[string]any) Bindings {
	out := make(Bindings, len(record))
	flatten(out, "", record)
	return out
}

func flatten(out Bindings, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(out, key, nested)
			continue
		}
		out[key] = v
	}
}

// FromStrings builds Bindings from string values, such as saved form input.
func FromStrings(m map[string]string) Bindings {
	out := make(Bindings, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Stringify returns the text r substitutes for each bound value. Nil and
// unsupported values are left out; empty strings are kept.
func (r *Renderer) Stringify(b Bindings) map[string]string {
	out := make(map[string]string, len(b))
	for k, v := range b {
		text, st := r.format(v)
		if st == resolved || st == blank {
			out[k] = text
		}
	}
	return out
}
