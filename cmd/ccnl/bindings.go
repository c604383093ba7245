package main

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/config"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

// parseBindings builds bindings from an optional YAML/JSON values file and
// key=value pairs. Pairs override values from the file.
func parseBindings(valuesFile string, pairs []string) (template.Bindings, error) {
	b := template.Bindings{}
	if valuesFile != "" {
		cfg, err := config.FromFile(valuesFile)
		if err != nil {
			return nil, fmt.Errorf("values file: %w", err)
		}
		b = template.FromRecord(cfg.Raw())
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", pair)
		}
		b[key] = value
	}
	return b, nil
}
