// Package catalog loads document templates and cost profiles from YAML files.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/cost"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/registry"
	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

// Sentinel errors for catalog loading.
var (
	// ErrInvalidTemplate indicates a template definition is structurally invalid.
	ErrInvalidTemplate = errors.New("invalid template definition")

	// ErrInvalidProfile indicates a profile definition is structurally invalid.
	ErrInvalidProfile = errors.New("invalid profile definition")
)

// Field describes a value a template expects from the caller.
type Field struct {
	Key      string `yaml:"key" json:"key"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// DocumentTemplate is an admin-authored document made of named sections.
type DocumentTemplate struct {
	ID          string            `yaml:"id" json:"id"`
	Title       string            `yaml:"title" json:"title"`
	Contract    string            `yaml:"contract,omitempty" json:"contract,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Body        string            `yaml:"body,omitempty" json:"body,omitempty"`
	Sections    map[string]string `yaml:"sections,omitempty" json:"sections,omitempty"`
	Order       []string          `yaml:"order,omitempty" json:"order,omitempty"`
	Fields      []Field           `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// AllSections returns the sections to render. A template with only a Body
// has a single "body" section.
func (d DocumentTemplate) AllSections() map[string]string {
	if len(d.Sections) == 0 {
		return map[string]string{"body": d.Body}
	}
	out := make(map[string]string, len(d.Sections)+1)
	for k, v := range d.Sections {
		out[k] = v
	}
	if d.Body != "" {
		if _, ok := out["body"]; !ok {
			out["body"] = d.Body
		}
	}
	return out
}

// SectionOrder returns section names in display order: the names listed in
// Order that exist, then any remaining sections sorted by name.
func (d DocumentTemplate) SectionOrder() []string {
	all := d.AllSections()
	order := make([]string, 0, len(all))
	listed := make(map[string]bool, len(d.Order))
	for _, name := range d.Order {
		if _, ok := all[name]; ok && !listed[name] {
			listed[name] = true
			order = append(order, name)
		}
	}
	var rest []string
	for name := range all {
		if !listed[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// Placeholders returns the distinct keys used across all sections, sorted.
func (d DocumentTemplate) Placeholders() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, body := range d.AllSections() {
		for _, k := range template.ExtractPlaceholders(body) {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// RequiredKeys returns the keys of required fields in declaration order.
func (d DocumentTemplate) RequiredKeys() []string {
	var keys []string
	for _, f := range d.Fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

func (d DocumentTemplate) validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTemplate)
	}
	if d.Body == "" && len(d.Sections) == 0 {
		return fmt.Errorf("%w: %s: body or sections required", ErrInvalidTemplate, d.ID)
	}
	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if f.Key == "" {
			return fmt.Errorf("%w: %s: fields[%d]: key is required", ErrInvalidTemplate, d.ID, i)
		}
		if seen[f.Key] {
			return fmt.Errorf("%w: %s: field %q declared twice", ErrInvalidTemplate, d.ID, f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}

// document is the on-disk YAML layout.
type document struct {
	Templates []DocumentTemplate `yaml:"templates"`
	Profiles  []cost.Profile     `yaml:"profiles"`
}

// Catalog holds loaded templates and profiles.
// Catalog is safe for concurrent use.
type Catalog struct {
	templates *registry.Registry[string, DocumentTemplate]
	profiles  *registry.Registry[string, cost.Profile]
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		templates: registry.New[string, DocumentTemplate](),
		profiles:  registry.New[string, cost.Profile](),
	}
}

// AddTemplate validates and adds a template. IDs must be unique.
func (c *Catalog) AddTemplate(d DocumentTemplate) error {
	if err := d.validate(); err != nil {
		return err
	}
	if err := c.templates.Add(d.ID, d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	return nil
}

// AddProfile validates and adds a cost profile. Codes must be unique.
func (c *Catalog) AddProfile(p cost.Profile) error {
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidProfile)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	if err := c.profiles.Add(p.Code, p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return nil
}

// Template returns the template with the given ID.
func (c *Catalog) Template(id string) (DocumentTemplate, bool) {
	return c.templates.Get(id)
}

// Profile returns the cost profile with the given code.
func (c *Catalog) Profile(code string) (cost.Profile, bool) {
	return c.profiles.Get(code)
}

// TemplateIDs returns all template IDs sorted.
func (c *Catalog) TemplateIDs() []string {
	return c.templates.Keys()
}

// ProfileCodes returns all profile codes sorted.
func (c *Catalog) ProfileCodes() []string {
	return c.profiles.Keys()
}

// Templates returns all templates ordered by ID.
func (c *Catalog) Templates() []DocumentTemplate {
	return c.templates.Values()
}

// Load parses YAML data into c.
func (c *Catalog) Load(data []byte) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	for _, d := range doc.Templates {
		if err := c.AddTemplate(d); err != nil {
			return err
		}
	}
	for _, p := range doc.Profiles {
		if err := c.AddProfile(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile parses a single YAML file into c.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	if err := c.Load(data); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadDir loads every .yaml and .yml file in dir, in name order.
// Subdirectories are not traversed.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read catalog dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			if err := c.LoadFile(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadPath loads a file or a directory.
func LoadPath(path string) (*Catalog, error) {
	c := New()
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	if info.IsDir() {
		err = c.LoadDir(path)
	} else {
		err = c.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
