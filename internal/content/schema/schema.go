// Package schema loads collection definitions from the site's config.yml and
// resolves path expressions against them.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/minicms-backend/internal/content"
)

// DefaultPolicy says how a field is filled when a new group element is created
// without a value for it.
type DefaultPolicy string

const (
	DefaultNone         DefaultPolicy = ""
	DefaultGenerateUUID DefaultPolicy = "uuid"
)

func (p *DefaultPolicy) UnmarshalYAML(n *yaml.Node) error {
	var raw string
	if err := n.Decode(&raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		*p = DefaultNone
	case "uuid", "generate_uuid":
		*p = DefaultGenerateUUID
	default:
		return fmt.Errorf("line %d: unknown default_value %q", n.Line, raw)
	}
	return nil
}

// FieldDef describes one field. A FieldDef with nested Fields is a repeatable
// group: its data is a sequence of mappings keyed by the nested field ids.
type FieldDef struct {
	ID           string        `yaml:"id" json:"id"`
	Label        string        `yaml:"label,omitempty" json:"label,omitempty"`
	Type         string        `yaml:"type,omitempty" json:"type,omitempty"`
	Editable     bool          `yaml:"editable" json:"editable"`
	DefaultValue DefaultPolicy `yaml:"default_value,omitempty" json:"default_value,omitempty"`
	Fields       []FieldDef    `yaml:"fields,omitempty" json:"fields,omitempty"`
}

func (f *FieldDef) IsGroup() bool { return len(f.Fields) > 0 }

// Field looks up a nested field by id.
func (f *FieldDef) Field(id string) (*FieldDef, bool) {
	return lookupField(f.Fields, id)
}

// EditableFields lists the nested fields a group element edit may overwrite.
func (f *FieldDef) EditableFields() []FieldDef {
	var out []FieldDef
	for _, nf := range f.Fields {
		if nf.Editable {
			out = append(out, nf)
		}
	}
	return out
}

type CollectionSchema struct {
	ID     string     `yaml:"id" json:"id"`
	Label  string     `yaml:"label,omitempty" json:"label,omitempty"`
	Fields []FieldDef `yaml:"fields" json:"fields"`
}

func (c *CollectionSchema) Field(id string) (*FieldDef, bool) {
	return lookupField(c.Fields, id)
}

// EditableScalarFields lists the top-level, non-group fields marked editable.
func (c *CollectionSchema) EditableScalarFields() []FieldDef {
	var out []FieldDef
	for _, f := range c.Fields {
		if f.Editable && !f.IsGroup() {
			out = append(out, f)
		}
	}
	return out
}

func lookupField(fields []FieldDef, id string) (*FieldDef, bool) {
	for i := range fields {
		if fields[i].ID == id {
			return &fields[i], true
		}
	}
	return nil, false
}

// SiteConfig is the parsed config.yml.
type SiteConfig struct {
	Collections []CollectionSchema `yaml:"collections" json:"collections"`
}

// LoadConfig parses and validates config.yml. Any problem wraps content.ErrMalformedDocument.
func LoadConfig(raw []byte) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: config: %v", content.ErrMalformedDocument, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: config: %v", content.ErrMalformedDocument, err)
	}
	return &cfg, nil
}

// Validate checks id uniqueness and that groups never nest inside groups.
func (c *SiteConfig) Validate() error {
	seen := map[string]bool{}
	for _, col := range c.Collections {
		if strings.TrimSpace(col.ID) == "" {
			return errors.New("collection without id")
		}
		if strings.Contains(col.ID, "/") {
			return fmt.Errorf("collection id %q contains '/'", col.ID)
		}
		if seen[col.ID] {
			return fmt.Errorf("duplicate collection %q", col.ID)
		}
		seen[col.ID] = true
		if err := validateFields(col.Fields, 0); err != nil {
			return fmt.Errorf("collection %q: %w", col.ID, err)
		}
	}
	return nil
}

func validateFields(fields []FieldDef, depth int) error {
	seen := map[string]bool{}
	for _, f := range fields {
		if strings.TrimSpace(f.ID) == "" {
			return errors.New("field without id")
		}
		if strings.Contains(f.ID, "/") {
			return fmt.Errorf("field id %q contains '/'", f.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate field %q", f.ID)
		}
		seen[f.ID] = true
		if len(f.Fields) == 0 {
			continue
		}
		if depth >= 1 {
			return fmt.Errorf("field %q: groups cannot nest inside groups", f.ID)
		}
		if err := validateFields(f.Fields, depth+1); err != nil {
			return fmt.Errorf("field %q: %w", f.ID, err)
		}
	}
	return nil
}
