package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Theme is a preset look for the public page
type Theme struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Background string `yaml:"background" json:"background"`
	Text       string `yaml:"text" json:"text"`
	Card       string `yaml:"card" json:"card"`
}

// LinkType is one entry of the fixed platform list a link can be tagged with
type LinkType struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon" json:"icon"`
}

// Catalog holds the theme presets and link types, in display order
type Catalog struct {
	Themes    []Theme    `yaml:"themes" json:"themes"`
	LinkTypes []LinkType `yaml:"link_types" json:"link_types"`

	themes    map[string]Theme
	linkTypes map[string]LinkType
}

// Default returns the catalog compiled into the binary
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and indexes a YAML catalog. The first theme is the fallback.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	if len(c.Themes) == 0 {
		return nil, fmt.Errorf("catalog has no themes")
	}
	if len(c.LinkTypes) == 0 {
		return nil, fmt.Errorf("catalog has no link types")
	}

	c.themes = make(map[string]Theme, len(c.Themes))
	for _, t := range c.Themes {
		if t.ID == "" {
			return nil, fmt.Errorf("theme without id")
		}
		if _, dup := c.themes[t.ID]; dup {
			return nil, fmt.Errorf("duplicate theme id %q", t.ID)
		}
		c.themes[t.ID] = t
	}

	c.linkTypes = make(map[string]LinkType, len(c.LinkTypes))
	for _, lt := range c.LinkTypes {
		if lt.ID == "" {
			return nil, fmt.Errorf("link type without id")
		}
		if _, dup := c.linkTypes[lt.ID]; dup {
			return nil, fmt.Errorf("duplicate link type id %q", lt.ID)
		}
		c.linkTypes[lt.ID] = lt
	}

	return &c, nil
}

func (c *Catalog) Theme(id string) (Theme, bool) {
	t, ok := c.themes[id]
	return t, ok
}

// ThemeOrDefault resolves id, falling back to the first theme
func (c *Catalog) ThemeOrDefault(id string) Theme {
	if t, ok := c.themes[id]; ok {
		return t
	}
	return c.Themes[0]
}

func (c *Catalog) LinkType(id string) (LinkType, bool) {
	lt, ok := c.linkTypes[id]
	return lt, ok
}
