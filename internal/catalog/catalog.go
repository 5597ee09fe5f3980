// Package catalog loads the shop's known-materials list, used to prefill the
// price column on the entry page.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Material is one known scrap material with its default buying price.
type Material struct {
	Name    string   `yaml:"name" json:"name"`
	Price   float64  `yaml:"price" json:"price"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Catalog holds the configured materials. The zero value is an empty catalog.
type Catalog struct {
	Materials []Material `yaml:"materials" json:"materials"`
}

// Load reads the YAML catalog file. An empty path yields an empty catalog;
// the feature is optional.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return &c, nil
}

// Lookup finds a material by name or alias, case-insensitive.
func (c *Catalog) Lookup(name string) (Material, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Material{}, false
	}
	for _, m := range c.Materials {
		if strings.ToLower(m.Name) == name {
			return m, true
		}
		for _, a := range m.Aliases {
			if strings.ToLower(a) == name {
				return m, true
			}
		}
	}
	return Material{}, false
}
