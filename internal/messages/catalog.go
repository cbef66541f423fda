// Package messages resolves display text from a YAML catalog of fmt formats.
package messages

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog maps message keys to format strings.
type Catalog struct {
	entries map[string]string
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	entries := make(map[string]string)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("messages: parse catalog: %w", err)
	}
	return &Catalog{entries: entries}, nil
}

// LoadFile reads a catalog file and layers it over the embedded one, so an
// override file only needs the keys it changes.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("messages: read %s: %w", path, err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, err
	}
	base := Default()
	for k, v := range override.entries {
		base.entries[k] = v
	}
	return base, nil
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		return &Catalog{entries: map[string]string{}}
	}
	return c
}

// Resolve formats the message for key. Unknown keys resolve to the key
// itself so a missing entry is visible rather than blank.
func (c *Catalog) Resolve(key string, params ...any) string {
	format, ok := c.entries[key]
	if !ok {
		return key
	}
	if len(params) == 0 {
		return format
	}
	return fmt.Sprintf(format, params...)
}

// Has reports whether key is in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}
