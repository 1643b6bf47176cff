// Package catalog provides the message template catalog: the compliment and
// nudge texts the engines render, keyed by trigger.
//
// A default catalog is compiled into the binary. Operators can replace it
// with their own JSON or YAML file of the same shape.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tutu-network/kudos/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed templates.json
var defaultTemplates []byte

// Catalog is an immutable list of template entries.
type Catalog struct {
	source  string
	entries []domain.TemplateEntry
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := parse("builtin", defaultTemplates, json.Unmarshal)
	if err != nil {
		panic(fmt.Sprintf("catalog: builtin templates: %v", err))
	}
	return c
}

// Load reads a catalog from a .json, .yaml or .yml file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", domain.ErrConfigMissing, err)}
	}

	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		unmarshal = json.Unmarshal
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		return nil, &domain.ConfigError{Path: path,
			Err: fmt.Errorf("%w: unsupported template file extension %q", domain.ErrConfigMalformed, filepath.Ext(path))}
	}
	return parse(path, data, unmarshal)
}

func parse(source string, data []byte, unmarshal func([]byte, any) error) (*Catalog, error) {
	var entries []domain.TemplateEntry
	if err := unmarshal(data, &entries); err != nil {
		return nil, &domain.ConfigError{Path: source, Err: fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)}
	}
	if len(entries) == 0 {
		return nil, &domain.ConfigError{Path: source, Err: domain.ErrTemplatesEmpty}
	}
	for i, e := range entries {
		if e.Trigger == "" {
			return nil, &domain.ConfigError{Path: source,
				Err: fmt.Errorf("%w: entry %d has no trigger", domain.ErrConfigMalformed, i)}
		}
		switch e.Kind {
		case "", domain.KindCompliment, domain.KindNudge:
		default:
			return nil, &domain.ConfigError{Path: source,
				Err: fmt.Errorf("%w: entry %d has unknown kind %q", domain.ErrConfigMalformed, i, e.Kind)}
		}
	}
	return &Catalog{source: source, entries: entries}, nil
}

// Lookup finds the first entry for trigger whose kind is kind or unset.
func (c *Catalog) Lookup(kind domain.TemplateKind, trigger string) (domain.TemplateEntry, bool) {
	for _, e := range c.entries {
		if e.Trigger != trigger {
			continue
		}
		if e.Kind == "" || kind == "" || e.Kind == kind {
			return e, true
		}
	}
	return domain.TemplateEntry{}, false
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Source returns the file the catalog was read from, or "builtin".
func (c *Catalog) Source() string { return c.source }
