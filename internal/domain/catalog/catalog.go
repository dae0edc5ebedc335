package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog is the read-only registry of trackable entities. It is built once
// at startup and never mutated afterwards.
type Catalog struct {
	entities []Entity
	byKey    map[string]Entity // normalized canonical names and aliases
	keys     []string          // all normalized keys, longest first
}

// New builds a catalog and validates it: every canonical name and alias must
// be unique (after normalization) and every period must be positive.
func New(entities []Entity) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]Entity)}
	owners := make(map[string]string) // normalized key -> canonical name that claimed it

	for _, e := range entities {
		if Normalize(e.Name) == "" {
			return nil, fmt.Errorf("entity with empty name")
		}
		if e.PeriodMinutes <= 0 {
			return nil, fmt.Errorf("entity %q has non-positive period %d", e.Name, e.PeriodMinutes)
		}

		key := Normalize(e.Name)
		if owner, dup := owners[key]; dup {
			return nil, fmt.Errorf("duplicate entity name %q (already claimed by %q)", e.Name, owner)
		}
		owners[key] = e.Name
		c.byKey[key] = e

		for _, a := range e.Aliases {
			ak := Normalize(a)
			if ak == "" {
				return nil, fmt.Errorf("entity %q has an empty alias", e.Name)
			}
			if owner, dup := owners[ak]; dup {
				return nil, fmt.Errorf("alias %q of %q already claimed by %q", a, e.Name, owner)
			}
			owners[ak] = e.Name
			c.byKey[ak] = e
		}

		c.entities = append(c.entities, e)
	}

	for key := range c.byKey {
		c.keys = append(c.keys, key)
	}
	sort.Slice(c.keys, func(i, j int) bool {
		if len(c.keys[i]) != len(c.keys[j]) {
			return len(c.keys[i]) > len(c.keys[j])
		}
		return c.keys[i] < c.keys[j]
	})

	return c, nil
}

// Keys returns every normalized canonical name and alias, longest first, so
// prefix matching can try the most specific candidate before shorter ones.
func (c *Catalog) Keys() []string {
	return c.keys
}

// LookupExact returns the entity whose canonical name matches exactly.
// Aliases do not count here; use Resolve for query-style matching.
func (c *Catalog) LookupExact(name string) (Entity, bool) {
	e, ok := c.byKey[Normalize(name)]
	if !ok || Normalize(e.Name) != Normalize(name) {
		return Entity{}, false
	}
	return e, true
}

// All returns the entities in insertion order, stable for listing.
func (c *Catalog) All() []Entity {
	out := make([]Entity, len(c.entities))
	copy(out, c.entities)
	return out
}

// LoadFile reads an entity list from a YAML file.
func LoadFile(path string) ([]Entity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var entities []Entity
	if err := yaml.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return entities, nil
}
