package models

import (
	"fmt"
	"sort"
)

// Catalog is an immutable registry of unit types. Build it once with
// NewCatalog and share it read-only across the engine, graph builder and
// schedulers.
type Catalog struct {
	types map[string]UnitType
	names []string
	roles Roles
}

// NewCatalog validates the type set and freezes it into a registry.
func NewCatalog(types []UnitType, roles Roles) (*Catalog, error) {
	c := &Catalog{
		types: make(map[string]UnitType, len(types)),
		roles: roles,
	}
	for _, t := range types {
		if t.Name == "" {
			return nil, fmt.Errorf("unit type with empty name")
		}
		if _, ok := c.types[t.Name]; ok {
			return nil, fmt.Errorf("duplicate unit type %q", t.Name)
		}
		if t.BuildDuration <= 0 {
			return nil, fmt.Errorf("unit type %q: build duration must be positive", t.Name)
		}
		c.types[t.Name] = t
		c.names = append(c.names, t.Name)
	}
	sort.Strings(c.names)

	for _, name := range c.names {
		t := c.types[name]
		if t.ProducedBy != "" {
			if _, ok := c.types[t.ProducedBy]; !ok {
				return nil, fmt.Errorf("unit type %q: unknown producer %q", name, t.ProducedBy)
			}
		}
		for _, req := range t.Requires {
			if _, ok := c.types[req]; !ok {
				return nil, fmt.Errorf("unit type %q: unknown requirement %q", name, req)
			}
		}
	}

	for roleName, typeName := range map[string]string{
		"worker":           roles.Worker,
		"base":             roles.Base,
		"supply structure": roles.SupplyStructure,
		"gas structure":    roles.GasStructure,
	} {
		if typeName == "" {
			continue
		}
		if _, ok := c.types[typeName]; !ok {
			return nil, fmt.Errorf("%s role names unknown type %q", roleName, typeName)
		}
	}

	return c, nil
}

// Get returns the definition for name.
func (c *Catalog) Get(name string) (UnitType, bool) {
	t, ok := c.types[name]
	return t, ok
}

// MustGet is Get for names already validated against the catalog.
func (c *Catalog) MustGet(name string) UnitType {
	t, ok := c.types[name]
	if !ok {
		panic(fmt.Sprintf("BUG: unknown unit type %q", name))
	}
	return t
}

// Names returns all type names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Roles returns the economy role bindings.
func (c *Catalog) Roles() Roles {
	return c.roles
}

// IsFiller reports whether name is a filler type: one that schedulers may
// inject on their own (workers and supply structures).
func (c *Catalog) IsFiller(name string) bool {
	return name != "" && (name == c.roles.Worker || name == c.roles.SupplyStructure)
}
