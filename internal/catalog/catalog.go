package catalog

import (
	"fmt"
	"strings"
)

// Catalog is an immutable set of service definitions keyed by Key.
type Catalog struct {
	byKey map[string]ServiceDefinition
	order []string
}

func New(defs []ServiceDefinition) (*Catalog, error) {
	c := &Catalog{
		byKey: make(map[string]ServiceDefinition, len(defs)),
		order: make([]string, 0, len(defs)),
	}
	for _, def := range defs {
		def.Key = strings.TrimSpace(def.Key)
		def.Name = strings.TrimSpace(def.Name)
		if def.Key == "" || def.Name == "" {
			return nil, fmt.Errorf("%w: key and name are required", ErrInvalidService)
		}
		if def.NetPrice.IsNegative() {
			return nil, fmt.Errorf("%w: %s has a negative price", ErrInvalidService, def.Key)
		}
		if _, exists := c.byKey[def.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, def.Key)
		}
		c.byKey[def.Key] = def
		c.order = append(c.order, def.Key)
	}
	return c, nil
}

// Lookup returns the definition for key or ErrUnknownService.
func (c *Catalog) Lookup(key string) (ServiceDefinition, error) {
	def, ok := c.byKey[strings.TrimSpace(key)]
	if !ok {
		return ServiceDefinition{}, fmt.Errorf("%w: %q", ErrUnknownService, key)
	}
	return def, nil
}

// Services lists the definitions in configured order.
func (c *Catalog) Services() []ServiceDefinition {
	out := make([]ServiceDefinition, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.byKey[key])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}
