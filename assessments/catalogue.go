package assessments

import "sort"

// Catalogue maps assessment kinds to their configurations. Connections
// requesting a kind that is not registered are rejected at accept time.
type Catalogue struct {
	configs map[string]*Config
}

// NewCatalogue builds the registry of all supported assessment kinds.
func NewCatalogue() *Catalogue {
	c := &Catalogue{configs: make(map[string]*Config)}
	c.register(dtlConfig())
	c.register(fruitionConfig())
	c.register(fruitionChecklistConfig())
	return c
}

func (c *Catalogue) register(cfg *Config) {
	c.configs[cfg.Kind] = cfg
}

// Lookup returns the configuration for a kind.
func (c *Catalogue) Lookup(kind string) (*Config, bool) {
	cfg, ok := c.configs[kind]
	return cfg, ok
}

// Kinds lists the registered assessment kinds in sorted order.
func (c *Catalogue) Kinds() []string {
	kinds := make([]string, 0, len(c.configs))
	for k := range c.configs {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
