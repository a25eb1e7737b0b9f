// Package scenario holds the role-play scenarios a learner can practice in.
package scenario

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultCatalog []byte

// Scenario is a single role-play setting
type Scenario struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Image       string `yaml:"image" json:"image"`

	Role      string            `yaml:"role" json:"-"`
	Setting   string            `yaml:"setting" json:"-"`
	Task      string            `yaml:"task,omitempty" json:"-"`
	Greetings map[string]string `yaml:"greetings" json:"-"`
}

// Catalog is an ordered, read-only set of scenarios
type Catalog struct {
	Languages map[string]string `yaml:"languages"`
	Scenarios []Scenario        `yaml:"scenarios"`

	index map[string]int
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse scenario catalog: %w", err)
	}

	c.index = make(map[string]int, len(c.Scenarios))
	for i, s := range c.Scenarios {
		if s.ID == "" {
			return nil, fmt.Errorf("scenario %d has no id", i)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		c.index[s.ID] = i
	}
	return &c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalog)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// List returns the scenarios in catalog order
func (c *Catalog) List() []Scenario {
	out := make([]Scenario, len(c.Scenarios))
	copy(out, c.Scenarios)
	return out
}

// Get looks a scenario up by id
func (c *Catalog) Get(id string) (Scenario, bool) {
	i, ok := c.index[id]
	if !ok {
		return Scenario{}, false
	}
	return c.Scenarios[i], true
}

// LanguageName returns the display name for a language code,
// e.g. "french" -> "French".
func (c *Catalog) LanguageName(code string) string {
	if name, ok := c.Languages[strings.ToLower(code)]; ok {
		return name
	}
	if code == "" {
		return ""
	}
	return strings.ToUpper(code[:1]) + code[1:]
}

// Greeting is the fixed first line for a scenario in a language
func (s Scenario) Greeting(language string) string {
	return s.Greetings[strings.ToLower(language)]
}
