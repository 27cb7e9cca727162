// Package catalog holds the static decoration and town tables.
//
// The catalog is read-only once built. Its decoration order is significant:
// the optimizer uses it as the tie-break order when ranking candidates and
// results are listed in it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryValhalla is the only category with gating semantics.
const CategoryValhalla = "Valhalla"

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Hearts is an amount of each of the three resource channels.
type Hearts struct {
	Green int `yaml:"green" json:"green"`
	Blue  int `yaml:"blue" json:"blue"`
	Red   int `yaml:"red" json:"red"`
}

// Add returns the channel-wise sum of h and o.
func (h Hearts) Add(o Hearts) Hearts {
	return Hearts{Green: h.Green + o.Green, Blue: h.Blue + o.Blue, Red: h.Red + o.Red}
}

// Within reports whether every channel is at most limit.
func (h Hearts) Within(limit int) bool {
	return h.Green <= limit && h.Blue <= limit && h.Red <= limit
}

// Imbalance is the sum of the pairwise absolute channel differences.
// Zero means all three channels are equal.
func (h Hearts) Imbalance() int {
	return abs(h.Green-h.Blue) + abs(h.Green-h.Red) + abs(h.Blue-h.Red)
}

// IsZero reports whether all channels are zero.
func (h Hearts) IsZero() bool {
	return h == Hearts{}
}

// Decoration is one decoration type.
type Decoration struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Hearts   `yaml:",inline"`
}

// IsValhalla reports whether the decoration is in the gated category.
func (d Decoration) IsValhalla() bool {
	return d.Category == CategoryValhalla
}

// Town is a known town identifier with its display name.
type Town struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Catalog is an immutable, ordered decoration table plus the town table.
type Catalog struct {
	decorations []Decoration
	byName      map[string]int
	towns       []Town
	townNames   map[string]string
}

type catalogFile struct {
	Decorations []Decoration `yaml:"decorations"`
	Towns       []Town       `yaml:"towns"`
}

// New builds a catalog, validating that names are unique and non-empty and
// that weights are non-negative.
func New(decorations []Decoration, towns []Town) (*Catalog, error) {
	c := &Catalog{
		decorations: make([]Decoration, 0, len(decorations)),
		byName:      make(map[string]int, len(decorations)),
		towns:       make([]Town, 0, len(towns)),
		townNames:   make(map[string]string, len(towns)),
	}

	for i, d := range decorations {
		if d.Name == "" {
			return nil, fmt.Errorf("decoration %d: name is required", i)
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("decoration %q: duplicate name", d.Name)
		}
		if d.Green < 0 || d.Blue < 0 || d.Red < 0 {
			return nil, fmt.Errorf("decoration %q: weights cannot be negative", d.Name)
		}
		c.byName[d.Name] = len(c.decorations)
		c.decorations = append(c.decorations, d)
	}

	for i, t := range towns {
		if t.ID == "" {
			return nil, fmt.Errorf("town %d: id is required", i)
		}
		if _, dup := c.townNames[t.ID]; dup {
			return nil, fmt.Errorf("town %q: duplicate id", t.ID)
		}
		c.townNames[t.ID] = t.Name
		c.towns = append(c.towns, t)
	}

	return c, nil
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Decorations) == 0 {
		return nil, errors.New("catalog has no decorations")
	}
	return New(f.Decorations, f.Towns)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadOrDefault loads path when set, otherwise returns the built-in catalog.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// All returns the decorations in catalog order.
func (c *Catalog) All() []Decoration {
	out := make([]Decoration, len(c.decorations))
	copy(out, c.decorations)
	return out
}

// Len returns the number of decorations.
func (c *Catalog) Len() int {
	return len(c.decorations)
}

// Lookup finds a decoration by exact name.
func (c *Catalog) Lookup(name string) (Decoration, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Decoration{}, false
	}
	return c.decorations[i], true
}

// Names returns decoration names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.decorations))
	for i, d := range c.decorations {
		names[i] = d.Name
	}
	return names
}

// Towns returns the known towns in display order.
func (c *Catalog) Towns() []Town {
	out := make([]Town, len(c.towns))
	copy(out, c.towns)
	return out
}

// TownName returns the display name for a town id, or the id itself when the
// town is unknown.
func (c *Catalog) TownName(id string) string {
	if name, ok := c.townNames[id]; ok && name != "" {
		return name
	}
	return id
}

// IsKnownTown reports whether id appears in the town table.
func (c *Catalog) IsKnownTown(id string) bool {
	_, ok := c.townNames[id]
	return ok
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
