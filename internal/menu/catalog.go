package menu

import "errors"

// ErrNoCatalog is returned by lookups when no snapshot has been loaded yet.
var ErrNoCatalog = errors.New("menu catalog is not loaded")

// ErrUnknownDrink is returned when a drink name is absent from the snapshot.
var ErrUnknownDrink = errors.New("unknown drink")

// DrinkAttributes describes per-drink constraints decided once at load time.
type DrinkAttributes struct {
	Category       string
	MilkCompatible bool
	Volumes        []string
}

// Drink is a single menu position.
type Drink struct {
	Name       string
	Attributes DrinkAttributes
}

// Catalog is an immutable snapshot of the menu. A refresh builds a new
// Catalog and swaps it in whole, so in-flight sessions never observe a
// half-updated menu.
type Catalog struct {
	drinks     []Drink
	byName     map[string]int
	categories []string
	milks      []string
	syrups     []string
}

// NewCatalog builds a snapshot from loaded rows. Category order follows the
// first appearance of each category among drinks.
func NewCatalog(drinks []Drink, milks, syrups []string) *Catalog {
	c := &Catalog{
		drinks: drinks,
		byName: make(map[string]int, len(drinks)),
		milks:  milks,
		syrups: syrups,
	}
	seen := make(map[string]bool)
	for i, d := range drinks {
		c.byName[d.Name] = i
		if !seen[d.Attributes.Category] {
			seen[d.Attributes.Category] = true
			c.categories = append(c.categories, d.Attributes.Category)
		}
	}
	return c
}

// DrinkTypes returns category names in first-seen order.
func (c *Catalog) DrinkTypes() []string {
	return append([]string{}, c.categories...)
}

// DrinksByType returns drink names of one category, in menu order.
func (c *Catalog) DrinksByType(category string) []string {
	var out []string
	for _, d := range c.drinks {
		if d.Attributes.Category == category {
			out = append(out, d.Name)
		}
	}
	return out
}

// DrinkAttributes returns the attributes of a drink by its exact name.
func (c *Catalog) DrinkAttributes(name string) (DrinkAttributes, error) {
	i, ok := c.byName[name]
	if !ok {
		return DrinkAttributes{}, ErrUnknownDrink
	}
	return c.drinks[i].Attributes, nil
}

func (c *Catalog) MilkOptions() []string  { return append([]string{}, c.milks...) }
func (c *Catalog) SyrupOptions() []string { return append([]string{}, c.syrups...) }
