// Package category holds the static category catalog used to classify
// transactions.
package category

import (
	"fmt"
	"os"
	"strings"

	"github.com/pocketledger/pocketledger/internal/model"
)

// Category is one catalog entry.
type Category struct {
	ID   string
	Name string
	Type model.TransactionType
}

// Catalog provides read-only lookup over an ordered category list.
type Catalog struct {
	categories []Category
	byID       map[string]Category
}

// NewCatalog creates a Catalog from a slice of categories.
func NewCatalog(categories []Category) *Catalog {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &Catalog{categories: categories, byID: byID}
}

// Default returns a Catalog over DefaultCategories.
func Default() *Catalog {
	return NewCatalog(DefaultCategories())
}

// Load reads a category CSV file. An empty path yields the default catalog.
// The file must define the OtherIncome and OtherExpense fallbacks.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening categories: %w", err)
	}
	defer f.Close()

	cats, err := ReadCategories(f)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	c := NewCatalog(cats)
	for _, id := range []string{OtherIncome, OtherExpense} {
		if !c.Exists(id) {
			return nil, fmt.Errorf("categories %s: missing required category %q", path, id)
		}
	}
	return c, nil
}

// All returns every category in catalog order.
func (c *Catalog) All() []Category {
	return c.categories
}

// Get returns a category by id.
func (c *Catalog) Get(id string) (Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Exists reports whether a category id exists.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// ByType returns all categories of the given transaction type.
func (c *Catalog) ByType(typ model.TransactionType) []Category {
	var result []Category
	for _, cat := range c.categories {
		if cat.Type == typ {
			result = append(result, cat)
		}
	}
	return result
}

// Fallback returns the catch-all category id for typ.
func (c *Catalog) Fallback(typ model.TransactionType) string {
	if typ == model.TransactionIncome {
		return OtherIncome
	}
	return OtherExpense
}

// Match resolves free text to a category id. Exact id or name matches win
// (case-insensitive), then substring containment in either direction, in
// catalog order. Unmatched or blank text yields Fallback(typ).
func (c *Catalog) Match(text string, typ model.TransactionType) string {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return c.Fallback(typ)
	}
	for _, cat := range c.categories {
		if strings.ToLower(cat.ID) == needle || strings.ToLower(cat.Name) == needle {
			return cat.ID
		}
	}
	for _, cat := range c.categories {
		name := strings.ToLower(cat.Name)
		id := strings.ToLower(cat.ID)
		if strings.Contains(name, needle) || strings.Contains(needle, name) ||
			strings.Contains(id, needle) || strings.Contains(needle, id) {
			return cat.ID
		}
	}
	return c.Fallback(typ)
}
