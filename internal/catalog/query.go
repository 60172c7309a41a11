package catalog

import "strings"

// FindByID returns the product with the given id. A miss is reported through
// the bool, not an error.
func (c *Catalog) FindByID(id int64) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FilterByCategory returns the products whose category equals category after
// lower-casing both sides, in catalog order. The result is never nil.
func (c *Catalog) FilterByCategory(category string) []Product {
	want := strings.ToLower(category)

	out := make([]Product, 0)
	for _, p := range c.products {
		if strings.ToLower(p.Category) == want {
			out = append(out, p)
		}
	}
	return out
}
