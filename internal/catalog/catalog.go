package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Product is serialized with a fixed field order: id, name, category, price.
type Product struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Price    float64 `json:"price" yaml:"price"`
}

// Catalog is the ordered product list. It is frozen by New; nothing in the
// package mutates it afterwards, so it is safe for concurrent readers.
type Catalog struct {
	products []Product
}

func New(products []Product) (*Catalog, error) {
	seen := make(map[int64]struct{}, len(products))

	for i, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: record %d: id must be positive, got %d", ErrInvalidCatalog, i, p.ID)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: record %d (id %d): empty name", ErrInvalidCatalog, i, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate id %d", ErrInvalidCatalog, i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return &Catalog{products: slices.Clone(products)}, nil
}

// All returns every product in stored order. The slice is a copy.
func (c *Catalog) All() []Product {
	out := slices.Clone(c.products)
	if out == nil {
		out = []Product{}
	}
	return out
}

func (c *Catalog) Len() int { return len(c.products) }
