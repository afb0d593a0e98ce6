// Package catalog holds the product reference data the cart and favorites
// point at. Products are immutable once loaded.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("product not found")

//go:embed products.yaml
var defaultCatalog []byte

func init() {
	// Stored carts written by the web storefront carry prices as numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog item. The JSON form is what gets persisted inside
// cart and favorites entries.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image"`
	Category       string          `json:"category"`
	AvailableSizes []string        `json:"availableSizes"`
}

// HasSize reports whether size is one of the product's sizes.
// Products without a size list accept any size.
func (p Product) HasSize(size string) bool {
	if len(p.AvailableSizes) == 0 {
		return true
	}
	for _, s := range p.AvailableSizes {
		if s == size {
			return true
		}
	}
	return false
}

type productYAML struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Price    string   `yaml:"price"`
	Image    string   `yaml:"image"`
	Category string   `yaml:"category"`
	Sizes    []string `yaml:"sizes"`
}

type catalogYAML struct {
	Products []productYAML `yaml:"products"`
}

// Catalog is an ordered, id-indexed product list.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a YAML catalog from path. An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Prices are parsed as exact decimals.
func Parse(data []byte) (*Catalog, error) {
	var raw catalogYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(raw.Products))}
	for _, p := range raw.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog product %q has no id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", p.ID)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s price %q: %w", p.ID, p.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %s has negative price", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, Product{
			ID:             p.ID,
			Name:           p.Name,
			Price:          price,
			Image:          p.Image,
			Category:       p.Category,
			AvailableSizes: p.Sizes,
		})
	}
	return c, nil
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.products[i], nil
}
