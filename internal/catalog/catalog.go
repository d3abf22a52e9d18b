package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Product is a catalog record as provided by the storefront.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Price       float64  `json:"price" yaml:"price"`
	Rating      float64  `json:"rating" yaml:"rating"`
	UnitsSold   int      `json:"units_sold" yaml:"units_sold"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	InStock     bool     `json:"in_stock" yaml:"in_stock"`
}

// Digest is a bounded, read-only projection of a Product used to keep prompt
// sizes predictable. Descriptions are truncated before they ever reach a
// provider.
type Digest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Features    []string `json:"features,omitempty"`
}

const digestDescriptionLimit = 160

// Digest returns the prompt-sized projection of the product.
func (p Product) Digest() Digest {
	return Digest{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
		Description: TruncateRunes(p.Description, digestDescriptionLimit),
		Features:    p.Features,
	}
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Catalog is an in-memory view of the product catalog, rebuilt by the caller
// whenever the storefront data changes. It is never mutated by the gateway.
type Catalog struct {
	products []Product
}

// New creates a catalog over the given products.
func New(products []Product) *Catalog {
	return &Catalog{products: products}
}

// LoadFile reads products from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}
	var doc struct {
		Products []Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing catalog YAML: %w", err)
	}
	return New(doc.Products), nil
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []Product {
	return c.products
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Search performs a case-insensitive substring match over name, description
// and category, preserving catalog order.
func (c *Catalog) Search(query string) []Product {
	return Filter(c.products, query)
}

// Filter returns the products whose name, description or category contains
// query, case-insensitively, in input order. An empty query matches all.
func Filter(items []Product, query string) []Product {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	var results []Product
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			results = append(results, p)
		}
	}
	return results
}

// Digests returns at most limit product digests in catalog order.
func (c *Catalog) Digests(limit int) []Digest {
	n := len(c.products)
	if limit > 0 && n > limit {
		n = limit
	}
	digests := make([]Digest, 0, n)
	for _, p := range c.products[:n] {
		digests = append(digests, p.Digest())
	}
	return digests
}

// Seed returns a small built-in catalog used for local development and demos.
func Seed() *Catalog {
	return New([]Product{
		{
			ID:          "nb001",
			Name:        "Aurora 14 Laptop",
			Category:    "Computers",
			Price:       1299,
			Rating:      4.7,
			UnitsSold:   830,
			Description: "Slim 14-inch laptop for heavy workloads with all-day battery life.",
			Features:    []string{"16GB RAM", "1TB SSD", "14-inch OLED"},
			InStock:     true,
		},
		{
			ID:          "nb002",
			Name:        "Fieldbook X1",
			Category:    "Computers",
			Price:       949,
			Rating:      4.4,
			UnitsSold:   1210,
			Description: "Rugged business notebook with a spill-proof keyboard.",
			Features:    []string{"32GB RAM", "512GB SSD"},
			InStock:     true,
		},
		{
			ID:          "au001",
			Name:        "Drift ANC Headphones",
			Category:    "Audio",
			Price:       249,
			Rating:      4.8,
			UnitsSold:   5400,
			Description: "Over-ear noise cancelling headphones with 40-hour battery.",
			Features:    []string{"Active noise cancelling", "Bluetooth 5.3"},
			InStock:     true,
		},
		{
			ID:          "au002",
			Name:        "Pebble Earbuds",
			Category:    "Audio",
			Price:       79,
			Rating:      4.1,
			UnitsSold:   9200,
			Description: "Compact wireless earbuds with wireless charging case.",
			InStock:     true,
		},
		{
			ID:          "acc001",
			Name:        "Glide Wireless Mouse",
			Category:    "Accessories",
			Price:       45,
			Rating:      4.3,
			UnitsSold:   3100,
			Description: "Low-latency wireless mouse with silent clicks.",
			InStock:     false,
		},
		{
			ID:          "acc002",
			Name:        "Keystone Mechanical Keyboard",
			Category:    "Accessories",
			Price:       129,
			Rating:      4.6,
			UnitsSold:   2600,
			Description: "Hot-swappable mechanical keyboard with PBT keycaps.",
			Features:    []string{"Hot-swappable switches", "USB-C"},
			InStock:     true,
		},
	})
}
