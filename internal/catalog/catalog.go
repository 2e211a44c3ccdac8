package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rookgm/pointsclub/internal/models"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products []models.Product `yaml:"products"`
}

// Catalog is read-only product list
type Catalog struct {
	products map[string]models.Product
	active   []models.Product
}

// Load reads catalog from YAML file at path. Empty path gives an empty catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(nil), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads catalog from YAML stream
func Decode(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Products))
	for _, p := range file.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q has negative price", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return New(file.Products), nil
}

// New creates catalog from products
func New(products []models.Product) *Catalog {
	c := &Catalog{
		products: make(map[string]models.Product, len(products)),
	}
	for _, p := range products {
		c.products[p.ID] = p
		if p.Active {
			c.active = append(c.active, p)
		}
	}
	sort.Slice(c.active, func(i, j int) bool {
		if c.active[i].Category != c.active[j].Category {
			return c.active[i].Category < c.active[j].Category
		}
		return c.active[i].Name < c.active[j].Name
	})
	return c
}

// Product returns product by id
func (c *Catalog) Product(id string) (models.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// List returns active products sorted by category and name
func (c *Catalog) List() []models.Product {
	out := make([]models.Product, len(c.active))
	copy(out, c.active)
	return out
}
