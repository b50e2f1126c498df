// Package state holds the client-side state: catalog, basket and buyer.
// Holders never reference each other; each one publishes exactly one event
// per mutation, after the mutation has been applied.
package state

import (
	"github.com/go-faster/errors"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
)

// Catalog holds the product list and the product currently previewed.
type Catalog struct {
	bus     *events.Bus
	items   []domain.Product
	current *domain.Product
}

func NewCatalog(b *events.Bus) *Catalog {
	return &Catalog{bus: b}
}

// SetItems replaces the product list.
func (c *Catalog) SetItems(items []domain.Product) {
	c.items = domain.CopyProducts(items)
	c.bus.Publish(events.CatalogItemsChanged{Items: c.Items()})
}

// Items returns a copy of the product list.
func (c *Catalog) Items() []domain.Product {
	return domain.CopyProducts(c.items)
}

// Item looks a product up by id.
func (c *Catalog) Item(id string) (domain.Product, bool) {
	for _, p := range c.items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// SetCurrentItem selects the product to preview. The id must be in the
// current list; the product is copied, so later SetItems calls do not affect it.
func (c *Catalog) SetCurrentItem(id string) error {
	p, ok := c.Item(id)
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "product %q", id)
	}
	c.current = &p
	c.bus.Publish(events.CatalogCurrentChanged{Product: p})
	return nil
}

// CurrentItem returns the previewed product, if any.
func (c *Catalog) CurrentItem() (domain.Product, bool) {
	if c.current == nil {
		return domain.Product{}, false
	}
	return *c.current, true
}
