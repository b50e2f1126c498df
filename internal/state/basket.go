package state

import (
	"github.com/go-faster/errors"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
)

// Basket is an insertion-ordered set of products keyed by id.
type Basket struct {
	bus   *events.Bus
	items []domain.Product
}

func NewBasket(b *events.Bus) *Basket {
	return &Basket{bus: b}
}

// AddItem appends p. Adding an id that is already present does nothing and
// publishes nothing. Priceless products are rejected with ErrNotPurchasable.
func (b *Basket) AddItem(p domain.Product) error {
	if !p.Price.Purchasable() {
		return errors.Wrapf(domain.ErrNotPurchasable, "product %q", p.ID)
	}
	if b.HasItem(p.ID) {
		return nil
	}
	b.items = append(b.items, p)
	b.publish(events.BasketAdded, p)
	return nil
}

// RemoveItem drops the product with the given id; unknown ids are ignored.
func (b *Basket) RemoveItem(id string) {
	for i, p := range b.items {
		if p.ID != id {
			continue
		}
		b.items = append(b.items[:i:i], b.items[i+1:]...)
		b.publish(events.BasketRemoved, p)
		return
	}
}

// Clear empties the basket. It always publishes.
func (b *Basket) Clear() {
	b.items = nil
	b.publish(events.BasketCleared, domain.Product{})
}

func (b *Basket) Items() []domain.Product {
	return domain.CopyProducts(b.items)
}

func (b *Basket) HasItem(id string) bool {
	for _, p := range b.items {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (b *Basket) TotalItems() int {
	return len(b.items)
}

// TotalPrice sums item prices. Priceless products never get in, so this is the order total.
func (b *Basket) TotalPrice() domain.Money {
	total := domain.NewMoney(0)
	for _, p := range b.items {
		total = total.Plus(p.Price.Amount())
	}
	return total
}

func (b *Basket) publish(change events.BasketChange, p domain.Product) {
	b.bus.Publish(events.BasketChanged{
		Change:  change,
		Product: p,
		Items:   b.Items(),
		Count:   b.TotalItems(),
		Total:   b.TotalPrice(),
	})
}
