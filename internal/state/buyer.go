package state

import (
	"github.com/go-faster/errors"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
)

// Buyer holds the checkout form data. Values are stored as entered;
// validity is checked separately by the validation package.
type Buyer struct {
	bus  *events.Bus
	data domain.BuyerData
}

func NewBuyer(b *events.Bus) *Buyer {
	return &Buyer{bus: b}
}

func (b *Buyer) SetPayment(p domain.Payment) {
	b.data.Payment = p
	b.changed(domain.FieldPayment)
}

func (b *Buyer) SetEmail(v string) {
	b.data.Email = v
	b.changed(domain.FieldEmail)
}

func (b *Buyer) SetPhone(v string) {
	b.data.Phone = v
	b.changed(domain.FieldPhone)
}

func (b *Buyer) SetAddress(v string) {
	b.data.Address = v
	b.changed(domain.FieldAddress)
}

// SetField sets a field by name.
func (b *Buyer) SetField(f domain.Field, v string) error {
	switch f {
	case domain.FieldPayment:
		b.SetPayment(domain.Payment(v))
	case domain.FieldEmail:
		b.SetEmail(v)
	case domain.FieldPhone:
		b.SetPhone(v)
	case domain.FieldAddress:
		b.SetAddress(v)
	default:
		return errors.Wrapf(domain.ErrInvariant, "unknown buyer field %q", f)
	}
	return nil
}

// Data returns the record as is, complete or not.
func (b *Buyer) Data() domain.BuyerData {
	return b.data
}

// Clear resets every field. It always publishes.
func (b *Buyer) Clear() {
	b.data = domain.BuyerData{}
	b.changed("")
}

func (b *Buyer) changed(f domain.Field) {
	b.bus.Publish(events.BuyerChanged{Field: f, Data: b.data})
}
