// Package events defines the closed set of events exchanged over the
// storefront bus. Every event is a concrete struct implementing Event;
// consumers match on the concrete type.
package events

import (
	"github.com/example/storefront/internal/bus"
	"github.com/example/storefront/internal/domain"
)

// Event is the sealed event interface. Only types in this package implement it.
type Event interface {
	bus.Event
	sealed()
}

// Bus is the storefront bus.
type Bus = bus.Bus[Event]

// NewBus creates an isolated storefront bus.
func NewBus(opts ...bus.Option[Event]) *Bus {
	return bus.New[Event](opts...)
}

// Event names.
const (
	NameCatalogItemsChanged   = "catalog:items-changed"
	NameCatalogCurrentChanged = "catalog:current-changed"
	NameCatalogLoadFailed     = "catalog:load-failed"
	NameBasketChanged         = "basket:changed"
	NameBuyerChanged          = "buyer:changed"
	NameFlowStateChanged      = "flow:state-changed"
	NameOrderPlaced           = "order:placed"
	NameOrderFailed           = "order:failed"

	NameProductSelected       = "ui:product-selected"
	NameBasketOpenRequested   = "ui:basket-open"
	NameBasketItemToggled     = "ui:basket-toggle"
	NameBasketItemRemoved     = "ui:basket-remove"
	NameCheckoutRequested     = "ui:checkout"
	NameBuyerFieldEdited      = "ui:buyer-field"
	NameOrderStepSubmitted    = "ui:order-submit"
	NameContactsStepSubmitted = "ui:contacts-submit"
	NameModalCloseRequested   = "ui:modal-close"
)

// State events. Published by state holders and the checkout flow after the
// change has been applied.

type CatalogItemsChanged struct {
	Items []domain.Product
}

type CatalogCurrentChanged struct {
	Product domain.Product
}

type CatalogLoadFailed struct {
	Message string
}

// BasketChange says which mutation produced a BasketChanged event.
type BasketChange string

const (
	BasketAdded   BasketChange = "added"
	BasketRemoved BasketChange = "removed"
	BasketCleared BasketChange = "cleared"
)

type BasketChanged struct {
	Change  BasketChange
	Product domain.Product // zero for BasketCleared
	Items   []domain.Product
	Count   int
	Total   domain.Money
}

// BuyerChanged carries the whole record. Field is empty when the record was cleared.
type BuyerChanged struct {
	Field domain.Field
	Data  domain.BuyerData
}

type FlowStateChanged struct {
	From domain.FlowState
	To   domain.FlowState
}

type OrderPlaced struct {
	Result domain.OrderResult
	Stale  bool
}

type OrderFailed struct {
	Message string
	Stale   bool
}

// Intent events. Published by views in response to user input.

type ProductSelected struct{ ID string }
type BasketOpenRequested struct{}
type BasketItemToggled struct{ ID string }
type BasketItemRemoved struct{ ID string }
type CheckoutRequested struct{}
type BuyerFieldEdited struct {
	Field domain.Field
	Value string
}
type OrderStepSubmitted struct{}
type ContactsStepSubmitted struct{}
type ModalCloseRequested struct{}

func (CatalogItemsChanged) EventName() string   { return NameCatalogItemsChanged }
func (CatalogCurrentChanged) EventName() string { return NameCatalogCurrentChanged }
func (CatalogLoadFailed) EventName() string     { return NameCatalogLoadFailed }
func (BasketChanged) EventName() string         { return NameBasketChanged }
func (BuyerChanged) EventName() string          { return NameBuyerChanged }
func (FlowStateChanged) EventName() string      { return NameFlowStateChanged }
func (OrderPlaced) EventName() string           { return NameOrderPlaced }
func (OrderFailed) EventName() string           { return NameOrderFailed }
func (ProductSelected) EventName() string       { return NameProductSelected }
func (BasketOpenRequested) EventName() string   { return NameBasketOpenRequested }
func (BasketItemToggled) EventName() string     { return NameBasketItemToggled }
func (BasketItemRemoved) EventName() string     { return NameBasketItemRemoved }
func (CheckoutRequested) EventName() string     { return NameCheckoutRequested }
func (BuyerFieldEdited) EventName() string      { return NameBuyerFieldEdited }
func (OrderStepSubmitted) EventName() string    { return NameOrderStepSubmitted }
func (ContactsStepSubmitted) EventName() string { return NameContactsStepSubmitted }
func (ModalCloseRequested) EventName() string   { return NameModalCloseRequested }

func (CatalogItemsChanged) sealed()   {}
func (CatalogCurrentChanged) sealed() {}
func (CatalogLoadFailed) sealed()     {}
func (BasketChanged) sealed()         {}
func (BuyerChanged) sealed()          {}
func (FlowStateChanged) sealed()      {}
func (OrderPlaced) sealed()           {}
func (OrderFailed) sealed()           {}
func (ProductSelected) sealed()       {}
func (BasketOpenRequested) sealed()   {}
func (BasketItemToggled) sealed()     {}
func (BasketItemRemoved) sealed()     {}
func (CheckoutRequested) sealed()     {}
func (BuyerFieldEdited) sealed()      {}
func (OrderStepSubmitted) sealed()    {}
func (ContactsStepSubmitted) sealed() {}
func (ModalCloseRequested) sealed()   {}

// On subscribes a handler typed to a single concrete event. The bus only
// delivers events whose name matches, so the assertion always holds for
// events from this package.
func On[T Event](b *Bus, h func(T) error) bus.Handle {
	var zero T
	return b.Subscribe(zero.EventName(), func(ev Event) error {
		t, ok := ev.(T)
		if !ok {
			return domain.ErrInvariant
		}
		return h(t)
	})
}
