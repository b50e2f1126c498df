// Package render turns state events into view renders. It re-renders only
// the region an event affects and reads what the modal shows from the
// checkout flow, never from rendered output.
package render

import (
	"fmt"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/bus"
	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
	"github.com/example/storefront/internal/validation"
)

// MsgLateOrderPlaced is shown when an order succeeds after the user left checkout.
const MsgLateOrderPlaced = "Заказ %s оформлен, списано %s синапсов"

type Catalog interface {
	CurrentItem() (domain.Product, bool)
}

type Basket interface {
	Items() []domain.Product
	TotalItems() int
	TotalPrice() domain.Money
	HasItem(id string) bool
}

type Buyer interface {
	Data() domain.BuyerData
}

// Flow exposes the checkout state the coordinator renders from.
type Flow interface {
	State() domain.FlowState
	Result() (domain.OrderResult, bool)
	LastError() string
}

// Coordinator subscribes to state events and drives the views.
type Coordinator struct {
	bus     *events.Bus
	views   Views
	catalog Catalog
	basket  Basket
	buyer   Buyer
	flow    Flow
	log     *zap.Logger
	handles []bus.Handle
}

func NewCoordinator(b *events.Bus, views Views, catalog Catalog, basket Basket, buyer Buyer, flow Flow, log *zap.Logger) *Coordinator {
	return &Coordinator{
		bus:     b,
		views:   views,
		catalog: catalog,
		basket:  basket,
		buyer:   buyer,
		flow:    flow,
		log:     log,
	}
}

// Attach subscribes the coordinator to the bus and renders the header once.
func (c *Coordinator) Attach() {
	c.handles = append(c.handles,
		events.On(c.bus, c.onCatalogItems),
		events.On(c.bus, c.onCatalogLoadFailed),
		events.On(c.bus, c.onBasket),
		events.On(c.bus, c.onBuyer),
		events.On(c.bus, c.onFlow),
		events.On(c.bus, c.onOrderFailed),
		events.On(c.bus, c.onOrderPlaced),
	)
	c.views.Header.Render(HeaderModel{Count: c.basket.TotalItems()})
}

// Detach removes every subscription made by Attach.
func (c *Coordinator) Detach() {
	for _, h := range c.handles {
		c.bus.Unsubscribe(h)
	}
	c.handles = nil
}

// Content is what the modal shows right now.
func (c *Coordinator) Content() Content {
	return ContentFor(c.flow.State())
}

func (c *Coordinator) onCatalogItems(ev events.CatalogItemsChanged) error {
	cards := make([]CardModel, 0, len(ev.Items))
	for _, p := range ev.Items {
		cards = append(cards, cardOf(p))
	}
	c.views.Gallery.Render(GalleryModel{Cards: cards})
	c.log.Debug("gallery rendered", zap.Int("cards", len(cards)))
	return nil
}

func (c *Coordinator) onCatalogLoadFailed(ev events.CatalogLoadFailed) error {
	c.views.Notice.Render(NoticeModel{Message: ev.Message})
	return nil
}

func (c *Coordinator) onBasket(ev events.BasketChanged) error {
	c.views.Header.Render(HeaderModel{Count: ev.Count})
	switch c.Content() {
	case ContentBasket:
		c.views.Modal.SetContent(c.views.Basket.Render(basketModel(ev.Items, ev.Total)))
	case ContentPreview:
		el, err := c.renderPreview()
		if err != nil {
			return err
		}
		c.views.Modal.SetContent(el)
	}
	return nil
}

func (c *Coordinator) onBuyer(ev events.BuyerChanged) error {
	switch c.Content() {
	case ContentOrderForm:
		c.views.Modal.SetContent(c.renderOrderForm(ev.Data, true))
	case ContentContactsForm:
		c.views.Modal.SetContent(c.renderContactsForm(ev.Data, true))
	}
	return nil
}

func (c *Coordinator) onFlow(ev events.FlowStateChanged) error {
	content := ContentFor(ev.To)
	c.log.Debug("modal content", zap.Stringer("from", ev.From), zap.Stringer("to", ev.To), zap.Stringer("content", content))
	if content == ContentClosed {
		c.views.Modal.Close()
		return nil
	}

	var el Element
	switch content {
	case ContentPreview:
		var err error
		if el, err = c.renderPreview(); err != nil {
			return err
		}
	case ContentBasket:
		el = c.views.Basket.Render(basketModel(c.basket.Items(), c.basket.TotalPrice()))
	case ContentOrderForm:
		el = c.renderOrderForm(c.buyer.Data(), false)
	case ContentContactsForm:
		el = c.renderContactsForm(c.buyer.Data(), false)
	case ContentSuccess:
		res, ok := c.flow.Result()
		if !ok {
			return errors.Wrap(domain.ErrInvariant, "success without an order result")
		}
		el = c.views.Success.Render(SuccessModel{OrderID: res.ID, Total: res.Total})
	}
	c.views.Modal.SetContent(el)
	c.views.Modal.Open()
	return nil
}

func (c *Coordinator) onOrderFailed(ev events.OrderFailed) error {
	if ev.Stale {
		c.log.Info("late order failure", zap.String("message", ev.Message))
	}
	c.views.Notice.Render(NoticeModel{Message: ev.Message})
	return nil
}

// onOrderPlaced surfaces a success the success screen did not show.
func (c *Coordinator) onOrderPlaced(ev events.OrderPlaced) error {
	if !ev.Stale {
		return nil
	}
	c.log.Info("late order success", zap.String("order_id", ev.Result.ID))
	c.views.Notice.Render(NoticeModel{Message: fmt.Sprintf(MsgLateOrderPlaced, ev.Result.ID, ev.Result.Total.String())})
	return nil
}

func (c *Coordinator) renderPreview() (Element, error) {
	p, ok := c.catalog.CurrentItem()
	if !ok {
		return nil, errors.Wrap(domain.ErrInvariant, "preview without a current product")
	}
	m := PreviewModel{
		Card:        cardOf(p),
		Description: p.Description,
		CanBuy:      p.Price.Purchasable(),
		InBasket:    c.basket.HasItem(p.ID),
	}
	switch {
	case !m.CanBuy:
		m.ButtonText = ButtonUnavailable
	case m.InBasket:
		m.ButtonText = ButtonRemove
	default:
		m.ButtonText = ButtonBuy
	}
	return c.views.Preview.Render(m), nil
}

func (c *Coordinator) renderOrderForm(data domain.BuyerData, showErrors bool) Element {
	errs := validation.CheckValidity(data)
	m := OrderFormModel{
		Payment: data.Payment,
		Address: data.Address,
		Valid:   validation.OrderStepValid(errs),
	}
	if showErrors {
		m.Errors = errs.Messages(validation.OrderFields...)
	}
	return c.views.Order.Render(m)
}

func (c *Coordinator) renderContactsForm(data domain.BuyerData, showErrors bool) Element {
	errs := validation.CheckValidity(data)
	busy := c.flow.State() == domain.Submitting
	m := ContactsFormModel{
		Email: data.Email,
		Phone: data.Phone,
		Valid: validation.ContactsStepValid(errs) && !busy,
		Busy:  busy,
	}
	if showErrors {
		m.Errors = errs.Messages(validation.ContactsFields...)
	}
	if msg := c.flow.LastError(); msg != "" {
		m.Errors = append(m.Errors, msg)
	}
	return c.views.Contacts.Render(m)
}

func basketModel(items []domain.Product, total domain.Money) BasketModel {
	lines := make([]BasketLine, 0, len(items))
	for i, p := range items {
		lines = append(lines, BasketLine{Index: i + 1, ID: p.ID, Title: p.Title, Price: p.Price})
	}
	return BasketModel{Lines: lines, Total: total, CanCheckout: len(items) > 0}
}
