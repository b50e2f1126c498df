// Package checkout is the state machine deciding which storefront step is
// shown and whether the order may be submitted.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
	"github.com/example/storefront/internal/validation"
)

// MsgSubmitFailed is shown when the order could not reach the backend.
const MsgSubmitFailed = "Не удалось отправить заказ, попробуйте ещё раз"

// Scheduler runs blocking work off the loop and posts the returned continuation back onto it.
type Scheduler interface {
	Go(work func() func())
}

// Basket is the part of the basket the flow reads and clears.
type Basket interface {
	Items() []domain.Product
	TotalItems() int
	TotalPrice() domain.Money
	Clear()
}

// Buyer is the part of the buyer the flow reads and clears.
type Buyer interface {
	Data() domain.BuyerData
	Clear()
}

var transitions = map[domain.FlowState][]domain.FlowState{
	domain.Browsing:     {domain.PreviewOpen, domain.BasketOpen},
	domain.PreviewOpen:  {domain.Browsing, domain.PreviewOpen, domain.BasketOpen},
	domain.BasketOpen:   {domain.Browsing, domain.PreviewOpen, domain.OrderStep},
	domain.OrderStep:    {domain.ContactsStep, domain.Browsing},
	domain.ContactsStep: {domain.Submitting, domain.Browsing},
	domain.Submitting:   {domain.Success, domain.ContactsStep, domain.Browsing},
	domain.Success:      {domain.Browsing},
}

// Allowed reports whether the flow may move from one state to another.
func Allowed(from, to domain.FlowState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Controller owns the flow state. It must only be used from the loop.
type Controller struct {
	bus    *events.Bus
	basket Basket
	buyer  Buyer
	orders domain.OrderPlacer
	sched  Scheduler
	log    *zap.Logger

	state   domain.FlowState
	seq     uint64
	result  *domain.OrderResult
	lastErr string
}

func New(b *events.Bus, basket Basket, buyer Buyer, orders domain.OrderPlacer, sched Scheduler, log *zap.Logger) *Controller {
	return &Controller{
		bus:    b,
		basket: basket,
		buyer:  buyer,
		orders: orders,
		sched:  sched,
		log:    log,
		state:  domain.Browsing,
	}
}

func (c *Controller) State() domain.FlowState { return c.state }

// Result returns the last successful order.
func (c *Controller) Result() (domain.OrderResult, bool) {
	if c.result == nil {
		return domain.OrderResult{}, false
	}
	return *c.result, true
}

// LastError is the message of the last failed submission, cleared on the next attempt.
func (c *Controller) LastError() string { return c.lastErr }

// OpenPreview shows the current catalog product.
func (c *Controller) OpenPreview() error {
	return c.move(domain.PreviewOpen)
}

func (c *Controller) OpenBasket() error {
	return c.move(domain.BasketOpen)
}

// Checkout moves from the basket to the order step. The basket must not be empty.
func (c *Controller) Checkout() error {
	if err := c.check(domain.OrderStep); err != nil {
		return err
	}
	if c.basket.TotalItems() == 0 {
		return domain.ErrEmptyBasket
	}
	return c.move(domain.OrderStep)
}

// SubmitOrderStep moves to the contacts step when payment and address are valid.
// The returned errors are the current validation result either way.
func (c *Controller) SubmitOrderStep() (validation.Errors, error) {
	if err := c.check(domain.ContactsStep); err != nil {
		return nil, err
	}
	errs := validation.CheckValidity(c.buyer.Data())
	if !validation.OrderStepValid(errs) {
		return errs, domain.ErrStepInvalid
	}
	return errs, c.move(domain.ContactsStep)
}

// SubmitContacts sends the order. The request runs through the scheduler and
// its outcome is applied when the continuation runs on the loop.
func (c *Controller) SubmitContacts(ctx context.Context) (validation.Errors, error) {
	if err := c.check(domain.Submitting); err != nil {
		return nil, err
	}
	data := c.buyer.Data()
	errs := validation.CheckValidity(data)
	if !validation.ContactsStepValid(errs) || !validation.OrderStepValid(errs) {
		return errs, domain.ErrStepInvalid
	}
	if c.basket.TotalItems() == 0 {
		return errs, domain.ErrEmptyBasket
	}

	req := domain.NewOrderRequest(data, c.basket.Items(), c.basket.TotalPrice())
	c.seq++
	token := c.seq
	c.lastErr = ""
	if err := c.move(domain.Submitting); err != nil {
		return errs, err
	}

	c.log.Info("submitting order", zap.Int("items", len(req.Items)), zap.String("total", req.Total.String()))
	c.sched.Go(func() func() {
		res, err := c.orders.PlaceOrder(ctx, req)
		return func() { c.complete(token, res, err) }
	})
	return errs, nil
}

// Close returns to browsing. Closing during submission does not cancel the
// request; its outcome is treated as stale.
func (c *Controller) Close() error {
	if c.state == domain.Browsing {
		return nil
	}
	c.lastErr = ""
	return c.move(domain.Browsing)
}

func (c *Controller) complete(token uint64, res domain.OrderResult, err error) {
	stale := token != c.seq || c.state != domain.Submitting

	if err != nil {
		msg := failureMessage(err)
		c.log.Warn("order failed", zap.Error(err), zap.Bool("stale", stale))
		if !stale {
			c.lastErr = msg
			if merr := c.move(domain.ContactsStep); merr != nil {
				c.log.Error("revert to contacts step", zap.Error(merr))
			}
		}
		c.bus.Publish(events.OrderFailed{Message: msg, Stale: stale})
		return
	}

	c.log.Info("order placed", zap.String("order_id", res.ID), zap.Bool("stale", stale))
	if !stale {
		c.result = &res
		if merr := c.move(domain.Success); merr != nil {
			c.log.Error("enter success", zap.Error(merr))
		}
	}
	// the order exists on the backend, so the basket goes even when the user has moved on
	c.basket.Clear()
	c.buyer.Clear()
	c.bus.Publish(events.OrderPlaced{Result: res, Stale: stale})
}

func (c *Controller) check(to domain.FlowState) error {
	if !Allowed(c.state, to) {
		return errors.Wrapf(domain.ErrTransitionForbidden, "%s -> %s", c.state, to)
	}
	return nil
}

func (c *Controller) move(to domain.FlowState) error {
	if err := c.check(to); err != nil {
		return err
	}
	from := c.state
	c.state = to
	c.bus.Publish(events.FlowStateChanged{From: from, To: to})
	return nil
}

func failureMessage(err error) string {
	var rejected *domain.OrderRejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return MsgSubmitFailed
}
