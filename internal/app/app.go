// Package app wires the storefront: state holders, the checkout flow and the
// render coordinator share one bus, and intent events from the views are
// mapped onto mutators and flow transitions here.
package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/bus"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
	"github.com/example/storefront/internal/render"
	"github.com/example/storefront/internal/state"
)

// MsgCatalogFailed is shown when the catalog cannot be fetched.
const MsgCatalogFailed = "Не удалось загрузить каталог"

type Options struct {
	Products  domain.ProductSource
	Orders    domain.OrderPlacer
	Views     render.Views
	Scheduler checkout.Scheduler
	Log       *zap.Logger
	// Strict turns invariant violations into panics.
	Strict bool
}

// App owns every component of the client. All methods must be called from
// the scheduler's thread.
type App struct {
	Bus     *events.Bus
	Catalog *state.Catalog
	Basket  *state.Basket
	Buyer   *state.Buyer
	Flow    *checkout.Controller
	Render  *render.Coordinator

	products domain.ProductSource
	sched    checkout.Scheduler
	log      *zap.Logger
	strict   bool
	ctx      context.Context
}

func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		products: opts.Products,
		sched:    opts.Scheduler,
		log:      log,
		strict:   opts.Strict,
		ctx:      context.Background(),
	}
	a.Bus = events.NewBus(bus.WithErrorHandler[events.Event](a.handleError))
	a.Catalog = state.NewCatalog(a.Bus)
	a.Basket = state.NewBasket(a.Bus)
	a.Buyer = state.NewBuyer(a.Bus)
	a.Flow = checkout.New(a.Bus, a.Basket, a.Buyer, opts.Orders, opts.Scheduler, log.Named("checkout"))
	a.Render = render.NewCoordinator(a.Bus, opts.Views, a.Catalog, a.Basket, a.Buyer, a.Flow, log.Named("render"))

	a.Bus.SubscribeAll(a.trace)
	a.Render.Attach()
	events.On(a.Bus, a.onProductSelected)
	events.On(a.Bus, a.onBasketOpen)
	events.On(a.Bus, a.onToggle)
	events.On(a.Bus, a.onRemove)
	events.On(a.Bus, a.onCheckout)
	events.On(a.Bus, a.onFieldEdited)
	events.On(a.Bus, a.onOrderStep)
	events.On(a.Bus, a.onContactsStep)
	events.On(a.Bus, a.onClose)
	return a
}

// Start fetches the catalog in the background. ctx also bounds order submissions.
func (a *App) Start(ctx context.Context) {
	a.ctx = ctx
	a.sched.Go(func() func() {
		list, err := a.products.ListProducts(ctx)
		return func() {
			if err != nil {
				a.log.Error("load catalog", zap.Error(err))
				a.Bus.Publish(events.CatalogLoadFailed{Message: MsgCatalogFailed})
				return
			}
			a.log.Info("catalog loaded", zap.Int("items", len(list.Items)))
			a.Catalog.SetItems(list.Items)
		}
	})
}

// Dispatch publishes an intent coming from a view.
func (a *App) Dispatch(ev events.Event) {
	a.Bus.Publish(ev)
}

func (a *App) handleError(ev events.Event, err error) {
	if errors.Is(err, domain.ErrInvariant) {
		if a.strict {
			panic(errors.Wrapf(err, "handling %s", ev.EventName()))
		}
		a.log.Error("invariant violated", zap.String("event", ev.EventName()), zap.Error(err))
		return
	}
	a.log.Warn("event handler failed", zap.String("event", ev.EventName()), zap.Error(err))
}

func (a *App) trace(ev events.Event) error {
	a.log.Debug("event", zap.String("name", ev.EventName()))
	return nil
}

func (a *App) onProductSelected(ev events.ProductSelected) error {
	if err := a.Catalog.SetCurrentItem(ev.ID); err != nil {
		return err
	}
	return a.Flow.OpenPreview()
}

func (a *App) onBasketOpen(events.BasketOpenRequested) error {
	return a.Flow.OpenBasket()
}

// onToggle adds or removes the product, then closes the preview.
func (a *App) onToggle(ev events.BasketItemToggled) error {
	p, ok := a.Catalog.Item(ev.ID)
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "product %s", ev.ID)
	}
	if a.Basket.HasItem(p.ID) {
		a.Basket.RemoveItem(p.ID)
	} else if err := a.Basket.AddItem(p); err != nil {
		return err
	}
	return a.Flow.Close()
}

func (a *App) onRemove(ev events.BasketItemRemoved) error {
	a.Basket.RemoveItem(ev.ID)
	return nil
}

func (a *App) onCheckout(events.CheckoutRequested) error {
	return a.Flow.Checkout()
}

func (a *App) onFieldEdited(ev events.BuyerFieldEdited) error {
	return a.Buyer.SetField(ev.Field, ev.Value)
}

func (a *App) onOrderStep(events.OrderStepSubmitted) error {
	errs, err := a.Flow.SubmitOrderStep()
	if errors.Is(err, domain.ErrStepInvalid) {
		a.log.Info("order step incomplete", zap.Strings("errors", errs.Messages(domain.Fields...)))
		return nil
	}
	return err
}

func (a *App) onContactsStep(events.ContactsStepSubmitted) error {
	errs, err := a.Flow.SubmitContacts(a.ctx)
	if errors.Is(err, domain.ErrStepInvalid) {
		a.log.Info("contacts step incomplete", zap.Strings("errors", errs.Messages(domain.Fields...)))
		return nil
	}
	return err
}

func (a *App) onClose(events.ModalCloseRequested) error {
	return a.Flow.Close()
}
