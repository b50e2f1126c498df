package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
	"github.com/example/storefront/internal/state"
)

// manualScheduler holds submitted work until the test runs it.
type manualScheduler struct {
	pending []func() func()
}

func (s *manualScheduler) Go(work func() func()) {
	s.pending = append(s.pending, work)
}

func (s *manualScheduler) flush() {
	for len(s.pending) > 0 {
		work := s.pending[0]
		s.pending = s.pending[1:]
		if next := work(); next != nil {
			next()
		}
	}
}

type fakePlacer struct {
	requests []domain.OrderRequest
	result   domain.OrderResult
	err      error
}

func (f *fakePlacer) PlaceOrder(_ context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

type fixture struct {
	bus    *events.Bus
	basket *state.Basket
	buyer  *state.Buyer
	placer *fakePlacer
	sched  *manualScheduler
	flow   *Controller
	seen   []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{bus: events.NewBus(), placer: &fakePlacer{}, sched: &manualScheduler{}}
	f.basket = state.NewBasket(f.bus)
	f.buyer = state.NewBuyer(f.bus)
	f.flow = New(f.bus, f.basket, f.buyer, f.placer, f.sched, zap.NewNop())
	f.bus.SubscribeAll(func(ev events.Event) error {
		f.seen = append(f.seen, ev)
		return nil
	})
	return f
}

func (f *fixture) fillBasket(t *testing.T, prices ...int64) {
	t.Helper()
	for i, p := range prices {
		id := string(rune('a' + i))
		require.NoError(t, f.basket.AddItem(domain.Product{ID: id, Price: domain.PriceOf(domain.NewMoney(p))}))
	}
}

func (f *fixture) fillBuyer() {
	f.buyer.SetPayment(domain.PaymentCard)
	f.buyer.SetAddress("Main St")
	f.buyer.SetEmail("buyer@example.com")
	f.buyer.SetPhone("+79001234567")
}

func (f *fixture) toContacts(t *testing.T) {
	t.Helper()
	require.NoError(t, f.flow.OpenBasket())
	require.NoError(t, f.flow.Checkout())
	_, err := f.flow.SubmitOrderStep()
	require.NoError(t, err)
	require.Equal(t, domain.ContactsStep, f.flow.State())
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(domain.Browsing, domain.PreviewOpen))
	assert.True(t, Allowed(domain.PreviewOpen, domain.BasketOpen))
	assert.True(t, Allowed(domain.BasketOpen, domain.PreviewOpen))
	assert.True(t, Allowed(domain.ContactsStep, domain.Submitting))
	assert.False(t, Allowed(domain.OrderStep, domain.Submitting))
	assert.False(t, Allowed(domain.Browsing, domain.Submitting))
	assert.False(t, Allowed(domain.Browsing, domain.Success))
	assert.False(t, Allowed(domain.ContactsStep, domain.Success))
}

func TestSuccessfulOrder(t *testing.T) {
	f := newFixture(t)
	f.fillBasket(t, 500, 350)
	f.fillBuyer()
	f.placer.result = domain.OrderResult{ID: "abc", Total: domain.NewMoney(850)}
	f.toContacts(t)

	_, err := f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Submitting, f.flow.State())

	f.seen = nil
	f.sched.flush()

	require.Len(t, f.placer.requests, 1)
	req := f.placer.requests[0]
	assert.Equal(t, []string{"a", "b"}, req.Items)
	assert.True(t, req.Total.Same(domain.NewMoney(850)))
	assert.Equal(t, domain.PaymentCard, req.Payment)

	assert.Equal(t, domain.Success, f.flow.State())
	res, ok := f.flow.Result()
	require.True(t, ok)
	assert.Equal(t, "abc", res.ID)
	assert.True(t, res.Total.Same(domain.NewMoney(850)))
	assert.Equal(t, 0, f.basket.TotalItems())
	assert.Equal(t, domain.BuyerData{}, f.buyer.Data())

	// the transition comes first, clearing is its side effect
	require.Len(t, f.seen, 4)
	assert.Equal(t, events.FlowStateChanged{From: domain.Submitting, To: domain.Success}, f.seen[0])
	assert.IsType(t, events.BasketChanged{}, f.seen[1])
	assert.IsType(t, events.BuyerChanged{}, f.seen[2])
	assert.Equal(t, events.OrderPlaced{Result: res}, f.seen[3])

	require.NoError(t, f.flow.Close())
	assert.Equal(t, domain.Browsing, f.flow.State())
}

func TestRejectedOrderKeepsState(t *testing.T) {
	f := newFixture(t)
	f.fillBasket(t, 100)
	f.fillBuyer()
	f.placer.err = &domain.OrderRejectedError{Status: 400, Message: "out of stock"}
	f.toContacts(t)
	buyerBefore := f.buyer.Data()

	_, err := f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	f.seen = nil
	f.sched.flush()

	assert.Equal(t, domain.ContactsStep, f.flow.State())
	assert.Equal(t, 1, f.basket.TotalItems())
	assert.Equal(t, buyerBefore, f.buyer.Data())
	assert.Equal(t, "out of stock", f.flow.LastError())
	_, ok := f.flow.Result()
	assert.False(t, ok)

	require.Len(t, f.seen, 2)
	assert.Equal(t, events.FlowStateChanged{From: domain.Submitting, To: domain.ContactsStep}, f.seen[0])
	assert.Equal(t, events.OrderFailed{Message: "out of stock"}, f.seen[1])
}

func TestNetworkFailureRevertsToContacts(t *testing.T) {
	f := newFixture(t)
	f.fillBasket(t, 100)
	f.fillBuyer()
	f.placer.err = errors.Wrap(context.DeadlineExceeded, "post /order")
	f.toContacts(t)

	_, err := f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	f.sched.flush()

	assert.Equal(t, domain.ContactsStep, f.flow.State())
	assert.Equal(t, MsgSubmitFailed, f.flow.LastError())

	// retry clears the previous message
	f.placer.err = nil
	f.placer.result = domain.OrderResult{ID: "x", Total: domain.NewMoney(100)}
	_, err = f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.flow.LastError())
	f.sched.flush()
	assert.Equal(t, domain.Success, f.flow.State())
}

func TestGuards(t *testing.T) {
	f := newFixture(t)

	_, err := f.flow.SubmitContacts(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransitionForbidden)

	require.NoError(t, f.flow.OpenBasket())
	assert.ErrorIs(t, f.flow.Checkout(), domain.ErrEmptyBasket)
	assert.Equal(t, domain.BasketOpen, f.flow.State())

	f.fillBasket(t, 10)
	require.NoError(t, f.flow.Checkout())

	errs, err := f.flow.SubmitOrderStep()
	assert.ErrorIs(t, err, domain.ErrStepInvalid)
	assert.Contains(t, errs, domain.FieldPayment)
	assert.Equal(t, domain.OrderStep, f.flow.State())

	f.buyer.SetPayment(domain.PaymentCash)
	f.buyer.SetAddress("Main St")
	_, err = f.flow.SubmitOrderStep()
	require.NoError(t, err)

	errs, err = f.flow.SubmitContacts(context.Background())
	assert.ErrorIs(t, err, domain.ErrStepInvalid)
	assert.Contains(t, errs, domain.FieldEmail)
	assert.Equal(t, domain.ContactsStep, f.flow.State())

	f.buyer.SetEmail("a@b.co")
	f.buyer.SetPhone("123")
	f.basket.Clear()
	_, err = f.flow.SubmitContacts(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyBasket)
	assert.Empty(t, f.sched.pending)
}

func TestPreviewAndBasketAreInterchangeable(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.flow.OpenPreview())
	require.NoError(t, f.flow.OpenPreview())
	require.NoError(t, f.flow.OpenBasket())
	require.NoError(t, f.flow.OpenPreview())
	require.NoError(t, f.flow.Close())
	assert.Equal(t, domain.Browsing, f.flow.State())

	f.seen = nil
	require.NoError(t, f.flow.Close())
	assert.Empty(t, f.seen, "closing an already closed modal publishes nothing")
}

func TestStaleFailureKeepsNavigation(t *testing.T) {
	f := newFixture(t)
	f.fillBasket(t, 100)
	f.fillBuyer()
	f.placer.err = &domain.OrderRejectedError{Status: 400, Message: "out of stock"}
	f.toContacts(t)

	_, err := f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.flow.Close())
	f.seen = nil
	f.sched.flush()

	assert.Equal(t, domain.Browsing, f.flow.State())
	assert.Equal(t, 1, f.basket.TotalItems())
	assert.Empty(t, f.flow.LastError())
	require.Len(t, f.seen, 1)
	assert.Equal(t, events.OrderFailed{Message: "out of stock", Stale: true}, f.seen[0])
}

func TestStaleSuccessClearsBasketWithoutShowingSuccess(t *testing.T) {
	f := newFixture(t)
	f.fillBasket(t, 100)
	f.fillBuyer()
	f.placer.result = domain.OrderResult{ID: "late", Total: domain.NewMoney(100)}
	f.toContacts(t)

	_, err := f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.flow.Close())
	require.NoError(t, f.flow.OpenBasket())
	f.sched.flush()

	assert.Equal(t, domain.BasketOpen, f.flow.State())
	assert.Equal(t, 0, f.basket.TotalItems())
	_, ok := f.flow.Result()
	assert.False(t, ok)
}

func TestSupersededSubmissionIsStale(t *testing.T) {
	f := newFixture(t)
	f.fillBasket(t, 100)
	f.fillBuyer()
	f.placer.err = &domain.OrderRejectedError{Status: 409, Message: "first"}
	f.toContacts(t)

	_, err := f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	first := f.sched.pending[0]
	f.sched.pending = nil

	require.NoError(t, f.flow.Close())
	f.toContacts(t)
	_, err = f.flow.SubmitContacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Submitting, f.flow.State())

	// the first response lands while the second request is in flight
	first()()
	assert.Equal(t, domain.Submitting, f.flow.State())
	assert.Empty(t, f.flow.LastError())
}
