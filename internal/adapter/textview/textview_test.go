package textview

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
	"github.com/example/storefront/internal/render"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want events.Event
	}{
		{"show 42", events.ProductSelected{ID: "42"}},
		{"  toggle  p1 ", events.BasketItemToggled{ID: "p1"}},
		{"basket", events.BasketOpenRequested{}},
		{"remove p1", events.BasketItemRemoved{ID: "p1"}},
		{"checkout", events.CheckoutRequested{}},
		{"payment card", events.BuyerFieldEdited{Field: domain.FieldPayment, Value: "card"}},
		{"address Main St 1", events.BuyerFieldEdited{Field: domain.FieldAddress, Value: "Main St 1"}},
		{"email a@b.co", events.BuyerFieldEdited{Field: domain.FieldEmail, Value: "a@b.co"}},
		{"phone", events.BuyerFieldEdited{Field: domain.FieldPhone, Value: ""}},
		{"NEXT", events.OrderStepSubmitted{}},
		{"pay", events.ContactsStepSubmitted{}},
		{"close", events.ModalCloseRequested{}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "dance", "show", "remove "} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrUnknownCommand, bad)
	}
}

func TestModalWritesOnlyWhenOpen(t *testing.T) {
	var out bytes.Buffer
	views := NewScreen(&out).Views()

	views.Modal.SetContent("hidden")
	assert.Empty(t, out.String())

	views.Modal.Open()
	assert.Contains(t, out.String(), "hidden")

	out.Reset()
	views.Modal.SetContent(views.Basket.Render(render.BasketModel{
		Lines: []render.BasketLine{{Index: 1, ID: "a", Title: "Mug", Price: domain.PriceOf(domain.NewMoney(750))}},
		Total: domain.NewMoney(750),
	}))
	assert.Contains(t, out.String(), "1. Mug  750 синапсов")
	assert.Contains(t, out.String(), "Итого: 750.00 синапсов")
	assert.Contains(t, out.String(), "[checkout disabled]")

	out.Reset()
	views.Modal.Close()
	views.Modal.Close()
	assert.Equal(t, "(closed)\n", out.String())
}

func TestRegions(t *testing.T) {
	var out bytes.Buffer
	views := NewScreen(&out).Views()

	views.Header.Render(render.HeaderModel{Count: 3})
	views.Gallery.Render(render.GalleryModel{Cards: []render.CardModel{
		{ID: "1", Title: "Frame", Style: domain.StyleSoft, Price: domain.PriceOf(domain.NewMoney(2500))},
		{ID: "2", Title: "Priceless", Style: domain.StyleOther},
	}})
	views.Notice.Render(render.NoticeModel{Message: "out of stock"})

	text := out.String()
	assert.Contains(t, text, "basket: 3")
	assert.Contains(t, text, "[1] <soft>     Frame  2500 синапсов")
	assert.Contains(t, text, "Priceless  Бесценно")
	assert.Contains(t, text, "! out of stock")
}

func TestForms(t *testing.T) {
	views := NewScreen(&bytes.Buffer{}).Views()

	order := views.Order.Render(render.OrderFormModel{
		Payment: domain.PaymentCash,
		Errors:  []string{"Укажите адрес доставки"},
	}).(string)
	assert.Contains(t, order, "[ ] card [x] cash")
	assert.Contains(t, order, "* Укажите адрес доставки")
	assert.Contains(t, order, "[next disabled]")

	contacts := views.Contacts.Render(render.ContactsFormModel{Busy: true}).(string)
	assert.Contains(t, contacts, "[sending...]")

	done := views.Success.Render(render.SuccessModel{OrderID: "abc", Total: domain.NewMoney(850)}).(string)
	assert.Contains(t, done, "Списано 850 синапсов")
}

func TestPrintlnSharesOutputWithViews(t *testing.T) {
	var out bytes.Buffer
	screen := NewScreen(&out)
	views := screen.Views()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			screen.Println("? unknown command")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			views.Header.Render(render.HeaderModel{Count: i})
		}
	}()
	wg.Wait()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 100)
	for _, line := range lines {
		ok := line == "? unknown command" || strings.HasPrefix(line, "== storefront ==  basket: ")
		assert.True(t, ok, "interleaved line %q", line)
	}
}
