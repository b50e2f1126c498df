// Package textview renders the storefront as plain text. Regions outside the
// modal (header, gallery, notices) are written as soon as they render; modal
// content is written when the modal is open.
package textview

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/render"
)

// Screen owns the output and hands out the views.
type Screen struct {
	mu  sync.Mutex
	out io.Writer

	modalOpen    bool
	modalContent string
}

func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out}
}

// Views returns the full set of views backed by this screen.
func (s *Screen) Views() render.Views {
	return render.Views{
		Header:   viewFunc[render.HeaderModel](s.header),
		Gallery:  viewFunc[render.GalleryModel](s.gallery),
		Preview:  viewFunc[render.PreviewModel](preview),
		Basket:   viewFunc[render.BasketModel](basket),
		Order:    viewFunc[render.OrderFormModel](orderForm),
		Contacts: viewFunc[render.ContactsFormModel](contactsForm),
		Success:  viewFunc[render.SuccessModel](success),
		Notice:   viewFunc[render.NoticeModel](s.notice),
		Modal:    (*modal)(s),
	}
}

type viewFunc[M any] func(M) string

func (f viewFunc[M]) Render(m M) render.Element { return f(m) }

// Println writes a line outside any view, serialized with view output.
func (s *Screen) Println(text string) {
	s.write(text)
}

func (s *Screen) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, text)
}

func (s *Screen) header(m render.HeaderModel) string {
	text := fmt.Sprintf("== storefront ==  basket: %d", m.Count)
	s.write(text)
	return text
}

func (s *Screen) gallery(m render.GalleryModel) string {
	var b strings.Builder
	b.WriteString("catalog:\n")
	for _, c := range m.Cards {
		fmt.Fprintf(&b, "  [%s] %-10s %s  %s\n", c.ID, "<"+string(c.Style)+">", c.Title, price(c.Price))
	}
	text := strings.TrimRight(b.String(), "\n")
	s.write(text)
	return text
}

func (s *Screen) notice(m render.NoticeModel) string {
	text := "! " + m.Message
	s.write(text)
	return text
}

type modal Screen

func (m *modal) SetContent(el render.Element) {
	s := (*Screen)(m)
	text := fmt.Sprint(el)
	s.mu.Lock()
	s.modalContent = text
	open := s.modalOpen
	s.mu.Unlock()
	if open {
		s.write(frame(text))
	}
}

func (m *modal) Open() {
	s := (*Screen)(m)
	s.mu.Lock()
	if s.modalOpen {
		s.mu.Unlock()
		return
	}
	s.modalOpen = true
	text := s.modalContent
	s.mu.Unlock()
	s.write(frame(text))
}

func (m *modal) Close() {
	s := (*Screen)(m)
	s.mu.Lock()
	wasOpen := s.modalOpen
	s.modalOpen = false
	s.mu.Unlock()
	if wasOpen {
		s.write("(closed)")
	}
}

func frame(text string) string {
	return "+--------\n" + text + "\n+--------"
}

func preview(m render.PreviewModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  <%s>\n", m.Card.Title, m.Card.Category)
	if m.Card.Image != "" {
		fmt.Fprintf(&b, "image: %s\n", m.Card.Image)
	}
	if m.Description != "" {
		b.WriteString(m.Description + "\n")
	}
	fmt.Fprintf(&b, "%s\n", price(m.Card.Price))
	if m.CanBuy {
		fmt.Fprintf(&b, "[toggle %s] %s", m.Card.ID, m.ButtonText)
	} else {
		fmt.Fprintf(&b, "[%s]", m.ButtonText)
	}
	return b.String()
}

func basket(m render.BasketModel) string {
	var b strings.Builder
	b.WriteString("Корзина\n")
	for _, l := range m.Lines {
		fmt.Fprintf(&b, "  %d. %s  %s  [remove %s]\n", l.Index, l.Title, price(l.Price), l.ID)
	}
	fmt.Fprintf(&b, "Итого: %s синапсов\n", m.Total.StringFixed(2))
	if m.CanCheckout {
		b.WriteString("[checkout]")
	} else {
		b.WriteString("[checkout disabled]")
	}
	return b.String()
}

func orderForm(m render.OrderFormModel) string {
	var b strings.Builder
	b.WriteString("Способ оплаты:")
	for _, p := range []domain.Payment{domain.PaymentCard, domain.PaymentCash} {
		mark := " "
		if m.Payment == p {
			mark = "x"
		}
		fmt.Fprintf(&b, " [%s] %s", mark, p)
	}
	fmt.Fprintf(&b, "\nАдрес: %s\n", m.Address)
	writeErrors(&b, m.Errors)
	b.WriteString(submit("next", m.Valid))
	return b.String()
}

func contactsForm(m render.ContactsFormModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Email: %s\nТелефон: %s\n", m.Email, m.Phone)
	writeErrors(&b, m.Errors)
	if m.Busy {
		b.WriteString("[sending...]")
		return b.String()
	}
	b.WriteString(submit("pay", m.Valid))
	return b.String()
}

func success(m render.SuccessModel) string {
	return fmt.Sprintf("Заказ оформлен (%s)\nСписано %s синапсов\n[close]", m.OrderID, m.Total.String())
}

func writeErrors(b *strings.Builder, errs []string) {
	for _, e := range errs {
		fmt.Fprintf(b, "  * %s\n", e)
	}
}

func submit(cmd string, enabled bool) string {
	if enabled {
		return "[" + cmd + "]"
	}
	return "[" + cmd + " disabled]"
}

func price(p domain.Price) string {
	if !p.Purchasable() {
		return "Бесценно"
	}
	return p.Amount().String() + " синапсов"
}
