package render

import "github.com/example/storefront/internal/domain"

// Element is whatever a view produces. The coordinator only passes it on to the modal.
type Element any

// View renders a view model.
type View[M any] interface {
	Render(M) Element
}

// Modal is the single dialog the storefront shows content in.
type Modal interface {
	SetContent(Element)
	Open()
	Close()
}

// Views are the external view collaborators. Every field is required.
type Views struct {
	Header   View[HeaderModel]
	Gallery  View[GalleryModel]
	Preview  View[PreviewModel]
	Basket   View[BasketModel]
	Order    View[OrderFormModel]
	Contacts View[ContactsFormModel]
	Success  View[SuccessModel]
	Notice   View[NoticeModel]
	Modal    Modal
}

type HeaderModel struct {
	Count int
}

type CardModel struct {
	ID       string
	Title    string
	Category domain.Category
	Style    domain.Style
	Image    string
	Price    domain.Price
}

type GalleryModel struct {
	Cards []CardModel
}

type PreviewModel struct {
	Card        CardModel
	Description string
	CanBuy      bool
	InBasket    bool
	ButtonText  string
}

type BasketLine struct {
	Index int
	ID    string
	Title string
	Price domain.Price
}

type BasketModel struct {
	Lines       []BasketLine
	Total       domain.Money
	CanCheckout bool
}

type OrderFormModel struct {
	Payment domain.Payment
	Address string
	Errors  []string
	Valid   bool
}

type ContactsFormModel struct {
	Email  string
	Phone  string
	Errors []string
	Valid  bool
	Busy   bool
}

type SuccessModel struct {
	OrderID string
	Total   domain.Money
}

type NoticeModel struct {
	Message string
}

const (
	ButtonBuy         = "В корзину"
	ButtonRemove      = "Удалить из корзины"
	ButtonUnavailable = "Недоступно"
)

func cardOf(p domain.Product) CardModel {
	return CardModel{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Style:    p.Category.Style(),
		Image:    p.Image,
		Price:    p.Price,
	}
}
