package render

import "github.com/example/storefront/internal/domain"

// Content is what the modal currently shows.
type Content int

const (
	ContentClosed Content = iota
	ContentPreview
	ContentBasket
	ContentOrderForm
	ContentContactsForm
	ContentSuccess
)

var contentNames = [...]string{"closed", "product-preview", "basket", "order-form", "contacts-form", "success"}

func (c Content) String() string {
	if c < 0 || int(c) >= len(contentNames) {
		return "unknown"
	}
	return contentNames[c]
}

// ContentFor maps a flow state to modal content. The contacts form stays up while submitting.
func ContentFor(s domain.FlowState) Content {
	switch s {
	case domain.PreviewOpen:
		return ContentPreview
	case domain.BasketOpen:
		return ContentBasket
	case domain.OrderStep:
		return ContentOrderForm
	case domain.ContactsStep, domain.Submitting:
		return ContentContactsForm
	case domain.Success:
		return ContentSuccess
	default:
		return ContentClosed
	}
}
