package domain

// FlowState — состояние оформления заказа. От него же зависит содержимое
// модального окна.
type FlowState int

const (
	Browsing FlowState = iota
	PreviewOpen
	BasketOpen
	OrderStep
	ContactsStep
	Submitting
	Success
)

var flowStateNames = [...]string{
	Browsing:     "browsing",
	PreviewOpen:  "preview-open",
	BasketOpen:   "basket-open",
	OrderStep:    "order-step",
	ContactsStep: "contacts-step",
	Submitting:   "submitting",
	Success:      "success",
}

func (s FlowState) String() string {
	if s < 0 || int(s) >= len(flowStateNames) {
		return "unknown"
	}
	return flowStateNames[s]
}
