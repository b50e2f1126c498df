package domain

// Payment — способ оплаты, выбранный на шаге заказа.
type Payment string

const (
	PaymentCard Payment = "card"
	PaymentCash Payment = "cash"
)

// Valid — допустим ли способ оплаты.
func (p Payment) Valid() bool {
	return p == PaymentCard || p == PaymentCash
}

// Field — имя поля покупателя.
type Field string

const (
	FieldPayment Field = "payment"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
)

// Fields — поля покупателя в порядке форм.
var Fields = []Field{FieldPayment, FieldAddress, FieldEmail, FieldPhone}

// BuyerData — данные покупателя. Значения могут быть неполными.
type BuyerData struct {
	Payment Payment `json:"payment"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
}

// Get возвращает значение поля как есть.
func (b BuyerData) Get(f Field) string {
	switch f {
	case FieldPayment:
		return string(b.Payment)
	case FieldEmail:
		return b.Email
	case FieldPhone:
		return b.Phone
	case FieldAddress:
		return b.Address
	}
	return ""
}
