package domain

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Money хранит денежную сумму и сериализуется в JSON числом, а не строкой.
type Money struct {
	decimal.Decimal
}

// NewMoney — целая сумма.
func NewMoney(v int64) Money {
	return Money{Decimal: decimal.NewFromInt(v)}
}

// ParseMoney разбирает десятичную строку вида "850" или "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errors.Wrapf(err, "parse money %q", s)
	}
	return Money{Decimal: d}, nil
}

// Plus возвращает m + o.
func (m Money) Plus(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Same сравнивает суммы численно (10 == 10.00).
func (m Money) Same(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return errors.New("money: null amount")
	}
	return m.Decimal.UnmarshalJSON(b)
}

// Price — цена товара. Нулевое значение означает «бесценно»: товар виден
// в каталоге, но купить его нельзя.
type Price struct {
	amount Money
	set    bool
}

// Priceless — цена товара без числовой стоимости.
var Priceless = Price{}

// PriceOf — цена товара, который можно купить.
func PriceOf(m Money) Price {
	return Price{amount: m, set: true}
}

// Purchasable — есть ли у цены числовое значение.
func (p Price) Purchasable() bool { return p.set }

// Amount для бесценного товара возвращает ноль.
func (p Price) Amount() Money {
	if !p.set {
		return Money{}
	}
	return p.amount
}

func (p Price) String() string {
	if !p.set {
		return "priceless"
	}
	return p.amount.String()
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}
	return p.amount.MarshalJSON()
}

func (p *Price) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*p = Priceless
		return nil
	}
	var m Money
	if err := m.UnmarshalJSON(b); err != nil {
		return errors.Wrap(err, "price")
	}
	*p = PriceOf(m)
	return nil
}
