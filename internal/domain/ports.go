package domain

import (
	"context"

	"github.com/go-faster/errors"
)

// ProductRepository — порт персистентности товаров.
type ProductRepository interface {
	UpsertProduct(ctx context.Context, id string, raw []byte) error
	LoadProducts(ctx context.Context, fn func(id string, raw []byte) error) error
}

// OrderRepository — порт персистентности оформленных заказов.
type OrderRepository interface {
	SaveOrder(ctx context.Context, id string, raw []byte) error
}

// ProductCache — порт быстрого доступа к товарам. List сохраняет порядок добавления.
type ProductCache interface {
	Get(id string) (Product, bool)
	Set(id string, p Product)
	List() []Product
}

// MessageSubscriber — порт подписчика на входящие сообщения.
type MessageSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

// ProductSource — порт загрузки каталога для витрины.
type ProductSource interface {
	ListProducts(ctx context.Context) (ProductList, error)
}

// OrderPlacer — порт отправки заказа. Отказ бэкенда приходит как
// *OrderRejectedError, сбой транспорта как обёрнутая ошибка.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// Общие доменные ошибки
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("invalid data")
	ErrNotPurchasable      = errors.New("product is not purchasable")
	ErrEmptyBasket         = errors.New("basket is empty")
	ErrStepInvalid         = errors.New("checkout step has validation errors")
	ErrTransitionForbidden = errors.New("transition not allowed")
	ErrInvariant           = errors.New("invariant violated")
)
